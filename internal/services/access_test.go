package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"iftargather/internal/domain"
)

func TestCanViewEvent(t *testing.T) {
	private := &domain.Event{ID: "ev-1", HostID: "host-1", IsPublic: false}
	public := &domain.Event{ID: "ev-2", HostID: "host-1", IsPublic: true}

	tests := []struct {
		name         string
		event        *domain.Event
		requesterID  string
		viaShareCode bool
		want         bool
	}{
		{"host sees private", private, "host-1", false, true},
		{"stranger blocked from private", private, "user-2", false, false},
		{"anonymous blocked from private", private, "", false, false},
		{"anyone sees public", public, "user-2", false, true},
		{"anonymous sees public", public, "", false, true},
		{"share code bypasses private flag", private, "", true, true},
		{"share code for authenticated stranger", private, "user-2", true, true},
		{"nil event", nil, "host-1", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CanViewEvent(tt.event, tt.requesterID, tt.viaShareCode))
		})
	}
}

func TestIsHost(t *testing.T) {
	event := &domain.Event{ID: "ev-1", HostID: "host-1"}
	require.True(t, IsHost(event, "host-1"))
	require.False(t, IsHost(event, "user-2"))
	require.False(t, IsHost(event, ""))
	require.False(t, IsHost(nil, "host-1"))
}

// A private event stays reachable through its share code for an actor with
// no session at all: share links are unlisted, not access-controlled.
func TestPrivateEventReachableByShareCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	event := f.createEvent(t, "Family Iftar", false, "host-1")
	require.False(t, event.IsPublic)

	got, err := f.events.GetEventByShareCode(ctx, event.ShareCode)
	require.NoError(t, err)
	require.Equal(t, event.ID, got.ID)
	require.True(t, CanViewEvent(got, "", true))
}
