package docstorerepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"iftargather/internal/docstore/memory"
	"iftargather/internal/domain"
)

func TestEventRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(memory.New())

	event := domain.NewEvent("Family Iftar", "2026-03-01", "18:30", "Masjid Al-Noor", "Bring dates", false, "user-1", "Amina", time.Now())
	event.ShareCode = "family-iftar-a1b2c"
	require.NoError(t, repo.Create(ctx, event))
	require.NotEmpty(t, event.ID)

	got, err := repo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	require.Equal(t, "Family Iftar", got.Title)
	require.Equal(t, "2026-03-01", got.Date)
	require.Equal(t, "18:30", got.Time)
	require.Equal(t, "user-1", got.HostID)
	require.Equal(t, "Amina", got.HostName)
	require.False(t, got.IsPublic)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventRepository_GetByShareCode(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(memory.New())

	event := domain.NewEvent("Family Iftar", "2026-03-01", "18:30", "", "", false, "user-1", "Amina", time.Now())
	event.ShareCode = "family-iftar-a1b2c"
	require.NoError(t, repo.Create(ctx, event))

	got, err := repo.GetByShareCode(ctx, "family-iftar-a1b2c")
	require.NoError(t, err)
	require.Equal(t, event.ID, got.ID)

	_, err = repo.GetByShareCode(ctx, "no-such-code")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventRepository_ListByHostAndAll(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(memory.New())

	for _, host := range []string{"user-1", "user-1", "user-2"} {
		ev := domain.NewEvent("Iftar", "2026-03-01", "18:30", "", "", true, host, "h", time.Now())
		require.NoError(t, repo.Create(ctx, ev))
	}

	mine, err := repo.ListByHostID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, mine, 2)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestEventRepository_UpdateNeverTouchesHostOrShareCode(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(memory.New())

	event := domain.NewEvent("Family Iftar", "2026-03-01", "18:30", "", "", false, "user-1", "Amina", time.Now())
	event.ShareCode = "family-iftar-a1b2c"
	require.NoError(t, repo.Create(ctx, event))

	title := "Community Iftar"
	public := true
	got, err := repo.Update(ctx, event.ID, &domain.EventPatch{Title: &title, IsPublic: &public})
	require.NoError(t, err)
	require.Equal(t, "Community Iftar", got.Title)
	require.True(t, got.IsPublic)
	require.Equal(t, "user-1", got.HostID)
	require.Equal(t, "family-iftar-a1b2c", got.ShareCode)
}

func TestAttendeeRepository_CompositeLookupAndCascade(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := NewAttendeeRepository(store)

	a1 := domain.NewAttendee("ev-1", "u-1", "Amina", domain.AttendanceConfirmed, "host-1", time.Now())
	a2 := domain.NewAttendee("ev-1", "u-2", "Bilal", domain.AttendancePending, "host-1", time.Now())
	a3 := domain.NewAttendee("ev-2", "u-1", "Amina", domain.AttendanceConfirmed, "host-2", time.Now())
	for _, a := range []*domain.Attendee{a1, a2, a3} {
		require.NoError(t, repo.Create(ctx, a))
	}

	got, err := repo.GetByEventAndUser(ctx, "ev-1", "u-1")
	require.NoError(t, err)
	require.Equal(t, a1.ID, got.ID)

	_, err = repo.GetByEventAndUser(ctx, "ev-1", "nobody")
	require.ErrorIs(t, err, domain.ErrNotFound)

	confirmed, err := repo.ListConfirmedByUserID(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, confirmed, 2)

	deleted, err := repo.DeleteByEventID(ctx, "ev-1")
	require.NoError(t, err)
	require.Equal(t, 2, deleted)

	remaining, err := repo.ListByEventID(ctx, "ev-1")
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestInvitationRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewInvitationRepository(memory.New())

	inv := domain.NewInvitation("ev-1", "host-1", "u-2", "guest@example.com", time.Now())
	require.NoError(t, repo.Create(ctx, inv))
	require.Equal(t, domain.InvitationPending, inv.Status)

	updated, err := repo.UpdateStatus(ctx, inv.ID, domain.InvitationConfirmed)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationConfirmed, updated.Status)

	mine, err := repo.ListByInviteeID(ctx, "u-2")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	deleted, err := repo.DeleteByEventID(ctx, "ev-1")
	require.NoError(t, err)
	require.Equal(t, 1, deleted)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(memory.New())

	user := domain.NewUser("amina@example.com", "Amina", "hash", time.Now())
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByEmail(ctx, "amina@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
