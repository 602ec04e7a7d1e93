package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"iftargather/internal/domain"
)

func TestBuildUserCalendar(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	cal := NewCalendarService(f.events, testLogger())

	hosted := f.createEvent(t, "Family Iftar", false, "u-1")
	attending := f.createEvent(t, "Community Iftar", true, "host-2")
	_, err := f.events.UpsertAttendance(ctx, attending.ID, "u-1", "Amina", domain.AttendanceConfirmed, "host-2")
	require.NoError(t, err)

	feed, err := cal.BuildUserCalendar(ctx, "u-1")
	require.NoError(t, err)
	require.Contains(t, feed, "BEGIN:VCALENDAR")
	require.Contains(t, feed, "SUMMARY:Family Iftar")
	require.Contains(t, feed, "SUMMARY:Community Iftar")
	require.Contains(t, feed, hosted.ID+"@iftargather")
}

func TestBuildUserCalendar_SkipsInvalidDates(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	cal := NewCalendarService(f.events, testLogger())

	bad := domain.NewEvent("Broken", "sometime", "late", "", "", false, "", "", time.Time{})
	_, err := f.events.CreateEvent(ctx, bad, "u-1", "Amina")
	require.NoError(t, err)
	f.createEvent(t, "Family Iftar", false, "u-1")

	feed, err := cal.BuildUserCalendar(ctx, "u-1")
	require.NoError(t, err)
	require.Contains(t, feed, "SUMMARY:Family Iftar")
	require.NotContains(t, feed, "SUMMARY:Broken")
}

func TestBuildUserCalendar_DedupesHostedAndAttending(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	cal := NewCalendarService(f.events, testLogger())

	event := f.createEvent(t, "Family Iftar", false, "u-1")
	_, err := f.events.UpsertAttendance(ctx, event.ID, "u-1", "Amina", domain.AttendanceConfirmed, "u-1")
	require.NoError(t, err)

	feed, err := cal.BuildUserCalendar(ctx, "u-1")
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(feed, "BEGIN:VEVENT"))
}
