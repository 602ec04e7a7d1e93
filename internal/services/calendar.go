package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	ical "github.com/arran4/golang-ical"

	"iftargather/internal/domain"
)

// Gatherings carry a date and a start time but no end; the feed uses a
// fixed duration.
const calendarEventDuration = 2 * time.Hour

type calendarService struct {
	eventService domain.EventService
	logger       *slog.Logger
}

// NewCalendarService returns a CalendarService over the event service.
func NewCalendarService(eventService domain.EventService, logger *slog.Logger) domain.CalendarService {
	return &calendarService{eventService: eventService, logger: logger}
}

func (s *calendarService) BuildUserCalendar(ctx context.Context, userID string) (string, error) {
	hosted, err := s.eventService.ListEventsByHost(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("list hosted events: %w", err)
	}
	attending, err := s.eventService.ListAttendingEvents(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("list attending events: %w", err)
	}

	// Hosted first; an event both hosted and attended appears once.
	seen := make(map[string]struct{}, len(hosted))
	events := make([]*domain.Event, 0, len(hosted)+len(attending))
	for _, ev := range hosted {
		seen[ev.ID] = struct{}{}
		events = append(events, ev)
	}
	for _, ev := range attending {
		if _, ok := seen[ev.ID]; ok {
			continue
		}
		events = append(events, ev)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//iftargather//calendar//EN")

	now := time.Now()
	for _, ev := range events {
		start, err := time.ParseInLocation("2006-01-02 15:04", ev.Date+" "+ev.Time, time.Local)
		if err != nil {
			// Unparseable date/time: skip this entry, keep the feed.
			s.logger.Warn("skipping calendar entry with invalid date/time",
				"event_id", ev.ID, "date", ev.Date, "time", ev.Time, "err", err)
			continue
		}
		item := cal.AddEvent(ev.ID + "@iftargather")
		item.SetDtStampTime(now)
		item.SetStartAt(start)
		item.SetEndAt(start.Add(calendarEventDuration))
		item.SetSummary(ev.Title)
		if ev.Location != "" {
			item.SetLocation(ev.Location)
		}
		if ev.Description != "" {
			item.SetDescription(ev.Description)
		}
		item.SetOrganizer(ev.HostName)
	}

	return cal.Serialize(), nil
}
