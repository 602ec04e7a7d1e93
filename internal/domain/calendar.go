package domain

import "context"

// CalendarService renders a user's gatherings as an iCalendar feed.
type CalendarService interface {
	// BuildUserCalendar returns the serialized ICS feed of the user's
	// hosted and attending events.
	BuildUserCalendar(ctx context.Context, userID string) (string, error)
}
