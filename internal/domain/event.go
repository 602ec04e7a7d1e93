package domain

import (
	"context"
	"time"
)

// Event represents one iftar gathering.
// Date is a calendar date encoded YYYY-MM-DD and Time is HH:MM (24-hour);
// both are kept string-encoded because that is the wire shape of the
// document store. HostID and ShareCode are immutable after creation.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	HostID      string    `json:"host_id"`
	HostName    string    `json:"host_name"`
	ShareCode   string    `json:"share_code"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEvent returns a new Event with the given fields. ID is set by the
// repository on create; ShareCode is set by the service.
func NewEvent(title, date, tm, location, description string, isPublic bool, hostID, hostName string, createdAt time.Time) *Event {
	return &Event{
		Title:       title,
		Date:        date,
		Time:        tm,
		Location:    location,
		Description: description,
		IsPublic:    isPublic,
		HostID:      hostID,
		HostName:    hostName,
		CreatedAt:   createdAt,
	}
}

// EventPatch holds the updatable event fields. Nil fields are unchanged.
// Host and share code are never patched.
type EventPatch struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

// EventWithAttendees bundles an event with its attendee list.
type EventWithAttendees struct {
	Event     *Event      `json:"event"`
	Attendees []*Attendee `json:"attendees"`
}

// CascadeDeleteResult reports the outcome of an event cascade delete.
// The delete runs as three ordered, non-transactional phases (attendees,
// invitations, event); FailedPhase names the phase that errored, if any,
// so callers can decide whether to retry or alert.
type CascadeDeleteResult struct {
	AttendeesDeleted   int    `json:"attendees_deleted"`
	InvitationsDeleted int    `json:"invitations_deleted"`
	EventDeleted       bool   `json:"event_deleted"`
	FailedPhase        string `json:"failed_phase,omitempty"`
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// GetByShareCode returns the first event carrying the share code, or
	// ErrNotFound on zero matches. Share codes are best-effort unique.
	GetByShareCode(ctx context.Context, shareCode string) (*Event, error)
	ListByHostID(ctx context.Context, hostID string) ([]*Event, error)
	// ListAll returns every event in the collection, public or not.
	ListAll(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, id string, patch *EventPatch) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService defines the event/attendance data-flow operations.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event, hostID, hostName string) (*Event, error)
	ListEventsByHost(ctx context.Context, hostID string) ([]*Event, error)
	// ListCatalogEvents returns ALL events, public or not. Callers that
	// want the public catalog filter on IsPublic themselves.
	ListCatalogEvents(ctx context.Context) ([]*Event, error)
	// ListAttendingEvents resolves the user's confirmed attendee records to
	// their parent events. Events that fail to resolve are dropped.
	ListAttendingEvents(ctx context.Context, userID string) ([]*Event, error)
	GetEventByID(ctx context.Context, id string) (*Event, error)
	GetEventByShareCode(ctx context.Context, shareCode string) (*Event, error)
	UpdateEvent(ctx context.Context, id string, patch *EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, id string) (*CascadeDeleteResult, error)

	ListEventAttendees(ctx context.Context, eventID string) ([]*Attendee, error)
	// UpsertAttendance creates or updates the (eventID, userID) attendee
	// record. Status not-attending deletes any existing record and returns
	// a synthetic Attendee with no ID.
	UpsertAttendance(ctx context.Context, eventID, userID, name string, status AttendanceStatus, hostID string) (*Attendee, error)
	// UpdateExistingAttendance updates the record in place and returns
	// ErrNotFound when none exists. Unlike UpsertAttendance it never
	// creates; both exist because call paths depend on the difference.
	UpdateExistingAttendance(ctx context.Context, eventID, userID string, status AttendanceStatus) (*Attendee, error)
	// GetUserAttendanceStatus returns not-attending both when no record
	// exists and when the user opted out; the two are indistinguishable.
	GetUserAttendanceStatus(ctx context.Context, eventID, userID string) (AttendanceStatus, error)
}
