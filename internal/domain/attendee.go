package domain

import (
	"context"
	"time"
)

// AttendanceStatus is a user's RSVP state for one event.
// NotAttending is never stored: it is represented by the absence of an
// attendee record, so "never responded" and "explicitly opted out" are the
// same observable state.
type AttendanceStatus string

const (
	AttendancePending      AttendanceStatus = "pending"
	AttendanceConfirmed    AttendanceStatus = "confirmed"
	AttendanceNotAttending AttendanceStatus = "not-attending"
)

// Valid reports whether s is one of the three known statuses.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePending, AttendanceConfirmed, AttendanceNotAttending:
		return true
	}
	return false
}

// Attendee records one user's RSVP for one event. At most one record
// exists per (EventID, UserID) pair. Name and EventHostID are denormalized
// copies. A synthetic Attendee (ID empty, status not-attending) is returned
// by the upsert when the record was deleted or never existed.
// swagger:model Attendee
type Attendee struct {
	ID          string           `json:"id"`
	EventID     string           `json:"event_id"`
	UserID      string           `json:"user_id"`
	Name        string           `json:"name"`
	Status      AttendanceStatus `json:"status"`
	EventHostID string           `json:"event_host_id"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NewAttendee returns a new Attendee. ID is set by the repository on create.
func NewAttendee(eventID, userID, name string, status AttendanceStatus, eventHostID string, createdAt time.Time) *Attendee {
	return &Attendee{
		EventID:     eventID,
		UserID:      userID,
		Name:        name,
		Status:      status,
		EventHostID: eventHostID,
		CreatedAt:   createdAt,
	}
}

// AttendeeRepository defines storage operations for attendee records.
type AttendeeRepository interface {
	Create(ctx context.Context, att *Attendee) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Attendee, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Attendee, error)
	ListConfirmedByUserID(ctx context.Context, userID string) ([]*Attendee, error)
	UpdateStatus(ctx context.Context, id string, status AttendanceStatus) (*Attendee, error)
	Delete(ctx context.Context, id string) error
	DeleteByEventID(ctx context.Context, eventID string) (int, error)
}
