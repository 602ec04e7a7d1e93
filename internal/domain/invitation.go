package domain

import (
	"context"
	"time"
)

// InvitationStatus is the invitee's response state.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationConfirmed InvitationStatus = "confirmed"
	InvitationDeclined  InvitationStatus = "declined"
)

// Valid reports whether s is one of the three known statuses.
func (s InvitationStatus) Valid() bool {
	switch s {
	case InvitationPending, InvitationConfirmed, InvitationDeclined:
		return true
	}
	return false
}

// Invitation is a standing offer from an inviter to an invitee (by email)
// to attend an event. InviteeID is empty when no registered user matches
// the email at creation time; the invitation is still created and remains
// visible by email.
// swagger:model Invitation
type Invitation struct {
	ID           string           `json:"id"`
	EventID      string           `json:"event_id"`
	InviterID    string           `json:"inviter_id"`
	InviteeID    string           `json:"invitee_id"`
	InviteeEmail string           `json:"invitee_email"`
	Status       InvitationStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
}

// NewInvitation returns a pending Invitation. ID is set by the repository on create.
func NewInvitation(eventID, inviterID, inviteeID, inviteeEmail string, createdAt time.Time) *Invitation {
	return &Invitation{
		EventID:      eventID,
		InviterID:    inviterID,
		InviteeID:    inviteeID,
		InviteeEmail: inviteeEmail,
		Status:       InvitationPending,
		CreatedAt:    createdAt,
	}
}

// InvitationWithEvent bundles an invitation with its resolved parent event.
// Event is nil when resolution failed; the invitation itself is still
// returned (degrade, not drop).
type InvitationWithEvent struct {
	Invitation *Invitation `json:"invitation"`
	Event      *Event      `json:"event,omitempty"`
}

// InvitationRepository defines storage operations for invitations.
type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id string) (*Invitation, error)
	ListByInviteeID(ctx context.Context, inviteeID string) ([]*Invitation, error)
	UpdateStatus(ctx context.Context, id string, status InvitationStatus) (*Invitation, error)
	DeleteByEventID(ctx context.Context, eventID string) (int, error)
}

// InvitationService defines the invitation data-flow operations.
type InvitationService interface {
	// ListUserInvitations returns the invitations addressed to the user,
	// each with its parent event embedded when it resolves.
	ListUserInvitations(ctx context.Context, userID string) ([]*InvitationWithEvent, error)
	CreateInvitation(ctx context.Context, eventID, inviterID, inviteeEmail string) (*Invitation, error)
	// RespondToInvitation updates the invitation status; on confirmed it
	// additionally upserts a confirmed attendee record. The two writes are
	// not transactional.
	RespondToInvitation(ctx context.Context, invitationID string, status InvitationStatus, userID, userName, eventID, hostID string) (*Invitation, error)
}
