package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"iftargather/internal/domain"
)

type invitationService struct {
	invitationRepo domain.InvitationRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	eventService   domain.EventService
	emailService   domain.EmailService
	publicBaseURL  string
	logger         *slog.Logger
}

// NewInvitationService creates an InvitationService. emailService may be
// nil, in which case no invitation emails are sent.
func NewInvitationService(
	invitationRepo domain.InvitationRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	eventService domain.EventService,
	emailService domain.EmailService,
	publicBaseURL string,
	logger *slog.Logger,
) domain.InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		eventService:   eventService,
		emailService:   emailService,
		publicBaseURL:  strings.TrimSuffix(publicBaseURL, "/"),
		logger:         logger,
	}
}

func (s *invitationService) ListUserInvitations(ctx context.Context, userID string) ([]*domain.InvitationWithEvent, error) {
	invitations, err := s.invitationRepo.ListByInviteeID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}

	result := make([]*domain.InvitationWithEvent, 0, len(invitations))
	for _, inv := range invitations {
		item := &domain.InvitationWithEvent{Invitation: inv}
		event, err := s.eventRepo.GetByID(ctx, inv.EventID)
		if err != nil {
			// Keep the invitation without its embed; unlike attending
			// events the item is degraded, not dropped.
			s.logger.Warn("invitation event failed to resolve",
				"invitation_id", inv.ID, "event_id", inv.EventID, "err", err)
		} else {
			item.Event = event
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *invitationService) CreateInvitation(ctx context.Context, eventID, inviterID, inviteeEmail string) (*domain.Invitation, error) {
	email := strings.TrimSpace(strings.ToLower(inviteeEmail))
	if email == "" {
		return nil, domain.ErrInvalidInput
	}

	// Resolve the email to a registered user if one exists; the invitation
	// is created either way and stays addressable by email.
	inviteeID := ""
	if user, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		inviteeID = user.ID
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("resolve invitee email: %w", err)
	}

	inv := domain.NewInvitation(eventID, inviterID, inviteeID, email, time.Now())
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	s.sendInvitationEmail(ctx, inv)
	return inv, nil
}

// sendInvitationEmail delivers the invitation email with the event's share
// link. Failures are logged and never fail the invitation itself.
func (s *invitationService) sendInvitationEmail(ctx context.Context, inv *domain.Invitation) {
	if s.emailService == nil {
		return
	}
	event, err := s.eventRepo.GetByID(ctx, inv.EventID)
	if err != nil {
		s.logger.Warn("skipping invitation email, event lookup failed",
			"invitation_id", inv.ID, "event_id", inv.EventID, "err", err)
		return
	}
	inviterName := event.HostName
	if inviter, err := s.userRepo.GetByID(ctx, inv.InviterID); err == nil && inviter.Name != "" {
		inviterName = inviter.Name
	}
	data := &domain.InvitationEmailData{
		InviteeEmail:  inv.InviteeEmail,
		InviterName:   inviterName,
		EventTitle:    event.Title,
		EventDate:     event.Date,
		EventTime:     event.Time,
		EventLocation: event.Location,
		ShareLink:     s.publicBaseURL + "/share/" + event.ShareCode,
	}
	if err := s.emailService.SendInvitation(ctx, data); err != nil {
		s.logger.Warn("invitation email failed",
			"invitation_id", inv.ID, "invitee_email", inv.InviteeEmail, "err", err)
	}
}

func (s *invitationService) RespondToInvitation(ctx context.Context, invitationID string, status domain.InvitationStatus, userID, userName, eventID, hostID string) (*domain.Invitation, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidInput
	}

	updated, err := s.invitationRepo.UpdateStatus(ctx, invitationID, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update invitation status: %w", err)
	}

	if status == domain.InvitationConfirmed {
		if _, err := s.eventService.UpsertAttendance(ctx, eventID, userID, userName, domain.AttendanceConfirmed, hostID); err != nil {
			// The invitation is already confirmed and is not rolled back;
			// the records are left inconsistent.
			s.logger.Warn("invitation confirmed but attendee upsert failed",
				"invitation_id", invitationID, "event_id", eventID, "user_id", userID, "err", err)
			return nil, fmt.Errorf("upsert attendance: %w", err)
		}
	}
	return updated, nil
}
