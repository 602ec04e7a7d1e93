package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"iftargather/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	attendeeRepo   domain.AttendeeRepository
	invitationRepo domain.InvitationRepository
	logger         *slog.Logger
}

// NewEventService creates an EventService with the given repositories.
func NewEventService(
	eventRepo domain.EventRepository,
	attendeeRepo domain.AttendeeRepository,
	invitationRepo domain.InvitationRepository,
	logger *slog.Logger,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		attendeeRepo:   attendeeRepo,
		invitationRepo: invitationRepo,
		logger:         logger,
	}
}

const shareCodeSuffixLength = 5

const shareCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// generateShareCode builds "slug(title)-xxxxx" with a random alphanumeric
// suffix. Uniqueness is best-effort: there is no collision retry loop.
func generateShareCode(title string) (string, error) {
	suffix, err := gonanoid.Generate(shareCodeAlphabet, shareCodeSuffixLength)
	if err != nil {
		return "", err
	}
	return slug.Make(title) + "-" + suffix, nil
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event, hostID, hostName string) (*domain.Event, error) {
	if strings.TrimSpace(event.Title) == "" {
		return nil, domain.ErrInvalidInput
	}
	if hostID == "" {
		return nil, fmt.Errorf("event host is required")
	}

	code, err := generateShareCode(event.Title)
	if err != nil {
		return nil, fmt.Errorf("generate share code: %w", err)
	}
	event.ShareCode = code
	event.HostID = hostID
	event.HostName = hostName
	event.CreatedAt = time.Now()

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEventsByHost(ctx context.Context, hostID string) ([]*domain.Event, error) {
	events, err := s.eventRepo.ListByHostID(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("list events by host: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

// ListCatalogEvents returns every event in the collection, public or not.
// Callers that want only discoverable events filter on IsPublic themselves.
func (s *eventService) ListCatalogEvents(ctx context.Context) ([]*domain.Event, error) {
	events, err := s.eventRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) ListAttendingEvents(ctx context.Context, userID string) ([]*domain.Event, error) {
	records, err := s.attendeeRepo.ListConfirmedByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list confirmed attendance: %w", err)
	}

	events := make([]*domain.Event, 0, len(records))
	for _, rec := range records {
		event, err := s.eventRepo.GetByID(ctx, rec.EventID)
		if err != nil {
			// Event deleted or unreachable; drop this entry rather than
			// failing the whole list.
			s.logger.Warn("dropping attending event that failed to resolve",
				"event_id", rec.EventID, "user_id", userID, "err", err)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func (s *eventService) GetEventByID(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEventByShareCode(ctx context.Context, shareCode string) (*domain.Event, error) {
	code := strings.ToLower(strings.TrimSpace(shareCode))
	event, err := s.eventRepo.GetByShareCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event by share code: %w", err)
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, patch *domain.EventPatch) (*domain.Event, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.ErrInvalidInput
	}
	updated, err := s.eventRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

// DeleteEvent removes the event and everything referencing it in three
// ordered phases: attendees, invitations, then the event document. The
// phases are not transactional; on failure the result names the phase so
// the caller can retry or alert, and earlier phases stay deleted.
func (s *eventService) DeleteEvent(ctx context.Context, id string) (*domain.CascadeDeleteResult, error) {
	result := &domain.CascadeDeleteResult{}

	deleted, err := s.attendeeRepo.DeleteByEventID(ctx, id)
	result.AttendeesDeleted = deleted
	if err != nil {
		result.FailedPhase = "attendees"
		return result, fmt.Errorf("delete attendees: %w", err)
	}

	deleted, err = s.invitationRepo.DeleteByEventID(ctx, id)
	result.InvitationsDeleted = deleted
	if err != nil {
		result.FailedPhase = "invitations"
		return result, fmt.Errorf("delete invitations: %w", err)
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		result.FailedPhase = "event"
		if errors.Is(err, domain.ErrNotFound) {
			return result, domain.ErrNotFound
		}
		return result, fmt.Errorf("delete event: %w", err)
	}
	result.EventDeleted = true
	return result, nil
}

func (s *eventService) ListEventAttendees(ctx context.Context, eventID string) ([]*domain.Attendee, error) {
	attendees, err := s.attendeeRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	if attendees == nil {
		attendees = []*domain.Attendee{}
	}
	return attendees, nil
}

func (s *eventService) UpsertAttendance(ctx context.Context, eventID, userID, name string, status domain.AttendanceStatus, hostID string) (*domain.Attendee, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidInput
	}

	existing, err := s.attendeeRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get attendee: %w", err)
	}

	if status == domain.AttendanceNotAttending {
		if existing != nil {
			if err := s.attendeeRepo.Delete(ctx, existing.ID); err != nil {
				return nil, fmt.Errorf("delete attendee: %w", err)
			}
		}
		// Not-attending is stored as absence; the returned record is
		// synthetic (no ID) and never persisted.
		return &domain.Attendee{
			EventID:     eventID,
			UserID:      userID,
			Name:        name,
			Status:      domain.AttendanceNotAttending,
			EventHostID: hostID,
		}, nil
	}

	if existing != nil {
		updated, err := s.attendeeRepo.UpdateStatus(ctx, existing.ID, status)
		if err != nil {
			return nil, fmt.Errorf("update attendee status: %w", err)
		}
		return updated, nil
	}

	att := domain.NewAttendee(eventID, userID, name, status, hostID, time.Now())
	if err := s.attendeeRepo.Create(ctx, att); err != nil {
		return nil, fmt.Errorf("create attendee: %w", err)
	}
	return att, nil
}

func (s *eventService) UpdateExistingAttendance(ctx context.Context, eventID, userID string, status domain.AttendanceStatus) (*domain.Attendee, error) {
	if !status.Valid() || status == domain.AttendanceNotAttending {
		return nil, domain.ErrInvalidInput
	}
	existing, err := s.attendeeRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get attendee: %w", err)
	}
	updated, err := s.attendeeRepo.UpdateStatus(ctx, existing.ID, status)
	if err != nil {
		return nil, fmt.Errorf("update attendee status: %w", err)
	}
	return updated, nil
}

func (s *eventService) GetUserAttendanceStatus(ctx context.Context, eventID, userID string) (domain.AttendanceStatus, error) {
	existing, err := s.attendeeRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// No record: either never responded or explicitly opted out;
			// the two are indistinguishable.
			return domain.AttendanceNotAttending, nil
		}
		return "", fmt.Errorf("get attendee: %w", err)
	}
	return existing.Status, nil
}
