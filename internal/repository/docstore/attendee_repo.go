package docstorerepo

import (
	"context"
	"errors"

	"iftargather/internal/docstore"
	"iftargather/internal/domain"
)

type attendeeRepository struct {
	store docstore.Store
}

// NewAttendeeRepository returns an AttendeeRepository over the given store.
func NewAttendeeRepository(store docstore.Store) domain.AttendeeRepository {
	return &attendeeRepository{store: store}
}

func (r *attendeeRepository) Create(ctx context.Context, att *domain.Attendee) error {
	doc, err := r.store.CreateDocument(ctx, docstore.CollectionAttendees, docstore.AutoID, map[string]any{
		"eventId":     att.EventID,
		"userId":      att.UserID,
		"name":        att.Name,
		"status":      string(att.Status),
		"eventHostId": att.EventHostID,
	})
	if err != nil {
		return err
	}
	att.ID = doc.ID
	att.CreatedAt = doc.CreatedAt
	return nil
}

func (r *attendeeRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Attendee, error) {
	docs, err := r.store.ListDocuments(ctx, docstore.CollectionAttendees,
		docstore.Equal("eventId", eventID), docstore.Equal("userId", userID))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.ErrNotFound
	}
	return attendeeFromDocument(docs[0]), nil
}

func (r *attendeeRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Attendee, error) {
	docs, err := r.store.ListDocuments(ctx, docstore.CollectionAttendees, docstore.Equal("eventId", eventID))
	if err != nil {
		return nil, err
	}
	return attendeesFromDocuments(docs), nil
}

func (r *attendeeRepository) ListConfirmedByUserID(ctx context.Context, userID string) ([]*domain.Attendee, error) {
	docs, err := r.store.ListDocuments(ctx, docstore.CollectionAttendees,
		docstore.Equal("userId", userID), docstore.Equal("status", string(domain.AttendanceConfirmed)))
	if err != nil {
		return nil, err
	}
	return attendeesFromDocuments(docs), nil
}

func (r *attendeeRepository) UpdateStatus(ctx context.Context, id string, status domain.AttendanceStatus) (*domain.Attendee, error) {
	doc, err := r.store.UpdateDocument(ctx, docstore.CollectionAttendees, id, map[string]any{
		"status": string(status),
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return attendeeFromDocument(doc), nil
}

func (r *attendeeRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.DeleteDocument(ctx, docstore.CollectionAttendees, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *attendeeRepository) DeleteByEventID(ctx context.Context, eventID string) (int, error) {
	docs, err := r.store.ListDocuments(ctx, docstore.CollectionAttendees, docstore.Equal("eventId", eventID))
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, doc := range docs {
		if err := r.store.DeleteDocument(ctx, docstore.CollectionAttendees, doc.ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func attendeeFromDocument(doc *docstore.Document) *domain.Attendee {
	return &domain.Attendee{
		ID:          doc.ID,
		EventID:     doc.String("eventId"),
		UserID:      doc.String("userId"),
		Name:        doc.String("name"),
		Status:      domain.AttendanceStatus(doc.String("status")),
		EventHostID: doc.String("eventHostId"),
		CreatedAt:   doc.CreatedAt,
	}
}

func attendeesFromDocuments(docs []*docstore.Document) []*domain.Attendee {
	attendees := make([]*domain.Attendee, 0, len(docs))
	for _, doc := range docs {
		attendees = append(attendees, attendeeFromDocument(doc))
	}
	return attendees
}
