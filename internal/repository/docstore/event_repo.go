// Package docstorerepo implements the domain repositories as request and
// response shaping over a docstore.Store. Each method is a single store
// call; no state is held between calls.
package docstorerepo

import (
	"context"
	"errors"

	"iftargather/internal/docstore"
	"iftargather/internal/domain"
)

type eventRepository struct {
	store docstore.Store
}

// NewEventRepository returns an EventRepository over the given store.
func NewEventRepository(store docstore.Store) domain.EventRepository {
	return &eventRepository{store: store}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	doc, err := r.store.CreateDocument(ctx, docstore.CollectionEvents, docstore.AutoID, map[string]any{
		"title":       e.Title,
		"date":        e.Date,
		"time":        e.Time,
		"location":    e.Location,
		"description": e.Description,
		"isPublic":    e.IsPublic,
		"hostId":      e.HostID,
		"hostName":    e.HostName,
		"shareCode":   e.ShareCode,
	})
	if err != nil {
		return err
	}
	e.ID = doc.ID
	e.CreatedAt = doc.CreatedAt
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	doc, err := r.store.GetDocument(ctx, docstore.CollectionEvents, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return eventFromDocument(doc), nil
}

func (r *eventRepository) GetByShareCode(ctx context.Context, shareCode string) (*domain.Event, error) {
	docs, err := r.store.ListDocuments(ctx, docstore.CollectionEvents, docstore.Equal("shareCode", shareCode))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.ErrNotFound
	}
	// Share codes are best-effort unique; on duplicates the first match wins.
	return eventFromDocument(docs[0]), nil
}

func (r *eventRepository) ListByHostID(ctx context.Context, hostID string) ([]*domain.Event, error) {
	docs, err := r.store.ListDocuments(ctx, docstore.CollectionEvents, docstore.Equal("hostId", hostID))
	if err != nil {
		return nil, err
	}
	return eventsFromDocuments(docs), nil
}

func (r *eventRepository) ListAll(ctx context.Context) ([]*domain.Event, error) {
	docs, err := r.store.ListDocuments(ctx, docstore.CollectionEvents)
	if err != nil {
		return nil, err
	}
	return eventsFromDocuments(docs), nil
}

func (r *eventRepository) Update(ctx context.Context, id string, patch *domain.EventPatch) (*domain.Event, error) {
	fields := make(map[string]any)
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Date != nil {
		fields["date"] = *patch.Date
	}
	if patch.Time != nil {
		fields["time"] = *patch.Time
	}
	if patch.Location != nil {
		fields["location"] = *patch.Location
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.IsPublic != nil {
		fields["isPublic"] = *patch.IsPublic
	}
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}
	doc, err := r.store.UpdateDocument(ctx, docstore.CollectionEvents, id, fields)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return eventFromDocument(doc), nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.DeleteDocument(ctx, docstore.CollectionEvents, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func eventFromDocument(doc *docstore.Document) *domain.Event {
	return &domain.Event{
		ID:          doc.ID,
		Title:       doc.String("title"),
		Date:        doc.String("date"),
		Time:        doc.String("time"),
		Location:    doc.String("location"),
		Description: doc.String("description"),
		IsPublic:    doc.Bool("isPublic"),
		HostID:      doc.String("hostId"),
		HostName:    doc.String("hostName"),
		ShareCode:   doc.String("shareCode"),
		CreatedAt:   doc.CreatedAt,
	}
}

func eventsFromDocuments(docs []*docstore.Document) []*domain.Event {
	events := make([]*domain.Event, 0, len(docs))
	for _, doc := range docs {
		events = append(events, eventFromDocument(doc))
	}
	return events
}
