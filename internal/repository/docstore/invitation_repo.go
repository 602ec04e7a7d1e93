package docstorerepo

import (
	"context"
	"errors"

	"iftargather/internal/docstore"
	"iftargather/internal/domain"
)

type invitationRepository struct {
	store docstore.Store
}

// NewInvitationRepository returns an InvitationRepository over the given store.
func NewInvitationRepository(store docstore.Store) domain.InvitationRepository {
	return &invitationRepository{store: store}
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	doc, err := r.store.CreateDocument(ctx, docstore.CollectionInvitations, docstore.AutoID, map[string]any{
		"eventId":      inv.EventID,
		"inviterId":    inv.InviterID,
		"inviteeId":    inv.InviteeID,
		"inviteeEmail": inv.InviteeEmail,
		"status":       string(inv.Status),
	})
	if err != nil {
		return err
	}
	inv.ID = doc.ID
	inv.CreatedAt = doc.CreatedAt
	return nil
}

func (r *invitationRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	doc, err := r.store.GetDocument(ctx, docstore.CollectionInvitations, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return invitationFromDocument(doc), nil
}

func (r *invitationRepository) ListByInviteeID(ctx context.Context, inviteeID string) ([]*domain.Invitation, error) {
	docs, err := r.store.ListDocuments(ctx, docstore.CollectionInvitations, docstore.Equal("inviteeId", inviteeID))
	if err != nil {
		return nil, err
	}
	invitations := make([]*domain.Invitation, 0, len(docs))
	for _, doc := range docs {
		invitations = append(invitations, invitationFromDocument(doc))
	}
	return invitations, nil
}

func (r *invitationRepository) UpdateStatus(ctx context.Context, id string, status domain.InvitationStatus) (*domain.Invitation, error) {
	doc, err := r.store.UpdateDocument(ctx, docstore.CollectionInvitations, id, map[string]any{
		"status": string(status),
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return invitationFromDocument(doc), nil
}

func (r *invitationRepository) DeleteByEventID(ctx context.Context, eventID string) (int, error) {
	docs, err := r.store.ListDocuments(ctx, docstore.CollectionInvitations, docstore.Equal("eventId", eventID))
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, doc := range docs {
		if err := r.store.DeleteDocument(ctx, docstore.CollectionInvitations, doc.ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func invitationFromDocument(doc *docstore.Document) *domain.Invitation {
	return &domain.Invitation{
		ID:           doc.ID,
		EventID:      doc.String("eventId"),
		InviterID:    doc.String("inviterId"),
		InviteeID:    doc.String("inviteeId"),
		InviteeEmail: doc.String("inviteeEmail"),
		Status:       domain.InvitationStatus(doc.String("status")),
		CreatedAt:    doc.CreatedAt,
	}
}
