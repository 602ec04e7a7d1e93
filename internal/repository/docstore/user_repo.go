package docstorerepo

import (
	"context"
	"errors"

	"iftargather/internal/docstore"
	"iftargather/internal/domain"
)

type userRepository struct {
	store docstore.Store
}

// NewUserRepository returns a UserRepository over the given store.
func NewUserRepository(store docstore.Store) domain.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	doc, err := r.store.CreateDocument(ctx, docstore.CollectionUsers, docstore.AutoID, map[string]any{
		"email":        user.Email,
		"name":         user.Name,
		"passwordHash": user.PasswordHash,
	})
	if err != nil {
		return err
	}
	user.ID = doc.ID
	user.CreatedAt = doc.CreatedAt
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	doc, err := r.store.GetDocument(ctx, docstore.CollectionUsers, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return userFromDocument(doc), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	docs, err := r.store.ListDocuments(ctx, docstore.CollectionUsers, docstore.Equal("email", email))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return userFromDocument(docs[0]), nil
}

func userFromDocument(doc *docstore.Document) *domain.User {
	return &domain.User{
		ID:           doc.ID,
		Email:        doc.String("email"),
		Name:         doc.String("name"),
		PasswordHash: doc.String("passwordHash"),
		CreatedAt:    doc.CreatedAt,
	}
}
