package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"iftargather/internal/docstore"
)

func TestMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	doc, err := s.CreateDocument(ctx, docstore.CollectionEvents, docstore.AutoID, map[string]any{
		"title":    "Family Iftar",
		"isPublic": false,
	})
	require.NoError(t, err)
	require.NotEmpty(t, doc.ID)

	got, err := s.GetDocument(ctx, docstore.CollectionEvents, doc.ID)
	require.NoError(t, err)
	require.Equal(t, "Family Iftar", got.String("title"))
	require.False(t, got.Bool("isPublic"))

	updated, err := s.UpdateDocument(ctx, docstore.CollectionEvents, doc.ID, map[string]any{"isPublic": true})
	require.NoError(t, err)
	require.True(t, updated.Bool("isPublic"))

	require.NoError(t, s.DeleteDocument(ctx, docstore.CollectionEvents, doc.ID))
	_, err = s.GetDocument(ctx, docstore.CollectionEvents, doc.ID)
	require.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestMemoryStore_ListFilters(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.CreateDocument(ctx, docstore.CollectionAttendees, docstore.AutoID, map[string]any{
		"eventId": "ev-1", "userId": "u-1", "status": "confirmed",
	})
	require.NoError(t, err)
	_, err = s.CreateDocument(ctx, docstore.CollectionAttendees, docstore.AutoID, map[string]any{
		"eventId": "ev-1", "userId": "u-2", "status": "pending",
	})
	require.NoError(t, err)
	_, err = s.CreateDocument(ctx, docstore.CollectionAttendees, docstore.AutoID, map[string]any{
		"eventId": "ev-2", "userId": "u-1", "status": "confirmed",
	})
	require.NoError(t, err)

	docs, err := s.ListDocuments(ctx, docstore.CollectionAttendees, docstore.Equal("eventId", "ev-1"))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	docs, err = s.ListDocuments(ctx, docstore.CollectionAttendees,
		docstore.Equal("userId", "u-1"), docstore.Equal("status", "confirmed"))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	docs, err = s.ListDocuments(ctx, docstore.CollectionAttendees, docstore.Equal("userId", "nobody"))
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestMemoryStore_DocumentsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := New()

	doc, err := s.CreateDocument(ctx, docstore.CollectionUsers, docstore.AutoID, map[string]any{"name": "Amina"})
	require.NoError(t, err)

	// Mutating a returned document must not leak into the store.
	doc.Data["name"] = "changed"
	got, err := s.GetDocument(ctx, docstore.CollectionUsers, doc.ID)
	require.NoError(t, err)
	require.Equal(t, "Amina", got.String("name"))
}
