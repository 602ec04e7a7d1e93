// Package memory implements docstore.Store in process memory. It backs
// tests and local development; nothing is persisted.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"iftargather/internal/docstore"
)

type memoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]*docstore.Document
}

// New returns an empty in-memory document store.
func New() docstore.Store {
	return &memoryStore{collections: make(map[string]map[string]*docstore.Document)}
}

func (s *memoryStore) CreateDocument(ctx context.Context, collection, id string, data map[string]any) (*docstore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collections[collection]
	if col == nil {
		col = make(map[string]*docstore.Document)
		s.collections[collection] = col
	}
	if id == "" || id == docstore.AutoID {
		id = uuid.NewString()
	}
	doc := &docstore.Document{
		ID:        id,
		Data:      maps.Clone(data),
		CreatedAt: time.Now(),
	}
	col[id] = doc
	return clone(doc), nil
}

func (s *memoryStore) GetDocument(ctx context.Context, collection, id string) (*docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return clone(doc), nil
}

func (s *memoryStore) ListDocuments(ctx context.Context, collection string, filters ...docstore.Filter) ([]*docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]*docstore.Document, 0)
	for _, doc := range s.collections[collection] {
		if matches(doc, filters) {
			docs = append(docs, clone(doc))
		}
	}
	return docs, nil
}

func (s *memoryStore) UpdateDocument(ctx context.Context, collection, id string, patch map[string]any) (*docstore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	for k, v := range patch {
		doc.Data[k] = v
	}
	return clone(doc), nil
}

func (s *memoryStore) DeleteDocument(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collections[collection]
	if _, ok := col[id]; !ok {
		return docstore.ErrNotFound
	}
	delete(col, id)
	return nil
}

func matches(doc *docstore.Document, filters []docstore.Filter) bool {
	for _, f := range filters {
		if doc.Data[f.Field] != f.Value {
			return false
		}
	}
	return true
}

func clone(doc *docstore.Document) *docstore.Document {
	return &docstore.Document{
		ID:        doc.ID,
		Data:      maps.Clone(doc.Data),
		CreatedAt: doc.CreatedAt,
	}
}
