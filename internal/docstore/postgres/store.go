// Package postgres implements docstore.Store over a single jsonb documents
// table, for deployments that self-host instead of using a hosted document
// database. Schema:
//
//	CREATE TABLE documents (
//	    id            text PRIMARY KEY,
//	    collection_id text NOT NULL,
//	    data          jsonb NOT NULL,
//	    created_at    timestamptz NOT NULL DEFAULT now()
//	);
//	CREATE INDEX documents_collection_idx ON documents (collection_id);
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"iftargather/internal/docstore"
)

type documentStore struct {
	DB *sql.DB
}

// New returns a docstore.Store backed by the given database handle.
func New(db *sql.DB) docstore.Store {
	return &documentStore{DB: db}
}

func (s *documentStore) CreateDocument(ctx context.Context, collection, id string, data map[string]any) (*docstore.Document, error) {
	if id == "" || id == docstore.AutoID {
		id = uuid.NewString()
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	query := `
		INSERT INTO documents (id, collection_id, data)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	doc := &docstore.Document{ID: id, Data: data}
	if err := s.DB.QueryRowContext(ctx, query, id, collection, payload).Scan(&doc.CreatedAt); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentStore) GetDocument(ctx context.Context, collection, id string) (*docstore.Document, error) {
	query := `
		SELECT id, data, created_at
		FROM documents
		WHERE collection_id = $1 AND id = $2
	`
	return scanDocument(s.DB.QueryRowContext(ctx, query, collection, id))
}

func (s *documentStore) ListDocuments(ctx context.Context, collection string, filters ...docstore.Filter) ([]*docstore.Document, error) {
	query := `
		SELECT id, data, created_at
		FROM documents
		WHERE collection_id = $1
	`
	args := []any{collection}
	for _, f := range filters {
		args = append(args, f.Field, filterArg(f.Value))
		query += fmt.Sprintf(" AND data->>$%d = $%d", len(args)-1, len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]*docstore.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *documentStore) UpdateDocument(ctx context.Context, collection, id string, patch map[string]any) (*docstore.Document, error) {
	payload, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}
	query := `
		UPDATE documents
		SET data = data || $3::jsonb
		WHERE collection_id = $1 AND id = $2
		RETURNING id, data, created_at
	`
	return scanDocument(s.DB.QueryRowContext(ctx, query, collection, id, payload))
}

func (s *documentStore) DeleteDocument(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection_id = $1 AND id = $2`
	result, err := s.DB.ExecContext(ctx, query, collection, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*docstore.Document, error) {
	doc := &docstore.Document{}
	var raw []byte
	if err := row.Scan(&doc.ID, &raw, &doc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &doc.Data); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// filterArg renders a filter value the way jsonb ->> renders it as text.
func filterArg(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
