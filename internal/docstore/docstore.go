// Package docstore defines the document-database contract the repositories
// are written against: named collections of schemaless documents with
// create/read/update/delete and filtered, unpaginated listing.
package docstore

import (
	"context"
	"errors"
	"time"
)

// Collection names used by the application.
const (
	CollectionUsers       = "users"
	CollectionEvents      = "events"
	CollectionAttendees   = "attendees"
	CollectionInvitations = "invitations"
)

// AutoID requests a server-assigned document ID on create.
const AutoID = "unique()"

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Document is one stored record. ID is an opaque store-assigned string.
type Document struct {
	ID        string
	Data      map[string]any
	CreatedAt time.Time
}

// String returns the string value of a data field, or "" when absent or
// not a string.
func (d *Document) String(field string) string {
	s, _ := d.Data[field].(string)
	return s
}

// Bool returns the bool value of a data field, or false when absent or
// not a bool.
func (d *Document) Bool(field string) bool {
	b, _ := d.Data[field].(bool)
	return b
}

// Op is a filter comparison operator. Only equality is used by this
// application; the list contract is deliberately minimal.
type Op string

const OpEqual Op = "equal"

// Filter restricts a list call to documents whose field matches value.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Equal returns an equality filter.
func Equal(field string, value any) Filter {
	return Filter{Field: field, Op: OpEqual, Value: value}
}

// Store is the remote document store. Listing is unpaginated: all matches
// are returned in one page, bounded only by backend defaults.
type Store interface {
	CreateDocument(ctx context.Context, collection, id string, data map[string]any) (*Document, error)
	GetDocument(ctx context.Context, collection, id string) (*Document, error)
	ListDocuments(ctx context.Context, collection string, filters ...Filter) ([]*Document, error)
	UpdateDocument(ctx context.Context, collection, id string, patch map[string]any) (*Document, error)
	DeleteDocument(ctx context.Context, collection, id string) error
}
