// Package storage is the document store gateway. A Store persists schemaless
// documents in named collections on PostgreSQL or MongoDB.
package storage

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"
)

// Reserved document fields affixed by every backend.
const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// DefaultTimeout bounds a single store operation when none is configured.
const DefaultTimeout = 5 * time.Second

var (
	// ErrStoreUnavailable is matched by every error caused by an unreachable
	// or misconfigured backend.
	ErrStoreUnavailable = errors.New("document store unavailable")
	// ErrNotFound is returned by Get when no document has the given id.
	ErrNotFound = errors.New("document not found")
	// ErrNotConfigured is returned by Open when no database URL is set.
	ErrNotConfigured = errors.New("database url is not configured")
)

// UnavailableError wraps a backend failure. errors.Is(err, ErrStoreUnavailable)
// holds for every UnavailableError.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, ErrStoreUnavailable)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrStoreUnavailable, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Is reports whether target is ErrStoreUnavailable.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

func unavailable(op string, err error) error {
	return &UnavailableError{Op: op, Err: err}
}

// Document is a stored record. Documents returned by a Store always carry a
// string "id" and time.Time "created_at" and "updated_at" fields.
type Document map[string]any

// Filter selects documents whose fields equal every given value.
// An empty filter matches all documents.
type Filter map[string]any

// Ref identifies a newly created document.
type Ref struct {
	ID        string
	CreatedAt time.Time
}

// Store is implemented by every backend.
type Store interface {
	// Create stores a copy of fields and returns the assigned id.
	Create(ctx context.Context, collection string, fields map[string]any) (Ref, error)
	// List returns at most limit matching documents, newest first.
	List(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Ping(ctx context.Context) error
	// Collections returns up to limit collection names.
	Collections(ctx context.Context, limit int) ([]string, error)
	DatabaseName() string
	Close() error
}

// bodyFields returns a copy of fields without the reserved keys.
func bodyFields(fields map[string]any) map[string]any {
	body := maps.Clone(fields)
	if body == nil {
		body = make(map[string]any)
	}
	delete(body, FieldID)
	delete(body, FieldCreatedAt)
	delete(body, FieldUpdatedAt)
	return body
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
