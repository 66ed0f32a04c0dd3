package storage

import (
	"context"
	"maps"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in process memory. It backs memory:// URLs
// and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	name        string
	collections map[string][]Document
	now         func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(name string) *MemoryStore {
	return &MemoryStore{
		name:        name,
		collections: make(map[string][]Document),
		now:         time.Now,
	}
}

// WithClock makes the store stamp documents with now. Used by tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

// Insert stores doc as-is, bypassing id and timestamp assignment.
func (s *MemoryStore) Insert(collection string, doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], maps.Clone(doc))
}

// Create stores a copy of fields.
func (s *MemoryStore) Create(ctx context.Context, collection string, fields map[string]any) (Ref, error) {
	if err := ctx.Err(); err != nil {
		return Ref{}, unavailable("create document", err)
	}

	ref := Ref{ID: uuid.NewString(), CreatedAt: s.now().UTC()}

	doc := Document(bodyFields(fields))
	doc[FieldID] = ref.ID
	doc[FieldCreatedAt] = ref.CreatedAt
	doc[FieldUpdatedAt] = ref.CreatedAt

	s.mu.Lock()
	s.collections[collection] = append(s.collections[collection], doc)
	s.mu.Unlock()

	return ref, nil
}

// List returns the last limit inserted matching documents, most recent insert first.
func (s *MemoryStore) List(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("list documents", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.collections[collection]
	out := make([]Document, 0, min(limit, len(stored)))
	for i := len(stored) - 1; i >= 0 && len(out) < limit; i-- {
		if matches(stored[i], filter) {
			out = append(out, maps.Clone(stored[i]))
		}
	}
	return out, nil
}

// Get returns the document with id.
func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("get document", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.collections[collection] {
		if doc[FieldID] == id {
			return maps.Clone(doc), nil
		}
	}
	return nil, ErrNotFound
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Collections returns up to limit collection names in sorted order.
func (s *MemoryStore) Collections(_ context.Context, limit int) ([]string, error) {
	s.mu.RLock()
	names := slices.Sorted(maps.Keys(s.collections))
	s.mu.RUnlock()

	if len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}

// DatabaseName returns the store name.
func (s *MemoryStore) DatabaseName() string { return s.name }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

func matches(doc Document, filter Filter) bool {
	for k, v := range filter {
		if !reflect.DeepEqual(doc[k], v) {
			return false
		}
	}
	return true
}
