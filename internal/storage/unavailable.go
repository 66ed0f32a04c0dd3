package storage

import "context"

// UnavailableStore stands in when no backend could be opened. Every
// operation fails with an error matching ErrStoreUnavailable.
type UnavailableStore struct {
	name   string
	reason error
}

// NewUnavailable returns a store that reports reason on every call.
func NewUnavailable(name string, reason error) *UnavailableStore {
	return &UnavailableStore{name: name, reason: reason}
}

func (s *UnavailableStore) Create(context.Context, string, map[string]any) (Ref, error) {
	return Ref{}, unavailable("create document", s.reason)
}

func (s *UnavailableStore) List(context.Context, string, Filter, int) ([]Document, error) {
	return nil, unavailable("list documents", s.reason)
}

func (s *UnavailableStore) Get(context.Context, string, string) (Document, error) {
	return nil, unavailable("get document", s.reason)
}

func (s *UnavailableStore) Ping(context.Context) error {
	return unavailable("ping", s.reason)
}

func (s *UnavailableStore) Collections(context.Context, int) ([]string, error) {
	return nil, unavailable("list collections", s.reason)
}

func (s *UnavailableStore) DatabaseName() string { return s.name }

func (s *UnavailableStore) Close() error { return nil }
