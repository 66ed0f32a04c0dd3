package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config selects and configures a backend.
type Config struct {
	// URL scheme picks the backend: postgres, postgresql, mongodb,
	// mongodb+srv or memory.
	URL string
	// Name overrides the database name in URL.
	Name         string
	Timeout      time.Duration
	MaxOpenConns int
	MaxIdleConns int
}

// Open connects to the backend named by cfg.URL and verifies it with a ping.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, ErrNotConfigured
	}

	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = strings.TrimPrefix(u.Path, "/")
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		if cfg.Name != "" {
			u.Path = "/" + cfg.Name
		}
		store, openErr := OpenPostgres(ctx, u.String(), name, cfg)
		if openErr != nil {
			return nil, openErr
		}
		return store, nil
	case "mongodb", "mongodb+srv":
		if name == "" {
			name = defaultMongoDatabase
		}
		store, openErr := OpenMongo(ctx, cfg.URL, name, cfg.Timeout)
		if openErr != nil {
			return nil, openErr
		}
		return store, nil
	case "memory":
		return NewMemoryStore(name), nil
	default:
		return nil, fmt.Errorf("unsupported database url scheme %q", u.Scheme)
	}
}
