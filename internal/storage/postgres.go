package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"
)

const (
	insertDocumentQuery = `INSERT INTO documents (id, collection, body, created_at, updated_at)
VALUES ($1, $2, $3::jsonb, $4, $5)`

	listDocumentsQuery = `SELECT id, body, created_at, updated_at FROM documents
WHERE collection = $1 AND body @> $2::jsonb
ORDER BY created_at DESC
LIMIT $3`

	getDocumentQuery = `SELECT id, body, created_at, updated_at FROM documents
WHERE collection = $1 AND id = $2`

	listCollectionsQuery = `SELECT DISTINCT collection FROM documents ORDER BY collection LIMIT $1`
)

// PostgresStore keeps documents as JSONB rows of a single documents table.
type PostgresStore struct {
	db      *sqlx.DB
	name    string
	timeout time.Duration
}

type documentRow struct {
	ID        string    `db:"id"`
	Body      []byte    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sqlx.DB, name string, timeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, name: name, timeout: timeout}
}

// OpenPostgres opens a connection pool for dsn and pings it.
func OpenPostgres(ctx context.Context, dsn, name string, cfg Config) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	store := NewPostgresStore(db, name, cfg.Timeout)
	if pingErr := store.Ping(ctx); pingErr != nil {
		_ = db.Close()
		return nil, pingErr
	}

	return store, nil
}

// Create inserts fields as a new JSONB document.
func (s *PostgresStore) Create(ctx context.Context, collection string, fields map[string]any) (Ref, error) {
	body, err := json.Marshal(bodyFields(fields))
	if err != nil {
		return Ref{}, fmt.Errorf("marshal document: %w", err)
	}

	ref := Ref{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx, insertDocumentQuery,
		ref.ID, collection, string(body), ref.CreatedAt, ref.CreatedAt)
	if err != nil {
		return Ref{}, unavailable("create document", err)
	}

	return ref, nil
}

// List returns the newest documents of collection containing filter.
func (s *PostgresStore) List(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error) {
	if filter == nil {
		filter = Filter{}
	}
	filterJSON, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("marshal filter: %w", err)
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var rows []documentRow
	if err = s.db.SelectContext(ctx, &rows, listDocumentsQuery, collection, string(filterJSON), limit); err != nil {
		return nil, unavailable("list documents", err)
	}

	docs := make([]Document, 0, len(rows))
	for i := range rows {
		doc, decodeErr := rows[i].document()
		if decodeErr != nil {
			return nil, decodeErr
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// Get returns the document with id, or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var row documentRow
	if err := s.db.GetContext(ctx, &row, getDocumentQuery, collection, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, unavailable("get document", err)
	}

	return row.document()
}

// Ping verifies the connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Collections lists the distinct collection names in use.
func (s *PostgresStore) Collections(ctx context.Context, limit int) ([]string, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	names := make([]string, 0, limit)
	if err := s.db.SelectContext(ctx, &names, listCollectionsQuery, limit); err != nil {
		return nil, unavailable("list collections", err)
	}
	return names, nil
}

// DatabaseName returns the configured database name.
func (s *PostgresStore) DatabaseName() string { return s.name }

// Close closes the connection pool.
func (s *PostgresStore) Close() error { return s.db.Close() }

func (r *documentRow) document() (Document, error) {
	doc := make(Document)
	if err := json.Unmarshal(r.Body, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", r.ID, err)
	}

	doc[FieldID] = r.ID
	doc[FieldCreatedAt] = r.CreatedAt.UTC()
	doc[FieldUpdatedAt] = r.UpdatedAt.UTC()

	return doc, nil
}
