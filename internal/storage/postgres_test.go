package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jonesrussell/blog-generator/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*storage.PostgresStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return storage.NewPostgresStore(sqlx.NewDb(db, "postgres"), "blog", time.Second), mock
}

func TestPostgresStore_Create(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WithArgs(sqlmock.AnyArg(), "blogpost", `{"title":"Hello"}`, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	fields := map[string]any{"title": "Hello", "id": "caller-id", "created_at": "yesterday"}

	ref, err := store.Create(context.Background(), "blogpost", fields)

	require.NoError(t, err)
	assert.Len(t, ref.ID, 36)
	assert.Equal(t, time.UTC, ref.CreatedAt.Location())
	assert.Equal(t, map[string]any{"title": "Hello", "id": "caller-id", "created_at": "yesterday"}, fields)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateFailureIsUnavailable(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WillReturnError(sql.ErrConnDone)

	_, err := store.Create(context.Background(), "blogpost", map[string]any{"title": "x"})

	require.ErrorIs(t, err, storage.ErrStoreUnavailable)
	require.ErrorIs(t, err, sql.ErrConnDone)

	var unavailableErr *storage.UnavailableError
	require.ErrorAs(t, err, &unavailableErr)
	assert.Equal(t, "create document", unavailableErr.Op)
}

func TestPostgresStore_List(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	newer := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	older := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "body", "created_at", "updated_at"}).
		AddRow("11111111-1111-1111-1111-111111111111", []byte(`{"title":"B","outline":["Introduction"]}`), newer, newer).
		AddRow("22222222-2222-2222-2222-222222222222", []byte(`{"title":"A"}`), older, older)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, body, created_at, updated_at FROM documents")).
		WithArgs("blogpost", "{}", 2).
		WillReturnRows(rows)

	docs, err := store.List(context.Background(), "blogpost", nil, 2)

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", docs[0][storage.FieldID])
	assert.Equal(t, "B", docs[0]["title"])
	assert.Equal(t, []any{"Introduction"}, docs[0]["outline"])
	assert.Equal(t, newer, docs[0][storage.FieldCreatedAt])
	assert.Equal(t, older, docs[1][storage.FieldCreatedAt])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListFilterIsContainment(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("body @> $2::jsonb")).
		WithArgs("blogpost", `{"tone":"Friendly"}`, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "body", "created_at", "updated_at"}))

	docs, err := store.List(context.Background(), "blogpost", storage.Filter{"tone": "Friendly"}, 10)

	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get(t *testing.T) {
	t.Parallel()

	const id = "11111111-1111-1111-1111-111111111111"
	created := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		id        string
		setupMock func(sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "found",
			id:   id,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("WHERE collection = $1 AND id = $2")).
					WithArgs("blogpost", id).
					WillReturnRows(sqlmock.NewRows([]string{"id", "body", "created_at", "updated_at"}).
						AddRow(id, []byte(`{"title":"T"}`), created, created))
			},
		},
		{
			name: "no rows",
			id:   id,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("WHERE collection = $1 AND id = $2")).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: storage.ErrNotFound,
		},
		{
			name:      "malformed id never queries",
			id:        "not-a-uuid",
			setupMock: func(sqlmock.Sqlmock) {},
			wantErr:   storage.ErrNotFound,
		},
		{
			name: "driver failure",
			id:   id,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("WHERE collection = $1 AND id = $2")).
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: storage.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store, mock := newMockStore(t)
			tt.setupMock(mock)

			doc, err := store.Get(context.Background(), "blogpost", tt.id)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.id, doc[storage.FieldID])
				assert.Equal(t, "T", doc["title"])
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_PingAndCollections(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectPing()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT collection FROM documents")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"collection"}).AddRow("blogpost"))
	mock.ExpectPing().WillReturnError(sql.ErrConnDone)

	require.NoError(t, store.Ping(context.Background()))

	names, err := store.Collections(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"blogpost"}, names)

	require.ErrorIs(t, store.Ping(context.Background()), storage.ErrStoreUnavailable)
	assert.Equal(t, "blog", store.DatabaseName())
	assert.NoError(t, mock.ExpectationsWereMet())
}
