package posts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/blog-generator/infrastructure/logger"
	"github.com/jonesrussell/blog-generator/internal/domain"
	"github.com/jonesrussell/blog-generator/internal/metrics"
	"github.com/jonesrussell/blog-generator/internal/posts"
	"github.com/jonesrussell/blog-generator/internal/storage"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context, collection string, fields map[string]any) (storage.Ref, error) {
	args := m.Called(ctx, collection, fields)
	return args.Get(0).(storage.Ref), args.Error(1)
}

func (m *mockStore) List(ctx context.Context, collection string, filter storage.Filter, limit int) ([]storage.Document, error) {
	args := m.Called(ctx, collection, filter, limit)
	docs, _ := args.Get(0).([]storage.Document)
	return docs, args.Error(1)
}

func (m *mockStore) Get(ctx context.Context, collection, id string) (storage.Document, error) {
	args := m.Called(ctx, collection, id)
	doc, _ := args.Get(0).(storage.Document)
	return doc, args.Error(1)
}

func (m *mockStore) Ping(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *mockStore) Collections(ctx context.Context, limit int) ([]string, error) {
	args := m.Called(ctx, limit)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *mockStore) DatabaseName() string { return "mock" }

func (m *mockStore) Close() error { return nil }

func TestGenerate_StoresPost(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore("test")
	m := metrics.New()
	svc := posts.NewService(store, nil, m, logger.NewNop())

	got, err := svc.Generate(context.Background(), domain.GenerationRequest{
		Topic:    "  Remote Work ",
		Tone:     "Friendly",
		Keywords: []string{"async", " ", "focus"},
		Length:   "short",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, "Getting Started with Remote Work", got.Post.Title)
	assert.Equal(t, "Remote Work", got.Post.Topic)
	assert.Equal(t, []string{"async", "focus"}, got.Post.Keywords)
	assert.Len(t, got.Post.Outline, 4)
	assert.Equal(t, domain.StatusGenerated, got.Post.Status)

	stored, err := store.Get(context.Background(), posts.Collection, got.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Post.Content, stored["content"])
	assert.Equal(t, got.CreatedAt, stored[storage.FieldCreatedAt])

	assert.InDelta(t, 1, testutil.ToFloat64(m.PostsGenerated.WithLabelValues("Friendly", "short")), 0)
}

func TestGenerate_EmptyTopic(t *testing.T) {
	t.Parallel()

	store := new(mockStore)
	svc := posts.NewService(store, nil, nil, logger.NewNop())

	for _, topic := range []string{"", "   ", "\t\n"} {
		_, err := svc.Generate(context.Background(), domain.GenerationRequest{Topic: topic})
		require.ErrorIs(t, err, posts.ErrEmptyTopic)
	}

	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerate_StoreUnavailable(t *testing.T) {
	t.Parallel()

	store := new(mockStore)
	store.On("Create", mock.Anything, posts.Collection, mock.Anything).
		Return(storage.Ref{}, &storage.UnavailableError{Op: "create document", Err: errors.New("timeout")})

	m := metrics.New()
	svc := posts.NewService(store, nil, m, logger.NewNop())

	_, err := svc.Generate(context.Background(), domain.GenerationRequest{Topic: "Go"})

	require.ErrorIs(t, err, storage.ErrStoreUnavailable)
	assert.InDelta(t, 1, testutil.ToFloat64(m.StoreErrors.WithLabelValues("create")), 0)
	store.AssertExpectations(t)
}

func TestList_NewestFirstWithinLimit(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	store := storage.NewMemoryStore("test")
	for i, title := range []string{"oldest", "middle", "newest"} {
		store.Insert(posts.Collection, storage.Document{
			storage.FieldID:        title,
			"title":                title,
			storage.FieldCreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	svc := posts.NewService(store, nil, nil, logger.NewNop())

	docs, err := svc.List(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "newest", docs[0]["title"])
	assert.Equal(t, "middle", docs[1]["title"])
}

func TestList_UnsortableFallsBackToStoreOrder(t *testing.T) {
	t.Parallel()

	docs := []storage.Document{
		{storage.FieldID: "a", storage.FieldCreatedAt: 42},
		{storage.FieldID: "b", storage.FieldCreatedAt: time.Now()},
	}

	store := new(mockStore)
	store.On("List", mock.Anything, posts.Collection, storage.Filter{}, 10).Return(docs, nil)

	m := metrics.New()
	svc := posts.NewService(store, nil, m, logger.NewNop())

	got, err := svc.List(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, "a", got[0][storage.FieldID])
	assert.Equal(t, "b", got[1][storage.FieldID])
	assert.InDelta(t, 1, testutil.ToFloat64(m.SortFallbacks), 0)
}

func TestList_StoreUnavailable(t *testing.T) {
	t.Parallel()

	svc := posts.NewService(storage.NewUnavailable("x", errors.New("down")), nil, nil, logger.NewNop())

	_, err := svc.List(context.Background(), 10)

	require.ErrorIs(t, err, storage.ErrStoreUnavailable)
}

func TestGetAndRenderHTML(t *testing.T) {
	t.Parallel()

	svc := posts.NewService(storage.NewMemoryStore("test"), nil, nil, logger.NewNop())
	ctx := context.Background()

	created, err := svc.Generate(ctx, domain.GenerationRequest{Topic: "Go", Length: "short"})
	require.NoError(t, err)

	doc, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A Practical Guide to Go", doc["title"])

	page, err := svc.RenderHTML(ctx, created.ID)
	require.NoError(t, err)
	assert.Contains(t, page, "<title>A Practical Guide to Go</title>")
	assert.Contains(t, page, "<h2>Why Go Matters</h2>")

	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = svc.RenderHTML(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)
}
