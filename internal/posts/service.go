// Package posts generates, stores and lists blog posts.
package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/blog-generator/infrastructure/logger"
	"github.com/jonesrussell/blog-generator/internal/domain"
	"github.com/jonesrussell/blog-generator/internal/events"
	"github.com/jonesrussell/blog-generator/internal/generator"
	"github.com/jonesrussell/blog-generator/internal/metrics"
	"github.com/jonesrussell/blog-generator/internal/render"
	"github.com/jonesrussell/blog-generator/internal/storage"
)

// Collection is the store collection holding posts.
const Collection = "blogpost"

// ErrEmptyTopic is returned when the topic is blank after trimming.
var ErrEmptyTopic = errors.New("topic cannot be empty")

// Store operation labels.
const (
	opCreate = "create"
	opList   = "list"
	opGet    = "get"
)

// Generated is a stored post with its id and creation time.
type Generated struct {
	ID        string
	CreatedAt time.Time
	Post      domain.BlogPost
}

// Service coordinates synthesis, persistence, events and metrics.
type Service struct {
	store     storage.Store
	publisher *events.Publisher
	metrics   *metrics.Metrics
	renderer  *render.Renderer
	log       logger.Logger
}

// NewService creates a Service. publisher and m may be nil.
func NewService(
	store storage.Store,
	publisher *events.Publisher,
	m *metrics.Metrics,
	log logger.Logger,
) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		metrics:   m,
		renderer:  render.New(),
		log:       log,
	}
}

// Generate synthesizes a post for req and stores it.
func (s *Service) Generate(ctx context.Context, req domain.GenerationRequest) (Generated, error) {
	start := time.Now()

	req = req.Normalize()
	if req.Topic == "" {
		return Generated{}, ErrEmptyTopic
	}

	post := domain.NewBlogPost(req, generator.Generate(req.SynthesisInput()))

	ref, err := s.store.Create(ctx, Collection, post.Fields())
	if err != nil {
		s.metrics.RecordStoreError(opCreate)
		return Generated{}, fmt.Errorf("store post: %w", err)
	}

	s.metrics.RecordGeneration(post.Tone, post.Length, time.Since(start))
	s.publisher.PublishAsync(events.PostEvent{
		EventType: events.PostGenerated,
		PostID:    ref.ID,
		Title:     post.Title,
		Topic:     post.Topic,
		Tone:      post.Tone,
		Length:    post.Length,
		Timestamp: ref.CreatedAt,
	})

	logger.FromContextOr(ctx, s.log).Info("Post generated",
		logger.String("post_id", ref.ID),
		logger.String("topic", post.Topic),
		logger.String("tone", post.Tone),
		logger.String("length", post.Length),
	)

	return Generated{ID: ref.ID, CreatedAt: ref.CreatedAt, Post: post}, nil
}

// List returns at most limit posts, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]storage.Document, error) {
	docs, err := s.store.List(ctx, Collection, storage.Filter{}, limit)
	if err != nil {
		s.metrics.RecordStoreError(opList)
		return nil, fmt.Errorf("list posts: %w", err)
	}

	if sortErr := SortNewestFirst(docs); sortErr != nil {
		s.metrics.RecordSortFallback()
		logger.FromContextOr(ctx, s.log).Warn("Returning posts in store order",
			logger.Int("count", len(docs)),
			logger.Error(sortErr),
		)
	}

	return docs, nil
}

// Get returns the post with id.
func (s *Service) Get(ctx context.Context, id string) (storage.Document, error) {
	doc, err := s.store.Get(ctx, Collection, id)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.metrics.RecordStoreError(opGet)
		}
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	return doc, nil
}

// RenderHTML returns the post with id as an HTML page.
func (s *Service) RenderHTML(ctx context.Context, id string) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	title, _ := doc["title"].(string)
	content, _ := doc["content"].(string)

	page, err := s.renderer.Page(title, content)
	if err != nil {
		return "", fmt.Errorf("render post %s: %w", id, err)
	}
	return page, nil
}
