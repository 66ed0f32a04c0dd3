package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	infralogger "github.com/jonesrussell/blog-generator/infrastructure/logger"
	"github.com/jonesrussell/blog-generator/internal/domain"
	"github.com/jonesrussell/blog-generator/internal/posts"
	"github.com/jonesrussell/blog-generator/internal/storage"
)

// Error messages returned to clients.
const (
	msgEmptyTopic       = "Topic cannot be empty"
	msgInvalidBody      = "Invalid request body"
	msgInvalidLimit     = "limit must be a positive integer"
	msgNotFound         = "Post not found"
	msgStoreUnavailable = "Document store unavailable"
	msgInternal         = "Internal server error"
)

// PostService is the post operations the handlers need.
type PostService interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (posts.Generated, error)
	List(ctx context.Context, limit int) ([]storage.Document, error)
	Get(ctx context.Context, id string) (storage.Document, error)
	RenderHTML(ctx context.Context, id string) (string, error)
}

// GenerateResponse is the body returned by POST /api/generate.
type GenerateResponse struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Outline   []string `json:"outline"`
	Content   string   `json:"content"`
	Topic     string   `json:"topic"`
	Tone      string   `json:"tone"`
	Keywords  []string `json:"keywords"`
	Length    string   `json:"length"`
	Audience  *string  `json:"audience"`
	CreatedAt string   `json:"created_at"`
}

// PostHandler serves the post endpoints.
type PostHandler struct {
	service      PostService
	logger       infralogger.Logger
	defaultLimit int
	maxLimit     int
}

// NewPostHandler creates a PostHandler. Listing limits above maxLimit are capped.
func NewPostHandler(service PostService, log infralogger.Logger, defaultLimit, maxLimit int) *PostHandler {
	return &PostHandler{
		service:      service,
		logger:       log,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Generate handles POST /api/generate.
func (h *PostHandler) Generate(c *gin.Context) {
	var req domain.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	generated, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	post := generated.Post
	c.JSON(http.StatusCreated, GenerateResponse{
		ID:        generated.ID,
		Title:     post.Title,
		Outline:   post.Outline,
		Content:   post.Content,
		Topic:     post.Topic,
		Tone:      post.Tone,
		Keywords:  post.Keywords,
		Length:    post.Length,
		Audience:  post.Audience,
		CreatedAt: generated.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
}

// List handles GET /api/posts.
func (h *PostHandler) List(c *gin.Context) {
	limit, ok := h.parseLimit(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidLimit})
		return
	}

	docs, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if docs == nil {
		docs = []storage.Document{}
	}

	c.JSON(http.StatusOK, docs)
}

// Get handles GET /api/posts/:id.
func (h *PostHandler) Get(c *gin.Context) {
	doc, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// HTML handles GET /api/posts/:id/html.
func (h *PostHandler) HTML(c *gin.Context) {
	page, err := h.service.RenderHTML(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// parseLimit reads the limit query parameter. Missing means the default;
// values above the maximum are capped.
func (h *PostHandler) parseLimit(c *gin.Context) (int, bool) {
	raw, present := c.GetQuery("limit")
	if !present {
		return h.defaultLimit, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, false
	}

	return min(limit, h.maxLimit), true
}

func (h *PostHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, posts.ErrEmptyTopic):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgEmptyTopic})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
	case errors.Is(err, storage.ErrStoreUnavailable):
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgStoreUnavailable})
	default:
		_ = c.Error(err)
		infralogger.FromContextOr(c.Request.Context(), h.logger).Error("Unexpected post handler error",
			infralogger.String("path", c.FullPath()),
			infralogger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
	}
}
