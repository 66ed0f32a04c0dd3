package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/blog-generator/internal/storage"
)

const (
	statusRunning      = "✅ Running"
	statusConnected    = "✅ Connected & Working"
	statusNotAvailable = "❌ Not Available"
	statusSet          = "✅ Set"
	statusNotSet       = "❌ Not Set"

	maxDiagnosticCollections = 10
	maxDiagnosticErrorLen    = 80
)

// RootHandler serves the liveness and diagnostics endpoints.
type RootHandler struct {
	store           storage.Store
	databaseURLSet  bool
	databaseNameSet bool
}

// NewRootHandler creates a RootHandler. The flags report whether the
// database URL and name were configured.
func NewRootHandler(store storage.Store, databaseURLSet, databaseNameSet bool) *RootHandler {
	return &RootHandler{
		store:           store,
		databaseURLSet:  databaseURLSet,
		databaseNameSet: databaseNameSet,
	}
}

// Root handles GET /.
func (h *RootHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Blog Generator Backend is running"})
}

// Diagnostics handles GET /test. It always responds 200.
func (h *RootHandler) Diagnostics(c *gin.Context) {
	ctx := c.Request.Context()

	resp := gin.H{
		"backend":           statusRunning,
		"database":          statusNotAvailable,
		"database_url":      presence(h.databaseURLSet),
		"database_name":     presence(h.databaseNameSet),
		"connection_status": "Not Connected",
		"collections":       []string{},
	}

	if err := h.store.Ping(ctx); err != nil {
		resp["database"] = databaseStatus(err)
		c.JSON(http.StatusOK, resp)
		return
	}

	resp["database"] = statusConnected
	resp["connection_status"] = "Connected"
	if names, err := h.store.Collections(ctx, maxDiagnosticCollections); err == nil && names != nil {
		resp["collections"] = names
	}

	c.JSON(http.StatusOK, resp)
}

func presence(set bool) string {
	if set {
		return statusSet
	}
	return statusNotSet
}

func databaseStatus(err error) string {
	if errors.Is(err, storage.ErrNotConfigured) || errors.Is(err, context.Canceled) {
		return statusNotAvailable
	}

	msg := err.Error()
	if runes := []rune(msg); len(runes) > maxDiagnosticErrorLen {
		msg = string(runes[:maxDiagnosticErrorLen])
	}
	return "❌ Error: " + msg
}
