// Package api wires handlers into the HTTP server.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	infragin "github.com/jonesrussell/blog-generator/infrastructure/gin"
	infralogger "github.com/jonesrussell/blog-generator/infrastructure/logger"
	"github.com/jonesrussell/blog-generator/internal/config"
	"github.com/jonesrussell/blog-generator/internal/handler"
	"github.com/jonesrussell/blog-generator/internal/storage"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

// Handlers groups what the server routes to.
type Handlers struct {
	Root    *handler.RootHandler
	Posts   *handler.PostHandler
	Metrics http.Handler
}

// NewServer creates the HTTP server. The database health check reports
// degraded, not unhealthy, so the process stays up without a store.
func NewServer(
	handlers Handlers,
	store storage.Store,
	cfg *config.Config,
	log infralogger.Logger,
) *infragin.Server {
	return infragin.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithCORSOrigins(cfg.Service.CORSOrigins).
		WithTimeouts(defaultReadTimeout, defaultWriteTimeout, defaultIdleTimeout).
		WithHealthCheck("database", infragin.PingHealthChecker(
			"Database", infragin.HealthStatusDegraded,
			func(ctx context.Context) error { return store.Ping(ctx) },
		)).
		WithRoutes(func(router *gin.Engine) {
			SetupRoutes(router, handlers.Root, handlers.Posts, handlers.Metrics)
		}).
		Build()
}
