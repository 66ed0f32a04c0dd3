package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"

	infraconfig "github.com/jonesrussell/blog-generator/infrastructure/config"
	"github.com/jonesrussell/blog-generator/infrastructure/logger"
	"github.com/jonesrussell/blog-generator/infrastructure/profiling"
	infraredis "github.com/jonesrussell/blog-generator/infrastructure/redis"
	"github.com/jonesrussell/blog-generator/infrastructure/retry"
	"github.com/jonesrussell/blog-generator/internal/api"
	"github.com/jonesrussell/blog-generator/internal/config"
	"github.com/jonesrussell/blog-generator/internal/events"
	"github.com/jonesrussell/blog-generator/internal/handler"
	"github.com/jonesrussell/blog-generator/internal/metrics"
	"github.com/jonesrussell/blog-generator/internal/posts"
	"github.com/jonesrussell/blog-generator/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// Initialize logger
	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	// Start profiling server (if enabled)
	if pprofServer := profiling.Start(cfg.Profiling, log); pprofServer != nil {
		defer func() { _ = pprofServer.Close() }()
	}

	// Continuous profiling (if enabled)
	pyroProfiler, pyroErr := profiling.StartContinuous(cfg.Profiling, cfg.Service.Name, cfg.Service.Version, log)
	if pyroErr != nil {
		log.Warn("Pyroscope failed to start", logger.Error(pyroErr))
	} else if pyroProfiler != nil {
		defer pyroProfiler.Stop() //nolint:errcheck // best-effort cleanup
	}

	ctx := context.Background()

	// A missing or unreachable store degrades the service instead of stopping it.
	store := openStore(ctx, cfg, log)
	defer func() { _ = store.Close() }()

	redisClient := connectRedis(ctx, cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Deferred after the client so pending events drain before it closes.
	publisher := events.NewPublisher(redisClient, log)
	defer publisher.Close()

	return runServer(ctx, cfg, log, store, publisher)
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	configPath := infraconfig.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// openStore connects the document store, retrying connection failures, and
// falls back to an unavailable store.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) storage.Store {
	var store storage.Store
	err := retry.Do(ctx, retry.Config{
		MaxAttempts: cfg.Database.ConnectAttempts,
		IsRetryable: func(err error) bool { return errors.Is(err, storage.ErrStoreUnavailable) },
		OnRetry: func(attempt int, delay time.Duration, err error) {
			log.Warn("Document store connection failed, retrying",
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
				logger.Error(err),
			)
		},
	}, func(ctx context.Context) error {
		var openErr error
		store, openErr = storage.Open(ctx, cfg.Database.StoreConfig())
		return openErr
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			log.Warn("DATABASE_URL not set, document store disabled")
		} else {
			log.Warn("Document store unavailable", logger.Error(err))
		}
		return storage.NewUnavailable(cfg.Database.Name, err)
	}

	log.Info("Document store connected",
		logger.String("database", store.DatabaseName()),
		logger.Duration("timeout", cfg.Database.Timeout),
	)
	return store
}

// connectRedis returns nil when events are disabled or Redis is unreachable.
func connectRedis(ctx context.Context, cfg *config.Config, log logger.Logger) *goredis.Client {
	if !cfg.Redis.EventsEnabled {
		return nil
	}

	client, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, post events disabled",
			logger.String("address", cfg.Redis.Address),
			logger.Error(err),
		)
		return nil
	}

	log.Info("Redis connected, publishing post events",
		logger.String("address", cfg.Redis.Address),
		logger.String("stream", events.StreamName),
	)
	return client
}

// runServer creates all dependencies and starts the HTTP server.
func runServer(
	ctx context.Context,
	cfg *config.Config,
	log logger.Logger,
	store storage.Store,
	publisher *events.Publisher,
) int {
	m := metrics.New()
	service := posts.NewService(store, publisher, m, log)

	server := api.NewServer(api.Handlers{
		Root:    handler.NewRootHandler(store, cfg.Database.URL != "", cfg.Database.Name != ""),
		Posts:   handler.NewPostHandler(service, log, cfg.Service.ListLimit, cfg.Service.MaxListLimit),
		Metrics: m.Handler(),
	}, store, cfg, log)

	log.Info("Blog generator starting",
		logger.Int("port", cfg.Service.Port),
		logger.String("version", cfg.Service.Version),
	)

	if err := server.Run(ctx); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("Blog generator exited cleanly")
	return 0
}
