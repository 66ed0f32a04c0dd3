// Package config loads the blog generator configuration.
package config

import (
	"time"

	infraconfig "github.com/jonesrussell/blog-generator/infrastructure/config"
	"github.com/jonesrussell/blog-generator/infrastructure/profiling"
	infraredis "github.com/jonesrussell/blog-generator/infrastructure/redis"
	"github.com/jonesrussell/blog-generator/internal/storage"
)

// Default configuration values.
const (
	defaultServiceName  = "blog-generator"
	defaultServicePort  = 8000
	defaultVersion      = "0.1.0"
	defaultListLimit    = 10
	defaultMaxListLimit = 100
	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"
	defaultDBTimeout    = 5 * time.Second
	defaultMaxOpenConns = 10
	defaultMaxIdleConns = 5
	defaultConnAttempts = 3
)

// Config holds the application configuration.
type Config struct {
	Service   ServiceConfig     `yaml:"service"`
	Database  DatabaseConfig    `yaml:"database"`
	Redis     infraredis.Config `yaml:"redis"`
	Logging   LoggingConfig     `yaml:"logging"`
	Profiling profiling.Config  `yaml:"profiling"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name         string   `yaml:"name"`
	Version      string   `yaml:"version"`
	Port         int      `env:"PORT"         yaml:"port"`
	Debug        bool     `env:"APP_DEBUG"    yaml:"debug"`
	CORSOrigins  []string `env:"CORS_ORIGINS" yaml:"cors_origins"`
	ListLimit    int      `yaml:"list_limit"`
	MaxListLimit int      `yaml:"max_list_limit"`
}

// DatabaseConfig holds document store configuration. URL and Name are left
// empty when unset so their presence can be reported.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"              yaml:"url"`
	Name            string        `env:"DATABASE_NAME"             yaml:"name"`
	Timeout         time.Duration `env:"DATABASE_TIMEOUT"          yaml:"timeout"`
	ConnectAttempts int           `env:"DATABASE_CONNECT_ATTEMPTS" yaml:"connect_attempts"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
}

// StoreConfig converts the section into storage options.
func (d *DatabaseConfig) StoreConfig() storage.Config {
	return storage.Config{
		URL:          d.URL,
		Name:         d.Name,
		Timeout:      d.Timeout,
		MaxOpenConns: d.MaxOpenConns,
		MaxIdleConns: d.MaxIdleConns,
	}
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return infraconfig.LoadWithDefaults[Config](path, setDefaults)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
	if len(svc.CORSOrigins) == 0 {
		svc.CORSOrigins = []string{"*"}
	}
	if svc.ListLimit == 0 {
		svc.ListLimit = defaultListLimit
	}
	if svc.MaxListLimit == 0 {
		svc.MaxListLimit = defaultMaxListLimit
	}
}

func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Timeout == 0 {
		db.Timeout = defaultDBTimeout
	}
	if db.ConnectAttempts == 0 {
		db.ConnectAttempts = defaultConnAttempts
	}
	if db.MaxOpenConns == 0 {
		db.MaxOpenConns = defaultMaxOpenConns
	}
	if db.MaxIdleConns == 0 {
		db.MaxIdleConns = defaultMaxIdleConns
	}
}

func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
	if log.Format == "" {
		log.Format = defaultLoggingFmt
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidateLogLevel("logging.level", c.Logging.Level); err != nil {
		return err
	}
	if c.Service.ListLimit < 1 || c.Service.ListLimit > c.Service.MaxListLimit {
		return &infraconfig.ValidationError{
			Field:   "service.list_limit",
			Message: "must be between 1 and service.max_list_limit",
		}
	}
	if c.Database.Timeout < 0 {
		return &infraconfig.ValidationError{
			Field:   "database.timeout",
			Message: "must not be negative",
		}
	}
	if c.Redis.EventsEnabled && c.Redis.Address == "" {
		return &infraconfig.ValidationError{
			Field:   "redis.address",
			Message: "is required when redis.events_enabled is true",
		}
	}
	return nil
}
