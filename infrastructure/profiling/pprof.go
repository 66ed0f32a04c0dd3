// Package profiling serves net/http/pprof on a loopback port and can push
// continuous profiles to Pyroscope.
package profiling

import (
	"errors"
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	"github.com/jonesrussell/blog-generator/infrastructure/logger"
)

// DefaultPort is used when profiling is enabled without a port.
const DefaultPort = 6060

const readHeaderTimeout = 5 * time.Second

// Config controls the pprof server and continuous profiling.
type Config struct {
	Enabled bool `env:"ENABLE_PROFILING" yaml:"enabled"`
	Port    int  `env:"PPROF_PORT"       yaml:"port"`

	Continuous   bool   `env:"ENABLE_CONTINUOUS_PROFILING" yaml:"continuous"`
	PyroscopeURL string `env:"PYROSCOPE_SERVER_URL"        yaml:"pyroscope_url"`
	Environment  string `env:"PYROSCOPE_ENVIRONMENT"       yaml:"environment"`
}

// Handler returns a mux with the standard /debug/pprof endpoints.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// Start serves pprof on localhost in the background. It returns nil when
// profiling is disabled; otherwise the caller closes the returned server.
func Start(cfg Config, log logger.Logger) *http.Server {
	if !cfg.Enabled {
		return nil
	}

	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	srv := &http.Server{
		Addr:              "localhost:" + strconv.Itoa(port),
		Handler:           Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info("Starting pprof server", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("pprof server error", logger.Error(err))
		}
	}()

	return srv
}
