package profiling

import (
	"fmt"
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"

	"github.com/jonesrussell/blog-generator/infrastructure/logger"
)

// Pyroscope defaults.
const (
	DefaultPyroscopeURL = "http://pyroscope:4040"
	DefaultEnvironment  = "development"
)

// ContinuousProfiler pushes profiles to a Pyroscope server.
type ContinuousProfiler struct {
	profiler *pyroscope.Profiler
}

// StartContinuous starts Pyroscope profiling for serviceName. It returns
// nil, nil when continuous profiling is disabled.
func StartContinuous(cfg Config, serviceName, version string, log logger.Logger) (*ContinuousProfiler, error) {
	if !cfg.Continuous {
		return nil, nil
	}

	pcfg := pyroscopeConfig(cfg, serviceName, version)

	profiler, err := pyroscope.Start(pcfg)
	if err != nil {
		return nil, fmt.Errorf("start pyroscope profiler: %w", err)
	}

	log.Info("Continuous profiling started",
		logger.String("application", pcfg.ApplicationName),
		logger.String("server", pcfg.ServerAddress),
		logger.String("environment", pcfg.Tags["environment"]),
	)

	return &ContinuousProfiler{profiler: profiler}, nil
}

// Stop flushes and stops the profiler. A nil profiler is a no-op.
func (p *ContinuousProfiler) Stop() error {
	if p == nil || p.profiler == nil {
		return nil
	}
	return p.profiler.Stop()
}

func pyroscopeConfig(cfg Config, serviceName, version string) pyroscope.Config {
	serverURL := cfg.PyroscopeURL
	if serverURL == "" {
		serverURL = DefaultPyroscopeURL
	}
	environment := cfg.Environment
	if environment == "" {
		environment = DefaultEnvironment
	}
	if version == "" {
		version = "unknown"
	}

	return pyroscope.Config{
		ApplicationName: serviceName,
		ServerAddress:   serverURL,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
		Tags: map[string]string{
			"environment": environment,
			"version":     version,
			"hostname":    hostname(),
			"go_version":  runtime.Version(),
		},
	}
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
