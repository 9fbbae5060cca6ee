package observability

import (
	"github.com/grafana/pyroscope-go"

	"github.com/fplmate/fpl-live/internal/config"
	"github.com/fplmate/fpl-live/internal/platform/logging"
)

// InitPyroscope starts continuous profiling against the configured server.
// The returned stop function is a no-op when profiling is disabled.
func InitPyroscope(cfg config.Config, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.PyroscopeEnabled {
		logger.Info("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
		return func() error { return nil }, nil
	}

	profiler, err := pyroscope.Start(profilerConfig(cfg))
	if err != nil {
		return nil, err
	}

	logger.Info("pyroscope enabled",
		"server_address", cfg.PyroscopeServerAddress,
		"application", cfg.PyroscopeAppName,
	)
	return profiler.Stop, nil
}

func profilerConfig(cfg config.Config) pyroscope.Config {
	// DefaultProfileTypes covers CPU and the alloc/inuse pairs; the rest
	// give scheduler and lock visibility during gameweek traffic spikes.
	types := append([]pyroscope.ProfileType{}, pyroscope.DefaultProfileTypes...)
	types = append(types,
		pyroscope.ProfileGoroutines,
		pyroscope.ProfileMutexCount,
		pyroscope.ProfileMutexDuration,
		pyroscope.ProfileBlockCount,
		pyroscope.ProfileBlockDuration,
	)

	return pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags: map[string]string{
			"env":     cfg.AppEnv,
			"service": cfg.ServiceName,
		},
		ProfileTypes: types,
	}
}
