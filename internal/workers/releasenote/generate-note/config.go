// internal/workers/releasenote/generate-note/config.go
package generatenote

import (
	"time"

	"release-note-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 120 * time.Second,
	}
}

// FromWorkerConfig builds the worker config from the application config,
// falling back to defaults for unset values.
func FromWorkerConfig(wc config.WorkerConfig) *Config {
	cfg := LoadConfig()
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
