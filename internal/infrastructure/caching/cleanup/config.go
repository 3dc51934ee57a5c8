package cleanup

import (
	"time"

	"github.com/AtRiskMedia/logic-explorer/pkg/config"
)

// Config holds cleanup worker configuration, sourced from the central config package.
type Config struct {
	CleanupInterval  time.Duration
	VerboseReporting bool
	SessionTTL       time.Duration
	StateRetention   time.Duration
}

// NewConfig creates a new cleanup configuration by reading values
// from the already-initialized variables in the centralized /pkg/config package.
func NewConfig() *Config {
	return &Config{
		CleanupInterval:  config.SessionCleanupInterval,
		VerboseReporting: config.SessionCleanupVerbose,
		SessionTTL:       config.SessionTTL,
		StateRetention:   config.ClientStateRetention,
	}
}
