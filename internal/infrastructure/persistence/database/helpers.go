// Package database provides database helper functions
package database

import (
	"strings"
	"time"

	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/logic-explorer/pkg/config"
)

const (
	DriverSQLite = "sqlite3"
	DriverLibSQL = "libsql"
)

// ResolveDriver picks the SQL driver for a DSN. Remote libsql and Turso URLs
// always use the libsql driver whatever was configured.
func ResolveDriver(configured, dsn string) string {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "libsql://") || strings.HasPrefix(lower, "wss://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") {
		return DriverLibSQL
	}
	if configured == "" {
		return DriverSQLite
	}
	return configured
}

// GetSlowQueryThreshold returns the configured slow query threshold
func GetSlowQueryThreshold() time.Duration {
	return config.SlowQueryThreshold
}

// CheckAndLogSlowQuery checks if a query duration exceeds threshold
// and logs it using the slow query channel if it does
func CheckAndLogSlowQuery(logger *logging.ChanneledLogger, query string, duration time.Duration) {
	if duration > GetSlowQueryThreshold() {
		logger.LogSlowQuery(query, duration)
	}
}
