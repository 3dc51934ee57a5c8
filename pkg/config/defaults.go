// Package config provides centralized default values for Logic Explorer
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		// godotenv.Load never overrides variables that are already set
		if err := godotenv.Load(); err != nil {
			return
		}
		log.Println("Loading configuration overrides from .env file...")
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
		// Bare integers are seconds
		if seconds, err := strconv.Atoi(valStr); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	ShutdownTimeout    time.Duration
	CORSOrigins        []string

	// Analysis backend
	BackendURL     string
	BackendTimeout time.Duration

	// Client storage
	StorageDriver      string
	StorageDSN         string
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	SlowQueryThreshold time.Duration

	// Sessions
	JWTSecret              string
	SessionCookieName      string
	SessionTokenTTL        time.Duration
	SessionTTL             time.Duration
	SessionCleanupInterval time.Duration
	SessionCleanupVerbose  bool
	MaxLiveSessions        int
	ClientStateRetention   time.Duration

	// SysOp
	SysOpPasswordHash string

	// Logging
	LogDirectory string
	LogToFile    bool
	LogLevel     string

	// Charts
	ChartDefaultWidth int
	ChartMaxWidth     int

	// WebSocket push
	WSWriteTimeout   time.Duration
	WSPingInterval   time.Duration
	WSSendBufferSize int
)

func init() {
	loadEnvFile()
	Load()
}

// Load (re)reads every setting from the environment.
func Load() {
	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	// Backend calls carry no timeout, so writes must not cut them short
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 0)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	CORSOrigins = getEnvList("CORS_ORIGINS", []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8080",
		"http://[::1]:3000",
		"http://[::1]:8080",
	})

	// Analysis backend
	BackendURL = strings.TrimRight(getEnvString("BACKEND_URL", "http://localhost:5000"), "/")
	BackendTimeout = getEnvDuration("BACKEND_TIMEOUT", 0)

	// Client storage
	StorageDriver = getEnvString("STORAGE_DRIVER", "sqlite3")
	StorageDSN = getEnvString("STORAGE_DSN", "file:logic-explorer.db?_journal_mode=WAL&_busy_timeout=5000")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 50*time.Millisecond)

	// Sessions
	JWTSecret = getEnvString("JWT_SECRET", "")
	SessionCookieName = getEnvString("SESSION_COOKIE_NAME", "lx_session")
	SessionTokenTTL = getEnvDuration("SESSION_TOKEN_TTL", 365*24*time.Hour)
	SessionTTL = getEnvDuration("SESSION_TTL", 2*time.Hour)
	SessionCleanupInterval = getEnvDuration("SESSION_CLEANUP_INTERVAL", 5*time.Minute)
	SessionCleanupVerbose = getEnvBool("SESSION_CLEANUP_VERBOSE", false)
	MaxLiveSessions = getEnvInt("MAX_LIVE_SESSIONS", 10000)
	// Zero keeps stored theme and counters forever
	ClientStateRetention = getEnvDuration("CLIENT_STATE_RETENTION", 0)

	// SysOp
	SysOpPasswordHash = getEnvString("SYSOP_PASSWORD_HASH", "")

	// Logging
	LogDirectory = getEnvString("LOG_DIR", "logs")
	LogToFile = getEnvBool("LOG_TO_FILE", true)
	LogLevel = getEnvString("LOG_LEVEL", "INFO")

	// Charts
	ChartDefaultWidth = getEnvInt("CHART_DEFAULT_WIDTH", 960)
	ChartMaxWidth = getEnvInt("CHART_MAX_WIDTH", 2400)

	// WebSocket push
	WSWriteTimeout = getEnvDuration("WS_WRITE_TIMEOUT", 10*time.Second)
	WSPingInterval = getEnvDuration("WS_PING_INTERVAL", 30*time.Second)
	WSSendBufferSize = getEnvInt("WS_SEND_BUFFER_SIZE", 16)
}
