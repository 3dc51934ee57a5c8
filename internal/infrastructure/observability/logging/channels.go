// Package logging provides structured logging channels for Logic Explorer
// operations with per-session context and performance correlation.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Channel represents a logical logging channel for different system components
type Channel string

const (
	// System channels
	ChannelSystem   Channel = "system"   // General system operations
	ChannelStartup  Channel = "startup"  // Application startup and initialization
	ChannelShutdown Channel = "shutdown" // Application shutdown and cleanup

	// Business logic channels
	ChannelBackend Channel = "backend" // Calls to the analysis service
	ChannelSession Channel = "session" // Session lifecycle and view state
	ChannelRender  Channel = "render"  // Fragment and page rendering
	ChannelChart   Channel = "chart"   // Chart lifecycle and rasterisation

	// Infrastructure channels
	ChannelStorage   Channel = "storage"   // Client storage reads and writes
	ChannelWebSocket Channel = "websocket" // Live view push
	ChannelSSE       Channel = "sse"       // Server-sent log streaming

	// Performance and monitoring channels
	ChannelPerf      Channel = "performance" // Performance monitoring and metrics
	ChannelSlowQuery Channel = "slow-query"  // Slow storage queries

	// Development and debugging channels
	ChannelDebug Channel = "debug" // Debug information
)

// AllChannels lists every channel in creation order.
var AllChannels = []Channel{
	ChannelSystem, ChannelStartup, ChannelShutdown,
	ChannelBackend, ChannelSession, ChannelRender, ChannelChart,
	ChannelStorage, ChannelWebSocket, ChannelSSE,
	ChannelPerf, ChannelSlowQuery,
	ChannelDebug,
}

// ChanneledLogger provides structured logging with multiple channels
type ChanneledLogger struct {
	channels map[Channel]*slog.Logger
	files    []*os.File
	config   *LoggerConfig
	configMu sync.RWMutex
}

// LoggerConfig contains configuration options for the channeled logger
type LoggerConfig struct {
	// Output configuration
	OutputToFile     bool      `json:"outputToFile"`     // Whether to write logs to files
	OutputToConsole  bool      `json:"outputToConsole"`  // Whether to write logs to console
	LogDirectory     string    `json:"logDirectory"`     // Directory for log files
	BroadcastToSysOp bool      `json:"broadcastToSysOp"` // Whether to feed the live log stream
	Writer           io.Writer `json:"-"`                // Extra destination, mostly for tests

	// Formatting configuration
	JSONFormat    bool `json:"jsonFormat"`    // Use JSON format for structured logging
	IncludeSource bool `json:"includeSource"` // Include source file and line in logs

	// Level configuration per channel
	DefaultLevel  slog.Level             `json:"defaultLevel"`  // Default log level
	ChannelLevels map[Channel]slog.Level `json:"channelLevels"` // Per-channel log levels
}

// DefaultLoggerConfig returns a sensible default configuration
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		OutputToFile:     true,
		OutputToConsole:  true,
		LogDirectory:     "logs",
		BroadcastToSysOp: true,
		JSONFormat:       true,
		IncludeSource:    false,
		DefaultLevel:     slog.LevelInfo,
		ChannelLevels:    make(map[Channel]slog.Level),
	}
}

// NewChanneledLogger creates a new channeled logger with the given configuration
func NewChanneledLogger(config *LoggerConfig) (*ChanneledLogger, error) {
	if config == nil {
		config = DefaultLoggerConfig()
	}
	if config.ChannelLevels == nil {
		config.ChannelLevels = make(map[Channel]slog.Level)
	}

	logger := &ChanneledLogger{
		channels: make(map[Channel]*slog.Logger),
		config:   config,
	}

	if config.OutputToFile {
		if err := os.MkdirAll(config.LogDirectory, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	for _, channel := range AllChannels {
		channelLogger, file, err := logger.createChannelLogger(channel)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger for channel %s: %w", channel, err)
		}
		logger.channels[channel] = channelLogger
		if file != nil {
			logger.files = append(logger.files, file)
		}
	}

	return logger, nil
}

// NewDiscardLogger returns a logger that drops everything. Used by tests and tools.
func NewDiscardLogger() *ChanneledLogger {
	logger, _ := NewChanneledLogger(&LoggerConfig{
		Writer:       io.Discard,
		JSONFormat:   true,
		DefaultLevel: slog.LevelError + 4,
	})
	return logger
}

// ParseLevel maps a textual level onto slog, defaulting to Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG", "TRACE":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR", "FATAL":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// createChannelLogger creates a slog.Logger for a specific channel, returning the
// log file it opened (if any) so the caller can own its lifetime.
func (cl *ChanneledLogger) createChannelLogger(channel Channel) (*slog.Logger, *os.File, error) {
	cl.configMu.RLock()
	defer cl.configMu.RUnlock()

	level := cl.config.DefaultLevel
	if channelLevel, exists := cl.config.ChannelLevels[channel]; exists {
		level = channelLevel
	}

	var writers []io.Writer
	var file *os.File

	if cl.config.OutputToConsole {
		writers = append(writers, os.Stdout)
	}

	if cl.config.OutputToFile {
		filename := fmt.Sprintf("%s.log", string(channel))
		path := filepath.Join(cl.config.LogDirectory, filename)

		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		file = f
		writers = append(writers, f)
	}

	if cl.config.Writer != nil {
		writers = append(writers, cl.config.Writer)
	}

	// Every JSON record also goes to the sysop live stream
	if cl.config.BroadcastToSysOp && cl.config.JSONFormat {
		writers = append(writers, NewSSEWriter())
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = os.Stdout
	case 1:
		writer = writers[0]
	default:
		writer = io.MultiWriter(writers...)
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cl.config.IncludeSource,
	}

	var handler slog.Handler
	if cl.config.JSONFormat {
		handler = slog.NewJSONHandler(writer, handlerOpts)
	} else {
		handler = slog.NewTextHandler(writer, handlerOpts)
	}

	return slog.New(handler).With(slog.String("channel", string(channel))), file, nil
}

func (cl *ChanneledLogger) get(channel Channel) *slog.Logger {
	cl.configMu.RLock()
	defer cl.configMu.RUnlock()
	return cl.channels[channel]
}

func (cl *ChanneledLogger) System() *slog.Logger    { return cl.get(ChannelSystem) }
func (cl *ChanneledLogger) Startup() *slog.Logger   { return cl.get(ChannelStartup) }
func (cl *ChanneledLogger) Shutdown() *slog.Logger  { return cl.get(ChannelShutdown) }
func (cl *ChanneledLogger) Backend() *slog.Logger   { return cl.get(ChannelBackend) }
func (cl *ChanneledLogger) Session() *slog.Logger   { return cl.get(ChannelSession) }
func (cl *ChanneledLogger) Render() *slog.Logger    { return cl.get(ChannelRender) }
func (cl *ChanneledLogger) Chart() *slog.Logger     { return cl.get(ChannelChart) }
func (cl *ChanneledLogger) Storage() *slog.Logger   { return cl.get(ChannelStorage) }
func (cl *ChanneledLogger) WebSocket() *slog.Logger { return cl.get(ChannelWebSocket) }
func (cl *ChanneledLogger) SSE() *slog.Logger       { return cl.get(ChannelSSE) }
func (cl *ChanneledLogger) Perf() *slog.Logger      { return cl.get(ChannelPerf) }
func (cl *ChanneledLogger) SlowQuery() *slog.Logger { return cl.get(ChannelSlowQuery) }
func (cl *ChanneledLogger) Debug() *slog.Logger     { return cl.get(ChannelDebug) }

// GetChannel returns a logger for a specific channel
func (cl *ChanneledLogger) GetChannel(channel Channel) *slog.Logger {
	if logger := cl.get(channel); logger != nil {
		return logger
	}
	return cl.get(ChannelSystem)
}

// WithSession returns a logger carrying a masked session identifier
func (cl *ChanneledLogger) WithSession(channel Channel, sessionID string) *slog.Logger {
	return cl.GetChannel(channel).With(slog.String("sessionId", cl.sanitizeSessionID(sessionID)))
}

// WithContext returns a logger with context from the provided context.Context
func (cl *ChanneledLogger) WithContext(channel Channel, ctx context.Context) *slog.Logger {
	logger := cl.GetChannel(channel)

	if sessionID, ok := ctx.Value(SessionIDKey).(string); ok && sessionID != "" {
		logger = logger.With(slog.String("sessionId", cl.sanitizeSessionID(sessionID)))
	}
	if operation, ok := ctx.Value(OperationKey).(string); ok && operation != "" {
		logger = logger.With(slog.String("operation", operation))
	}

	return logger
}

type contextKey string

// Context keys recognised by WithContext.
const (
	SessionIDKey contextKey = "sessionId"
	OperationKey contextKey = "operation"
)

// LogSlowQuery logs a slow storage query
func (cl *ChanneledLogger) LogSlowQuery(query string, duration time.Duration) {
	cl.SlowQuery().Warn("Slow query detected",
		slog.String("query", cl.sanitizeQuery(query)),
		slog.Duration("duration", duration),
	)
}

// LogBackendCall logs one round-trip to the analysis service
func (cl *ChanneledLogger) LogBackendCall(endpoint string, status int, success bool, duration time.Duration, err error) {
	logger := cl.Backend().With(
		slog.String("endpoint", endpoint),
		slog.Int("status", status),
		slog.Bool("success", success),
		slog.Duration("duration", duration),
	)
	if err != nil {
		logger.Warn("Backend call failed", slog.String("error", err.Error()))
		return
	}
	logger.Info("Backend call completed")
}

// LogError logs an error with appropriate context and channel
func (cl *ChanneledLogger) LogError(channel Channel, operation string, err error, sessionID string, metadata map[string]any) {
	logger := cl.GetChannel(channel).With(
		slog.String("operation", operation),
		slog.String("sessionId", cl.sanitizeSessionID(sessionID)),
		slog.String("error", err.Error()),
	)

	for key, value := range metadata {
		logger = logger.With(slog.Any(key, value))
	}

	logger.Error("Operation failed")
}

// LogStartupPhase logs application startup phases
func (cl *ChanneledLogger) LogStartupPhase(phase string, duration time.Duration, success bool, metadata map[string]any) {
	logger := cl.Startup().With(
		slog.String("phase", phase),
		slog.Duration("duration", duration),
		slog.Bool("success", success),
	)

	for key, value := range metadata {
		logger = logger.With(slog.Any(key, value))
	}

	if success {
		logger.Info("Startup phase completed")
	} else {
		logger.Error("Startup phase failed")
	}
}

// sanitizeQuery flattens and truncates SQL for logging
func (cl *ChanneledLogger) sanitizeQuery(query string) string {
	query = strings.ReplaceAll(query, "\n", " ")
	query = strings.ReplaceAll(query, "\t", " ")

	if len(query) > 500 {
		query = query[:500] + "..."
	}

	return query
}

// sanitizeSessionID partially masks session IDs for privacy
func (cl *ChanneledLogger) sanitizeSessionID(sessionID string) string {
	if len(sessionID) <= 8 {
		return "********"
	}
	return sessionID[:4] + "****" + sessionID[len(sessionID)-4:]
}

// Close flushes and closes every log file
func (cl *ChanneledLogger) Close() error {
	cl.System().Info("Channeled logger shutting down")

	cl.configMu.Lock()
	defer cl.configMu.Unlock()

	var firstErr error
	for _, f := range cl.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	cl.files = nil
	return firstErr
}

// SetChannelLevel dynamically sets the log level for a specific channel
func (cl *ChanneledLogger) SetChannelLevel(channel Channel, level slog.Level) error {
	if cl.get(channel) == nil {
		return fmt.Errorf("channel %s does not exist", channel)
	}

	cl.configMu.Lock()
	cl.config.ChannelLevels[channel] = level
	cl.configMu.Unlock()

	newLogger, file, err := cl.createChannelLogger(channel)
	if err != nil {
		cl.System().Error("Failed to recreate logger for channel on level change", "channel", channel, "error", err)
		return fmt.Errorf("failed to recreate logger for channel %s: %w", channel, err)
	}

	cl.configMu.Lock()
	cl.channels[channel] = newLogger
	if file != nil {
		cl.files = append(cl.files, file)
	}
	cl.configMu.Unlock()

	cl.System().Info("Channel log level updated dynamically",
		slog.String("channel", string(channel)),
		slog.String("level", level.String()),
	)

	return nil
}

// GetChannelLevels returns the current log levels for all channels.
func (cl *ChanneledLogger) GetChannelLevels() map[string]string {
	cl.configMu.RLock()
	defer cl.configMu.RUnlock()

	levels := make(map[string]string)
	for channel := range cl.channels {
		if level, ok := cl.config.ChannelLevels[channel]; ok {
			levels[string(channel)] = level.String()
		} else {
			levels[string(channel)] = cl.config.DefaultLevel.String()
		}
	}
	return levels
}
