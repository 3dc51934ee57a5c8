// Package logging provides the custom io.Writer for SSE log streaming.
package logging

import (
	"encoding/json"
	"log/slog"
	"time"
)

// SSEWriter is an io.Writer that forwards JSON slog records to the LogBroadcaster.
type SSEWriter struct {
	broadcaster *LogBroadcaster
}

// NewSSEWriter creates a new writer that sends log data to the broadcaster.
func NewSSEWriter() *SSEWriter {
	return &SSEWriter{
		broadcaster: GetBroadcaster(),
	}
}

// Write parses one JSON log record and submits it for distribution. It never
// fails: a record that cannot be parsed is reported as a system error entry.
func (w *SSEWriter) Write(p []byte) (n int, err error) {
	var rawLog map[string]any
	if err := json.Unmarshal(p, &rawLog); err != nil {
		w.broadcaster.SubmitLog(LogEntry{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Level:     slog.LevelError.String(),
			Channel:   string(ChannelSystem),
			Message:   "sse_writer: failed to parse incoming log message",
		})
		return len(p), nil
	}

	entry := LogEntry{
		Timestamp: w.getString(rawLog, "time"),
		Level:     w.getString(rawLog, "level"),
		Channel:   w.getString(rawLog, "channel"),
		Message:   w.getString(rawLog, "msg"),
		SessionID: w.getString(rawLog, "sessionId"),
	}

	w.broadcaster.SubmitLog(entry)

	return len(p), nil
}

// getString safely extracts a string value from the log map.
func (w *SSEWriter) getString(data map[string]any, key string) string {
	if val, ok := data[key]; ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return ""
}
