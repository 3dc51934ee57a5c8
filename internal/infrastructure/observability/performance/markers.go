// Package performance provides performance monitoring data structures and utilities
// for tracking operation performance across Logic Explorer.
package performance

import (
	"sync"
	"time"
)

// Marker represents a single performance measurement for an operation
type Marker struct {
	Operation string         `json:"operation"`       // e.g., "backend:generate_kmap", "render:truth_table"
	SessionID string         `json:"sessionId"`       // Browser session the operation ran for
	StartTime time.Time      `json:"startTime"`       // When the operation started
	EndTime   time.Time      `json:"endTime"`         // When the operation completed
	Duration  time.Duration  `json:"duration"`        // Total operation duration
	Success   bool           `json:"success"`         // Whether the operation completed successfully
	Error     string         `json:"error,omitempty"` // Error message if operation failed
	Metadata  map[string]any `json:"metadata"`        // Additional operation-specific data
	Completed bool           `json:"completed"`       // Whether Complete() has been called

	mu      sync.Mutex
	tracker *Tracker
}

// Complete marks the operation as finished and reports it to the owning tracker
func (m *Marker) Complete() {
	m.mu.Lock()
	if m.Completed {
		m.mu.Unlock()
		return
	}
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true
	tracker := m.tracker
	m.mu.Unlock()

	if tracker != nil {
		tracker.checkForAlerts(m)
	}
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Success = success
}

// SetError sets an error message and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Error = err.Error()
	m.Success = false
}

// AddMetadata adds key-value metadata to the marker
func (m *Marker) AddMetadata(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}

// snapshot returns a copy safe to hand out
func (m *Marker) snapshot() Marker {
	m.mu.Lock()
	defer m.mu.Unlock()
	meta := make(map[string]any, len(m.Metadata))
	for k, v := range m.Metadata {
		meta[k] = v
	}
	return Marker{
		Operation: m.Operation,
		SessionID: m.SessionID,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		Duration:  m.Duration,
		Success:   m.Success,
		Error:     m.Error,
		Metadata:  meta,
		Completed: m.Completed,
	}
}

// AlertSeverity represents the severity level of a performance alert
type AlertSeverity string

const (
	AlertInfo     AlertSeverity = "info"
	AlertWarning  AlertSeverity = "warning"
	AlertCritical AlertSeverity = "critical"
)

// PerformanceAlert represents a performance threshold violation
type PerformanceAlert struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	SessionID string         `json:"sessionId"`
	Severity  AlertSeverity  `json:"severity"`
	Operation string         `json:"operation"`
	Actual    time.Duration  `json:"actual"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata"`
}

// Summary aggregates completed markers for one operation name
type Summary struct {
	Operation   string        `json:"operation"`
	Count       int           `json:"count"`
	Failures    int           `json:"failures"`
	AverageTime time.Duration `json:"averageTime"`
	MaxTime     time.Duration `json:"maxTime"`
}
