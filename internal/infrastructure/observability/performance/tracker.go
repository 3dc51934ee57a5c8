// Package performance provides performance tracking and monitoring capabilities
// for Logic Explorer operations.
package performance

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Tracker manages performance markers and provides metrics aggregation
type Tracker struct {
	markers    []*Marker           // Completed markers, oldest first
	alerts     []*PerformanceAlert // Active performance alerts
	thresholds *AlertThresholds    // Configurable alert thresholds
	mu         sync.RWMutex        // Protects concurrent access
	started    time.Time           // When tracking started
	config     *TrackerConfig      // Tracker configuration
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers   int  `json:"maxMarkers"`   // Maximum number of completed markers to retain
	MaxAlerts    int  `json:"maxAlerts"`    // Maximum number of alerts to retain
	EnableAlerts bool `json:"enableAlerts"` // Whether to generate performance alerts
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers:   10000,
		MaxAlerts:    500,
		EnableAlerts: true,
	}
}

// AlertThresholds defines performance thresholds for generating alerts
type AlertThresholds struct {
	SlowResponseThreshold     time.Duration `json:"slowResponseThreshold"`
	CriticalResponseThreshold time.Duration `json:"criticalResponseThreshold"`
	BackendCallThreshold      time.Duration `json:"backendCallThreshold"`
	RenderThreshold           time.Duration `json:"renderThreshold"`
	StorageThreshold          time.Duration `json:"storageThreshold"`
}

// DefaultAlertThresholds returns sensible default alert thresholds
func DefaultAlertThresholds() *AlertThresholds {
	return &AlertThresholds{
		SlowResponseThreshold:     2 * time.Second,
		CriticalResponseThreshold: 5 * time.Second,
		BackendCallThreshold:      time.Second,
		RenderThreshold:           100 * time.Millisecond,
		StorageThreshold:          50 * time.Millisecond,
	}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}

	return &Tracker{
		markers:    make([]*Marker, 0),
		alerts:     make([]*PerformanceAlert, 0),
		thresholds: DefaultAlertThresholds(),
		started:    time.Now(),
		config:     config,
	}
}

// StartOperation creates a new performance marker for an operation
func (t *Tracker) StartOperation(operation, sessionID string) *Marker {
	return &Marker{
		Operation: operation,
		SessionID: sessionID,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true, // Assume success until proven otherwise
		tracker:   t,
	}
}

// checkForAlerts records a completed marker and evaluates it against thresholds
func (t *Tracker) checkForAlerts(marker *Marker) {
	snap := marker.snapshot()

	var alerts []*PerformanceAlert
	if t.config.EnableAlerts {
		alerts = t.evaluateThresholds(&snap)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.markers = append(t.markers, marker)
	if len(t.markers) > t.config.MaxMarkers {
		t.markers = t.markers[len(t.markers)-t.config.MaxMarkers:]
	}

	t.alerts = append(t.alerts, alerts...)
	if len(t.alerts) > t.config.MaxAlerts {
		t.alerts = t.alerts[len(t.alerts)-t.config.MaxAlerts:]
	}
}

// evaluateThresholds checks a marker against all relevant thresholds
func (t *Tracker) evaluateThresholds(marker *Marker) []*PerformanceAlert {
	var alerts []*PerformanceAlert

	if marker.Duration > t.thresholds.CriticalResponseThreshold {
		alerts = append(alerts, t.createAlert(marker, AlertCritical,
			"Operation exceeded critical response time threshold"))
	} else if marker.Duration > t.thresholds.SlowResponseThreshold {
		alerts = append(alerts, t.createAlert(marker, AlertWarning,
			"Operation exceeded slow response time threshold"))
	}

	switch {
	case strings.HasPrefix(marker.Operation, "backend"):
		if marker.Duration > t.thresholds.BackendCallThreshold {
			alerts = append(alerts, t.createAlert(marker, AlertWarning,
				"Backend call exceeded threshold"))
		}
	case strings.HasPrefix(marker.Operation, "render"):
		if marker.Duration > t.thresholds.RenderThreshold {
			alerts = append(alerts, t.createAlert(marker, AlertWarning,
				"Rendering exceeded threshold"))
		}
	case strings.HasPrefix(marker.Operation, "storage"):
		if marker.Duration > t.thresholds.StorageThreshold {
			alerts = append(alerts, t.createAlert(marker, AlertWarning,
				"Storage operation exceeded threshold"))
		}
	}

	return alerts
}

// createAlert creates a new performance alert
func (t *Tracker) createAlert(marker *Marker, severity AlertSeverity, message string) *PerformanceAlert {
	return &PerformanceAlert{
		ID:        fmt.Sprintf("alert_%d", time.Now().UnixNano()),
		Timestamp: time.Now(),
		SessionID: marker.SessionID,
		Severity:  severity,
		Operation: marker.Operation,
		Actual:    marker.Duration,
		Message:   message,
		Metadata: map[string]any{
			"success": marker.Success,
		},
	}
}

// GetRecentMetrics returns markers completed within the specified duration
func (t *Tracker) GetRecentMetrics(within time.Duration) []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cutoff := time.Now().Add(-within)
	var metrics []Marker
	for _, marker := range t.markers {
		snap := marker.snapshot()
		if snap.EndTime.After(cutoff) {
			metrics = append(metrics, snap)
		}
	}
	return metrics
}

// GetAlerts returns every retained performance alert
func (t *Tracker) GetAlerts() []*PerformanceAlert {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*PerformanceAlert, len(t.alerts))
	copy(out, t.alerts)
	return out
}

// Summarize groups completed markers by operation name
func (t *Tracker) Summarize() []Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	byOp := make(map[string]*Summary)
	var total = make(map[string]time.Duration)
	for _, marker := range t.markers {
		snap := marker.snapshot()
		s, ok := byOp[snap.Operation]
		if !ok {
			s = &Summary{Operation: snap.Operation}
			byOp[snap.Operation] = s
		}
		s.Count++
		if !snap.Success {
			s.Failures++
		}
		if snap.Duration > s.MaxTime {
			s.MaxTime = snap.Duration
		}
		total[snap.Operation] += snap.Duration
	}

	out := make([]Summary, 0, len(byOp))
	for op, s := range byOp {
		s.AverageTime = total[op] / time.Duration(s.Count)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}

// Uptime reports how long the tracker has been running
func (t *Tracker) Uptime() time.Duration {
	return time.Since(t.started)
}
