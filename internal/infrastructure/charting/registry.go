package charting

import (
	"sync"

	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/session"
	"github.com/AtRiskMedia/logic-explorer/internal/domain/services"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/metrics"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/security"
)

// Registry keeps at most one live chart per session.
type Registry struct {
	mu      sync.Mutex
	charts  map[string]*Chart
	logger  *logging.ChanneledLogger
	metrics *metrics.Collector
}

// NewRegistry creates an empty chart registry.
func NewRegistry(logger *logging.ChanneledLogger, collector *metrics.Collector) *Registry {
	return &Registry{
		charts:  make(map[string]*Chart),
		logger:  logger,
		metrics: collector,
	}
}

// Replace destroys the session's current chart, if any, and creates a new
// one with a fresh ID.
func (r *Registry) Replace(sessionID string, series []services.Series, theme session.Theme) *Chart {
	chart := newChart(security.GenerateULID(), sessionID, series, theme)

	r.mu.Lock()
	previous := r.charts[sessionID]
	r.charts[sessionID] = chart
	r.mu.Unlock()

	if previous != nil {
		previous.Destroy()
		r.logger.WithSession(logging.ChannelChart, sessionID).Debug("Chart destroyed", "chartId", previous.ID)
	}

	r.metrics.ChartCreated()
	r.logger.WithSession(logging.ChannelChart, sessionID).Debug("Chart created", "chartId", chart.ID, "datasets", len(series))
	return chart
}

// Get returns the session's live chart.
func (r *Registry) Get(sessionID string) (*Chart, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chart, ok := r.charts[sessionID]
	return chart, ok
}

// Release destroys the session's chart and clears the reference. It reports
// whether a chart existed.
func (r *Registry) Release(sessionID string) bool {
	r.mu.Lock()
	chart, ok := r.charts[sessionID]
	delete(r.charts, sessionID)
	r.mu.Unlock()

	if !ok {
		return false
	}
	chart.Destroy()
	r.logger.WithSession(logging.ChannelChart, sessionID).Debug("Chart released", "chartId", chart.ID)
	return true
}

// ApplyTheme recolours the session's chart if it has one.
func (r *Registry) ApplyTheme(sessionID string, theme session.Theme) bool {
	chart, ok := r.Get(sessionID)
	if !ok {
		return false
	}
	chart.ApplyTheme(theme)
	return true
}

// Count returns the number of live charts.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.charts)
}
