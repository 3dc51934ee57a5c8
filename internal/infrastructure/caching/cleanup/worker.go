// Package cleanup provides background worker
package cleanup

import (
	"context"
	"time"

	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/charting"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
)

// StatePurger removes persisted client state that has not been touched
// since the cutoff.
type StatePurger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Worker evicts idle sessions and releases their charts
type Worker struct {
	sessions *stores.SessionsStore
	charts   *charting.Registry
	state    StatePurger
	config   *Config
	logger   *logging.ChanneledLogger
	reporter *Reporter
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(sessions *stores.SessionsStore, charts *charting.Registry, config *Config, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		sessions: sessions,
		charts:   charts,
		config:   config,
		logger:   logger,
		reporter: NewReporter(nil),
	}
}

// WithStatePurger enables expiry of persisted client state older than the
// configured retention.
func (w *Worker) WithStatePurger(state StatePurger) *Worker {
	w.state = state
	return w
}

// Start begins the cleanup worker routine, using the configured interval
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.Session().Info("Session cleanup worker started",
		"interval", w.config.CleanupInterval, "ttl", w.config.SessionTTL, "verbose", w.config.VerboseReporting)

	for {
		select {
		case <-ctx.Done():
			w.logger.Session().Info("Session cleanup worker stopping")
			return
		case <-ticker.C:
			w.PerformCleanup()
			w.PurgeState(ctx)
		}
	}
}

// PerformCleanup runs one eviction pass and returns the number of sessions
// dropped.
func (w *Worker) PerformCleanup() int {
	start := time.Now()

	if w.config.VerboseReporting {
		w.reporter.LogStage("PERIODIC SESSION CLEANUP")
		oldest, has := w.sessions.OldestActivity()
		w.reporter.Print(Snapshot{
			LiveSessions:   w.sessions.Count(),
			LiveCharts:     w.charts.Count(),
			OldestActivity: oldest,
			HasSessions:    has,
		})
	}

	evicted := w.sessions.EvictIdle(w.config.SessionTTL)
	released := 0
	for _, id := range evicted {
		if w.charts.Release(id) {
			released++
		}
	}

	duration := time.Since(start)
	if len(evicted) > 0 {
		w.logger.Session().Info("Session cleanup finished",
			"evicted", len(evicted), "chartsReleased", released, "duration", duration)
		if w.config.VerboseReporting {
			w.reporter.LogSuccess("Session cleanup finished: %d sessions evicted, %d charts released in %v",
				len(evicted), released, duration)
		}
	} else if w.config.VerboseReporting {
		w.reporter.LogInfo("Session cleanup completed - no idle sessions found (%v)", duration)
	}
	return len(evicted)
}

// PurgeState deletes persisted client state past the retention period. It is
// a no-op without a purger or with zero retention.
func (w *Worker) PurgeState(ctx context.Context) int64 {
	if w.state == nil || w.config.StateRetention <= 0 {
		return 0
	}

	removed, err := w.state.PurgeBefore(ctx, time.Now().Add(-w.config.StateRetention))
	if err != nil {
		w.logger.LogError(logging.ChannelStorage, "purge client state", err, "", nil)
		return 0
	}
	if removed > 0 {
		w.logger.Storage().Info("Expired client state purged", "entries", removed, "retention", w.config.StateRetention)
		if w.config.VerboseReporting {
			w.reporter.LogSuccess("Client state purge: %d entries older than %v removed", removed, w.config.StateRetention)
		}
	}
	return removed
}
