package cleanup

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/session"
	"github.com/AtRiskMedia/logic-explorer/internal/domain/services"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/charting"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/metrics"
)

func TestWorker_EvictsIdleSessionsAndReleasesCharts(t *testing.T) {
	// Arrange
	logger := logging.NewDiscardLogger()
	collector := metrics.NewCollector("test")
	sessions := stores.NewSessionsStore(0, logger, collector)
	charts := charting.NewRegistry(logger, collector)

	sessions.Put(session.NewSession("idle", session.ThemeLight, session.UsageStats{}))
	chart := charts.Replace("idle", []services.Series{{Label: "A", Points: []services.Point{{X: 0, Y: 1}}}}, session.ThemeLight)
	time.Sleep(5 * time.Millisecond)

	var out bytes.Buffer
	w := NewWorker(sessions, charts, &Config{CleanupInterval: time.Minute, SessionTTL: time.Millisecond, VerboseReporting: true}, logger)
	w.reporter = NewReporter(&out)

	// Act
	evicted := w.PerformCleanup()

	// Assert
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 0, sessions.Count())
	assert.Equal(t, 0, charts.Count())
	assert.True(t, chart.Destroyed())
	assert.Contains(t, out.String(), "PERIODIC SESSION CLEANUP")
	assert.Contains(t, out.String(), "1 sessions evicted, 1 charts released")
}

func TestWorker_KeepsActiveSessions(t *testing.T) {
	logger := logging.NewDiscardLogger()
	sessions := stores.NewSessionsStore(0, logger, nil)
	charts := charting.NewRegistry(logger, nil)
	sessions.Put(session.NewSession("fresh", session.ThemeDark, session.UsageStats{}))

	w := NewWorker(sessions, charts, &Config{CleanupInterval: time.Minute, SessionTTL: time.Hour}, logger)

	assert.Equal(t, 0, w.PerformCleanup())
	assert.Equal(t, 1, sessions.Count())
}

func TestReporter_EmptyReport(t *testing.T) {
	r := NewReporter(&bytes.Buffer{})

	report := r.GenerateReport(Snapshot{})

	assert.Contains(t, report, "NONE")
}

type fakePurger struct {
	cutoffs []time.Time
	removed int64
}

func (f *fakePurger) PurgeBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.removed, nil
}

func TestWorker_PurgeState(t *testing.T) {
	logger := logging.NewDiscardLogger()
	sessions := stores.NewSessionsStore(0, logger, nil)
	charts := charting.NewRegistry(logger, nil)
	purger := &fakePurger{removed: 3}

	// Zero retention keeps everything
	w := NewWorker(sessions, charts, &Config{CleanupInterval: time.Minute}, logger).WithStatePurger(purger)
	assert.Equal(t, int64(0), w.PurgeState(context.Background()))
	assert.Empty(t, purger.cutoffs)

	w = NewWorker(sessions, charts, &Config{CleanupInterval: time.Minute, StateRetention: 24 * time.Hour}, logger).WithStatePurger(purger)
	before := time.Now().Add(-24 * time.Hour)
	assert.Equal(t, int64(3), w.PurgeState(context.Background()))
	if assert.Len(t, purger.cutoffs, 1) {
		assert.WithinDuration(t, before, purger.cutoffs[0], time.Second)
	}
}
