// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"

	"github.com/AtRiskMedia/logic-explorer/internal/application/services"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/analysis"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/charting"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/metrics"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/persistence/storage"
	"github.com/AtRiskMedia/logic-explorer/pkg/config"
)

// MetricsNamespace prefixes every exported Prometheus metric.
const MetricsNamespace = "logic_explorer"

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services
	ExplorerService *services.ExplorerService
	PresetService   *services.PresetService

	// Infrastructure Dependencies
	Backend         *analysis.Client
	DB              *database.DB
	ClientState     *storage.SQLClientStorageRepository
	Sessions        *stores.SessionsStore
	Charts          *charting.Registry
	ViewBroadcaster *messaging.ViewBroadcaster

	// Observability
	Logger         *logging.ChanneledLogger
	PerfTracker    *performance.Tracker
	Metrics        *metrics.Collector
	LogBroadcaster *logging.LogBroadcaster

	// Session cookie signing key
	JWTSecret string
}

// NewContainer creates and wires all singleton services. The database must
// already be connected with its schema in place.
func NewContainer(db *database.DB, logger *logging.ChanneledLogger, jwtSecret string) (*Container, error) {
	perfTracker := performance.NewTracker(performance.DefaultTrackerConfig())
	collector := metrics.NewCollector(MetricsNamespace)

	presetService, err := services.NewPresetService()
	if err != nil {
		return nil, fmt.Errorf("failed to load presets: %w", err)
	}

	backend := analysis.NewClient(config.BackendURL, config.BackendTimeout, logger, perfTracker, collector)
	clientState := storage.NewSQLClientStorageRepository(db, logger)
	sessions := stores.NewSessionsStore(config.MaxLiveSessions, logger, collector)
	charts := charting.NewRegistry(logger, collector)
	viewBroadcaster := messaging.NewViewBroadcaster(logger, collector)

	explorer := services.NewExplorerService(services.ExplorerDeps{
		Backend:     backend,
		State:       clientState,
		Sessions:    sessions,
		Charts:      charts,
		Publisher:   viewBroadcaster,
		Presets:     presetService,
		Metrics:     collector,
		Logger:      logger,
		PerfTracker: perfTracker,
	})

	return &Container{
		ExplorerService: explorer,
		PresetService:   presetService,

		Backend:         backend,
		DB:              db,
		ClientState:     clientState,
		Sessions:        sessions,
		Charts:          charts,
		ViewBroadcaster: viewBroadcaster,

		Logger:         logger,
		PerfTracker:    perfTracker,
		Metrics:        collector,
		LogBroadcaster: logging.GetBroadcaster(),

		JWTSecret: jwtSecret,
	}, nil
}
