// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/logic-explorer/internal/application/container"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/caching/cleanup"
	schema "github.com/AtRiskMedia/logic-explorer/internal/infrastructure/database"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/security"
	"github.com/AtRiskMedia/logic-explorer/internal/presentation/http/server"
	"github.com/AtRiskMedia/logic-explorer/pkg/config"
)

// Initialize performs the complete startup sequence and blocks until shutdown
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("\033[32m" + `
  ██      ▄▄▄▄   ▄▄▄▄  ▄▄  ▄▄▄▄
  ██     ██  ██ ██     ██ ██
  ██     ██  ██ ██ ▄▄▄ ██ ██
  ██▄▄▄▄  ▀▄▄▀   ▀▄▄▀  ██  ▀▄▄▄▀  explorer
` + "\033[97m" + `
  truth tables · karnaugh maps · verilog
` + "\033[0m")

	// Step 1: Channeled logging
	logger, err := logging.NewChanneledLogger(loggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()
	logger.Startup().Info("Channeled logging initialized", "logDirectory", config.LogDirectory, "toFile", config.LogToFile)

	// Step 2: Session signing key
	jwtSecret := config.JWTSecret
	if jwtSecret == "" {
		jwtSecret, err = security.GenerateSecureKey(32)
		if err != nil {
			return fmt.Errorf("failed to generate session key: %w", err)
		}
		logger.Startup().Warn("JWT_SECRET not set - generated an ephemeral key, browsers will get new identities after restart")
	}

	// Step 3: Client storage
	phaseStart := time.Now()
	db, err := database.NewConnectionWithLogger(config.StorageDriver, config.StorageDSN, database.Options{
		MaxOpenConns: config.DBMaxOpenConns,
		MaxIdleConns: config.DBMaxIdleConns,
	}, logger)
	if err != nil {
		logger.LogStartupPhase("storage_connect", time.Since(phaseStart), false, map[string]any{"driver": config.StorageDriver})
		return fmt.Errorf("failed to connect client storage: %w", err)
	}
	defer db.Close()

	if err := schema.NewTableCreator().CreateSchema(db.DB); err != nil {
		logger.LogStartupPhase("storage_schema", time.Since(phaseStart), false, nil)
		return fmt.Errorf("failed to create client storage schema: %w", err)
	}
	logger.LogStartupPhase("storage", time.Since(phaseStart), true, map[string]any{"driver": db.Driver})

	// Step 4: Dependency injection container
	phaseStart = time.Now()
	appContainer, err := container.NewContainer(db, logger, jwtSecret)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	logger.LogStartupPhase("container", time.Since(phaseStart), true, map[string]any{
		"backendUrl": config.BackendURL,
		"presets":    len(appContainer.PresetService.All()),
	})

	// Step 5: Backend reachability, informational only
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := appContainer.Backend.Ping(pingCtx); err != nil {
		logger.Startup().Warn("Analysis backend not reachable at startup - sessions will open in demo mode", "backendUrl", config.BackendURL, "error", err)
	} else {
		logger.Startup().Info("Analysis backend reachable", "backendUrl", config.BackendURL)
	}
	cancelPing()

	// Step 6: Background workers
	go appContainer.ViewBroadcaster.Run(ctx)

	cleanupWorker := cleanup.NewWorker(appContainer.Sessions, appContainer.Charts, cleanup.NewConfig(), logger).
		WithStatePurger(appContainer.ClientState)
	go cleanupWorker.Start(ctx)
	logger.Startup().Info("Background workers started", "cleanupInterval", config.SessionCleanupInterval)

	// Step 7: HTTP server
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	select {
	case <-gracefulShutdown:
		logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	case err := <-serverErr:
		if err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
			cancelBackgroundTasks()
			return err
		}
	}

	shutdownStart := time.Now()

	// Cancel background tasks; this also closes every view socket
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logging.GetBroadcaster().Shutdown()

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart),
		"liveSessions", appContainer.Sessions.Count())

	return nil
}

func loggerConfig() *logging.LoggerConfig {
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = config.LogToFile
	cfg.LogDirectory = config.LogDirectory
	cfg.DefaultLevel = logging.ParseLevel(config.LogLevel)
	return cfg
}

// setupLogging configures gin mode and the standard logger used before the
// channeled logger exists
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
