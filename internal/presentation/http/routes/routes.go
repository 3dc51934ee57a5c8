// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/logic-explorer/internal/application/container"
	"github.com/AtRiskMedia/logic-explorer/internal/presentation/http/handlers"
	"github.com/AtRiskMedia/logic-explorer/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/logic-explorer/internal/presentation/templates"
	"github.com/AtRiskMedia/logic-explorer/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware(config.CORSOrigins))

	// Initialize handlers
	renderer := templates.NewRenderer(container.ExplorerService.Presenter(), container.Logger, container.PerfTracker)
	explorerHandlers := handlers.NewExplorerHandlers(container.ExplorerService, renderer, container.Logger, container.PerfTracker)
	liveHandlers := handlers.NewLiveHandlers(container.ViewBroadcaster, handlers.LiveConfig{
		WriteTimeout:   config.WSWriteTimeout,
		PingInterval:   config.WSPingInterval,
		SendBufferSize: config.WSSendBufferSize,
		AllowedOrigins: config.CORSOrigins,
	}, container.Logger)
	statusHandlers := handlers.NewStatusHandlers(container.Backend, container.Logger)
	sysopHandlers := handlers.NewSysOpHandlers(container)

	clientSession := middleware.ClientSessionMiddleware(middleware.SessionConfig{
		CookieName: config.SessionCookieName,
		Secret:     container.JWTSecret,
		TTL:        config.SessionTokenTTL,
	}, container.Logger)

	r.GET("/health", statusHandlers.GetHealth)
	r.GET("/metrics", gin.WrapH(container.Metrics.Handler()))
	r.GET("/", clientSession, explorerHandlers.GetPage)

	explorerAPI := r.Group("/api/v1/explorer")
	explorerAPI.Use(clientSession)
	{
		explorerAPI.POST("/truth-table", explorerHandlers.PostTruthTable)
		explorerAPI.POST("/kmap", explorerHandlers.PostKmap)
		explorerAPI.POST("/verilog", explorerHandlers.PostVerilog)
		explorerAPI.POST("/submit", explorerHandlers.PostSubmit)
		explorerAPI.POST("/reset", explorerHandlers.PostReset)
		explorerAPI.POST("/theme", explorerHandlers.PostTheme)
		explorerAPI.POST("/preset/:id", explorerHandlers.PostPreset)

		explorerAPI.GET("/presets", explorerHandlers.GetPresets)
		explorerAPI.GET("/view", explorerHandlers.GetView)
		explorerAPI.GET("/stats", explorerHandlers.GetStats)
		explorerAPI.GET("/chart", explorerHandlers.GetChart)
		explorerAPI.GET("/chart/image", explorerHandlers.GetChartImage)
		explorerAPI.GET("/ws", liveHandlers.ViewSocket)
	}

	r.GET("/api/v1/backend/status", statusHandlers.GetBackendStatus)

	sysopAuth := middleware.SysOpAuthMiddleware(config.SysOpPasswordHash)
	sysopAPI := r.Group("/api/sysop")
	sysopAPI.Use(sysopAuth)
	{
		sysopAPI.GET("/activity", sysopHandlers.GetActivity)
		sysopAPI.GET("/performance", sysopHandlers.GetPerformance)
		sysopAPI.GET("/logs/levels", sysopHandlers.GetLogLevels)
		sysopAPI.POST("/logs/levels", sysopHandlers.SetLogLevel)
	}

	// Log streaming stays at top level for EventSource clients
	r.GET("/sysop-logs/stream", sysopAuth, sysopHandlers.StreamLogs)

	return r
}
