package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/logic-explorer/internal/application/container"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
)

// SysOpHandlers serves operator diagnostics: live logs, log levels and
// in-process activity.
type SysOpHandlers struct {
	container *container.Container
}

// NewSysOpHandlers creates new SysOp handlers
func NewSysOpHandlers(container *container.Container) *SysOpHandlers {
	return &SysOpHandlers{
		container: container,
	}
}

// GetActivity returns live session, chart and socket counts.
func (h *SysOpHandlers) GetActivity(c *gin.Context) {
	sessions := h.container.Sessions
	response := gin.H{
		"sessions": sessions.Count(),
		"charts":   h.container.Charts.Count(),
		"sockets":  h.container.ViewBroadcaster.TotalClients(),
	}
	if oldest, ok := sessions.OldestActivity(); ok {
		response["oldestActivity"] = oldest.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, response)
}

// GetPerformance returns per-operation timing summaries and recent alerts.
func (h *SysOpHandlers) GetPerformance(c *gin.Context) {
	tracker := h.container.PerfTracker
	if tracker == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Performance tracker not available"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"uptime":     tracker.Uptime().Round(time.Second).String(),
		"operations": tracker.Summarize(),
		"alerts":     tracker.GetAlerts(),
	})
}

// StreamLogs handles the SSE connection for live log streaming.
func (h *SysOpHandlers) StreamLogs(c *gin.Context) {
	broadcaster := h.container.LogBroadcaster
	if broadcaster == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Log broadcaster not available"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	level, ok := parseLogLevel(c.DefaultQuery("level", "INFO"))
	if !ok {
		level = slog.LevelInfo
	}
	filters := logging.AppliedFilters{
		Channel: logging.Channel(c.DefaultQuery("channel", "all")),
		Level:   level,
	}

	client := broadcaster.NewClient(filters)
	broadcaster.RegisterClient(client)
	defer broadcaster.UnregisterClient(client)

	fmt.Fprintf(c.Writer, ": connection established\n\n")
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case message, ok := <-client.Channel:
			if !ok {
				return false
			}
			fmt.Fprintf(w, "data: %s\n\n", message)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// GetLogLevels handles GET /api/sysop/logs/levels - returns current log levels for all channels.
func (h *SysOpHandlers) GetLogLevels(c *gin.Context) {
	logger := h.container.Logger
	if logger == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logger not available"})
		return
	}
	c.JSON(http.StatusOK, logger.GetChannelLevels())
}

// SetLogLevel handles POST /api/sysop/logs/levels - sets the log level for a specific channel.
func (h *SysOpHandlers) SetLogLevel(c *gin.Context) {
	logger := h.container.Logger
	if logger == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logger not available"})
		return
	}

	var req struct {
		Channel string `json:"channel" binding:"required"`
		Level   string `json:"level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	level, ok := parseLogLevel(req.Level)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log level specified"})
		return
	}

	if err := logger.SetChannelLevel(logging.Channel(req.Channel), level); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to set log level", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": fmt.Sprintf("Log level for channel '%s' set to '%s'", req.Channel, req.Level)})
}

func parseLogLevel(value string) (slog.Level, bool) {
	switch value {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARN":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
