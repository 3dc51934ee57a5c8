package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/logic"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/analysis"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
)

// BackendProbe reports on the analysis backend.
type BackendProbe interface {
	BaseURL() string
	Index(ctx context.Context) (*logic.BackendIndex, error)
}

// StatusHandlers serves liveness and backend reachability
type StatusHandlers struct {
	backend BackendProbe
	started time.Time
	logger  *logging.ChanneledLogger
}

// NewStatusHandlers creates status handlers
func NewStatusHandlers(backend BackendProbe, logger *logging.ChanneledLogger) *StatusHandlers {
	return &StatusHandlers{
		backend: backend,
		started: time.Now(),
		logger:  logger,
	}
}

// GetHealth handles GET /health
func (h *StatusHandlers) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// GetBackendStatus handles GET /api/v1/backend/status. An unreachable
// backend is reported in the body; the service itself is fine.
func (h *StatusHandlers) GetBackendStatus(c *gin.Context) {
	start := time.Now()
	index, err := h.backend.Index(c.Request.Context())
	latency := time.Since(start)

	response := gin.H{
		"backendUrl": h.backend.BaseURL(),
		"latencyMs":  latency.Milliseconds(),
	}
	if errors.Is(err, analysis.ErrDecode) {
		// Reachable, just not describing itself
		response["connected"] = true
		c.JSON(http.StatusOK, response)
		return
	}
	if err != nil {
		h.logger.Backend().Warn("Backend status check failed", "error", err, "duration", latency)
		response["connected"] = false
		response["error"] = err.Error()
		c.JSON(http.StatusOK, response)
		return
	}

	response["connected"] = true
	response["message"] = index.Message
	response["endpoints"] = index.Endpoints
	c.JSON(http.StatusOK, response)
}
