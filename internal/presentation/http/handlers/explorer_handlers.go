// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/logic-explorer/internal/application/services"
	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/session"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/charting"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/logic-explorer/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/logic-explorer/internal/presentation/templates"
	"github.com/AtRiskMedia/logic-explorer/pkg/config"
)

const htmlContentType = "text/html; charset=utf-8"

// ActionRequest carries the expression of an explorer action, either as a
// form field or a JSON body.
type ActionRequest struct {
	Expression string `json:"expression" form:"expression"`
}

// ChartResponse is the live chart of a session as sent to the page script.
type ChartResponse struct {
	ID     string          `json:"id"`
	Theme  session.Theme   `json:"theme"`
	Config charting.Config `json:"config"`
}

// ExplorerHandlers contains all explorer page and action handlers
type ExplorerHandlers struct {
	explorer    *services.ExplorerService
	renderer    *templates.Renderer
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewExplorerHandlers creates explorer handlers with injected dependencies
func NewExplorerHandlers(explorer *services.ExplorerService, renderer *templates.Renderer, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ExplorerHandlers {
	return &ExplorerHandlers{
		explorer:    explorer,
		renderer:    renderer,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetPage handles GET / - a page load starts the view over from persisted
// theme and counters, like a browser reload.
func (h *ExplorerHandlers) GetPage(c *gin.Context) {
	clientID, ok := middleware.GetClientID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "client session not found"})
		return
	}

	marker := h.perfTracker.StartOperation("get_page_request", clientID)
	defer marker.Complete()

	s, err := h.explorer.Reload(c.Request.Context(), clientID)
	if err != nil {
		marker.SetError(err)
		h.logger.LogError(logging.ChannelSession, "load page", err, clientID, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return
	}

	html, err := h.renderer.Page(s.Snapshot(), h.presetLinks())
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render page"})
		return
	}
	c.Data(http.StatusOK, htmlContentType, []byte(html))
}

// PostTruthTable handles POST /api/v1/explorer/truth-table
func (h *ExplorerHandlers) PostTruthTable(c *gin.Context) {
	h.handleAction(c, services.ActionTruthTable, h.explorer.GenerateTruthTable)
}

// PostSubmit handles POST /api/v1/explorer/submit - Enter in the input
func (h *ExplorerHandlers) PostSubmit(c *gin.Context) {
	h.handleAction(c, services.ActionTruthTable, h.explorer.Submit)
}

// PostKmap handles POST /api/v1/explorer/kmap
func (h *ExplorerHandlers) PostKmap(c *gin.Context) {
	h.handleAction(c, services.ActionKMap, h.explorer.GenerateKmap)
}

// PostVerilog handles POST /api/v1/explorer/verilog
func (h *ExplorerHandlers) PostVerilog(c *gin.Context) {
	h.handleAction(c, services.ActionVerilog, h.explorer.GenerateVerilog)
}

// PostReset handles POST /api/v1/explorer/reset
func (h *ExplorerHandlers) PostReset(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.respond(c, h.explorer.Reset(c.Request.Context(), s))
}

// PostTheme handles POST /api/v1/explorer/theme
func (h *ExplorerHandlers) PostTheme(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.respond(c, h.explorer.ToggleTheme(c.Request.Context(), s))
}

// PostPreset handles POST /api/v1/explorer/preset/:id
func (h *ExplorerHandlers) PostPreset(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	view, err := h.explorer.ApplyPreset(c.Request.Context(), s, c.Param("id"))
	if errors.Is(err, services.ErrPresetNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.respond(c, view)
}

// GetView handles GET /api/v1/explorer/view - the current view model, or
// the rendered result region with ?render=html.
func (h *ExplorerHandlers) GetView(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	view := s.Snapshot()
	if c.Query("render") == "html" {
		h.writeRegion(c, view)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetStats handles GET /api/v1/explorer/stats
func (h *ExplorerHandlers) GetStats(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Stats())
}

// GetPresets handles GET /api/v1/explorer/presets
func (h *ExplorerHandlers) GetPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": h.explorer.Presets()})
}

// GetChart handles GET /api/v1/explorer/chart - the live chart configuration
func (h *ExplorerHandlers) GetChart(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	chart, found := h.explorer.Chart(s)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no waveform chart"})
		return
	}

	c.Header("X-Chart-ID", chart.ID)
	c.JSON(http.StatusOK, ChartResponse{
		ID:     chart.ID,
		Theme:  chart.Theme(),
		Config: chart.Config(),
	})
}

// GetChartImage handles GET /api/v1/explorer/chart/image?format=png|webp&width=
func (h *ExplorerHandlers) GetChartImage(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	format, err := charting.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	width, _ := strconv.Atoi(c.Query("width"))
	width = charting.ClampWidth(width, config.ChartDefaultWidth, config.ChartMaxWidth)

	chart, found := h.explorer.Chart(s)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no waveform chart"})
		return
	}

	marker := h.perfTracker.StartOperation("render:chart_image", s.ID)
	defer marker.Complete()
	start := time.Now()

	data, err := chart.Render(format, width)
	if errors.Is(err, charting.ErrChartDestroyed) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no waveform chart"})
		return
	}
	if err != nil {
		marker.SetError(err)
		h.logger.LogError(logging.ChannelChart, "render chart image", err, s.ID, map[string]any{"format": format, "width": width})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render chart"})
		return
	}

	h.logger.WithSession(logging.ChannelChart, s.ID).Debug("Chart image rendered",
		"format", format, "width", width, "bytes", len(data), "duration", time.Since(start))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, format.ContentType(), data)
}

type actionFunc func(ctx context.Context, s *session.Session, input string) session.View

func (h *ExplorerHandlers) handleAction(c *gin.Context, kind string, run actionFunc) {
	var req ActionRequest
	if err := bindAction(c, &req); err != nil {
		h.logger.Session().Debug("Malformed action request", "action", kind, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s, ok := h.session(c)
	if !ok {
		return
	}

	h.logger.WithSession(logging.ChannelSession, s.ID).Debug("Received explorer action",
		"action", kind, "method", c.Request.Method, "path", c.Request.URL.Path)
	h.respond(c, run(c.Request.Context(), s, req.Expression))
}

// bindAction accepts an empty body as an empty expression.
func bindAction(c *gin.Context, req *ActionRequest) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBind(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *ExplorerHandlers) session(c *gin.Context) (*session.Session, bool) {
	clientID, ok := middleware.GetClientID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "client session not found"})
		return nil, false
	}

	s, err := h.explorer.Session(c.Request.Context(), clientID)
	if err != nil {
		h.logger.LogError(logging.ChannelSession, "load session", err, clientID, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return nil, false
	}
	return s, true
}

// respond sends the view model as JSON when asked for, otherwise the
// rendered result region. Action failures are part of the view.
func (h *ExplorerHandlers) respond(c *gin.Context, view session.View) {
	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(http.StatusOK, view)
		return
	}
	h.writeRegion(c, view)
}

func (h *ExplorerHandlers) writeRegion(c *gin.Context, view session.View) {
	html, err := h.renderer.Region(view)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render view"})
		return
	}
	c.Data(http.StatusOK, htmlContentType, []byte(html))
}

func (h *ExplorerHandlers) presetLinks() []templates.PresetLink {
	presets := h.explorer.Presets()
	links := make([]templates.PresetLink, 0, len(presets))
	for _, p := range presets {
		links = append(links, templates.PresetLink{ID: p.ID, Label: p.Label, Expression: p.Expression})
	}
	return links
}
