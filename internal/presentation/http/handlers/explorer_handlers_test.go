package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/logic-explorer/internal/application/services"
	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/session"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/analysis"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/charting"
	schema "github.com/AtRiskMedia/logic-explorer/internal/infrastructure/database"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/metrics"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/persistence/storage"
	"github.com/AtRiskMedia/logic-explorer/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/logic-explorer/internal/presentation/templates"
)

const (
	testSecret     = "test-secret"
	testCookieName = "lx_test"
)

const andTableResponse = `{"success":true,"expression":"A&B","variables":["A","B"],"num_variables":2,
	"truth_table":[{"A":0,"B":0,"output":false},{"A":0,"B":1,"output":false},
	{"A":1,"B":0,"output":false},{"A":1,"B":1,"output":true}]}`

const verilogResponse = `{"success":true,"verilog_code":"module f(input A, output Y);","simulation_output":"sim ok",
	"waveform_data":{"A":{"name":"A","times":[0,5,10],"values":[0,1,0]},"Y":{"name":"Y","times":[0,5,10],"values":[1,0,1]}}}`

func fakeBackend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Expression string `json:"expression"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	switch r.URL.Path {
	case analysis.EndpointIndex:
		_, _ = w.Write([]byte(`{"message":"Logic API","endpoints":{"truth_table":"/generate_truth_table"}}`))
	case analysis.EndpointTruthTable:
		if req.Expression == "A &&" {
			_, _ = w.Write([]byte(`{"success":false,"error":"Invalid expression syntax"}`))
			return
		}
		_, _ = w.Write([]byte(andTableResponse))
	case analysis.EndpointKMap:
		_, _ = w.Write([]byte(`{"success":true,"variables":["A","B"],"kmap":{"row_var":"A","col_var":"B",
			"rows":["0","1"],"cols":["0","1"],"grid":[[false,false],[false,true]]},"simplified_expression":"A & B"}`))
	case analysis.EndpointVerilog:
		_, _ = w.Write([]byte(verilogResponse))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type testEnv struct {
	router   *gin.Engine
	explorer *services.ExplorerService
	cookie   *http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backendServer := httptest.NewServer(http.HandlerFunc(fakeBackend))
	t.Cleanup(backendServer.Close)

	logger := logging.NewDiscardLogger()
	tracker := performance.NewTracker(nil)
	collector := metrics.NewCollector("test")

	db, err := database.NewConnectionWithLogger(database.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "handlers.db"), database.Options{}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, schema.NewTableCreator().CreateSchema(db.DB))

	presets, err := services.NewPresetService()
	require.NoError(t, err)

	explorer := services.NewExplorerService(services.ExplorerDeps{
		Backend:     analysis.NewClient(backendServer.URL, 0, logger, tracker, collector),
		State:       storage.NewSQLClientStorageRepository(db, logger),
		Sessions:    stores.NewSessionsStore(0, logger, collector),
		Charts:      charting.NewRegistry(logger, collector),
		Publisher:   messaging.NewViewBroadcaster(logger, collector),
		Presets:     presets,
		Metrics:     collector,
		Logger:      logger,
		PerfTracker: tracker,
	})

	renderer := templates.NewRenderer(explorer.Presenter(), logger, tracker)
	h := NewExplorerHandlers(explorer, renderer, logger, tracker)
	status := NewStatusHandlers(analysis.NewClient(backendServer.URL, 0, logger, tracker, collector), logger)

	r := gin.New()
	clientSession := middleware.ClientSessionMiddleware(middleware.SessionConfig{
		CookieName: testCookieName,
		Secret:     testSecret,
		TTL:        time.Hour,
	}, logger)
	r.GET("/", clientSession, h.GetPage)
	r.GET("/health", status.GetHealth)
	r.GET("/api/v1/backend/status", status.GetBackendStatus)
	api := r.Group("/api/v1/explorer", clientSession)
	api.POST("/truth-table", h.PostTruthTable)
	api.POST("/submit", h.PostSubmit)
	api.POST("/kmap", h.PostKmap)
	api.POST("/verilog", h.PostVerilog)
	api.POST("/reset", h.PostReset)
	api.POST("/theme", h.PostTheme)
	api.POST("/preset/:id", h.PostPreset)
	api.GET("/presets", h.GetPresets)
	api.GET("/view", h.GetView)
	api.GET("/stats", h.GetStats)
	api.GET("/chart", h.GetChart)
	api.GET("/chart/image", h.GetChartImage)

	env := &testEnv{router: r, explorer: explorer}

	// Establish the client identity the way a first page load does
	rec := env.do(http.MethodGet, "/", "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			env.cookie = c
		}
	}
	require.NotNil(t, env.cookie, "first request must issue a session cookie")
	return env
}

func (e *testEnv) do(method, path, body, contentType, accept string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) postForm(path, expression string, accept string) *httptest.ResponseRecorder {
	form := url.Values{"expression": {expression}}.Encode()
	return e.do(http.MethodPost, path, form, "application/x-www-form-urlencoded", accept)
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) session.View {
	t.Helper()
	var view session.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func TestGetPage_RendersConnectedSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/", "", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, services.StatusBackendConnected)
	assert.Contains(t, body, `data-preset="majority"`)
	assert.Contains(t, body, `<div id="results" class="hidden">`)
}

func TestPostTruthTable_HTMLAndJSON(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm("/api/v1/explorer/truth-table", "A & B", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2 Variables, 4 Combinations")
	assert.Contains(t, rec.Body.String(), "Analyzed 2 variables with 4 combinations")

	rec = env.do(http.MethodPost, "/api/v1/explorer/truth-table", `{"expression":"A & B"}`, "application/json", "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec)
	assert.Equal(t, session.SectionTruthTable, view.Section)
	assert.True(t, view.ResultsVisible)
	assert.False(t, view.Loading)
	assert.Equal(t, 2, view.Stats.ExpressionsTested)
	assert.Equal(t, 4, view.Stats.GatesAnalyzed)
}

func TestPostSubmit_EqualsTruthTable(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm("/api/v1/explorer/submit", "A & B", "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec)
	assert.Equal(t, session.SectionTruthTable, view.Section)
	assert.Equal(t, 1, view.Stats.ExpressionsTested)
}

func TestPostTruthTable_BackendErrorShownVerbatim(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm("/api/v1/explorer/truth-table", "A &&", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<span id="errorText">Invalid expression syntax</span>`)
	assert.Contains(t, body, `<div id="results" class="hidden">`)
	assert.NotContains(t, body, "truthTableResults")
}

func TestPostAction_EmptyExpressionPrompts(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/explorer/kmap", "", "", "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec)
	assert.True(t, view.Error.Visible)
	assert.Equal(t, services.PromptVisualize, view.Error.Message)
}

func TestPostAction_MalformedJSON(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/explorer/truth-table", `{"expression":`, "application/json", "application/json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestCountersSurviveReload(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusOK, env.postForm("/api/v1/explorer/truth-table", "A & B", "").Code)
	require.Equal(t, http.StatusOK, env.postForm("/api/v1/explorer/verilog", "A & B", "").Code)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/v1/explorer/theme", "", "", "").Code)

	// Reload
	rec := env.do(http.MethodGet, "/", "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<html lang="en" class="dark">`)

	rec = env.do(http.MethodGet, "/api/v1/explorer/stats", "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats session.UsageStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, session.UsageStats{ExpressionsTested: 1, GatesAnalyzed: 2, SimulationsRun: 1}, stats)

	rec = env.do(http.MethodGet, "/api/v1/explorer/view", "", "", "")
	view := decodeView(t, rec)
	assert.False(t, view.ResultsVisible)
	assert.Empty(t, view.ChartID)
}

func TestChartLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/explorer/chart", "", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.postForm("/api/v1/explorer/verilog", "A", "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec)
	require.NotEmpty(t, view.ChartID)

	rec = env.do(http.MethodGet, "/api/v1/explorer/chart", "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var chart ChartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chart))
	assert.Equal(t, view.ChartID, chart.ID)
	assert.Equal(t, view.ChartID, rec.Header().Get("X-Chart-ID"))
	require.Len(t, chart.Config.Data.Datasets, 2)
	assert.Equal(t, charting.PaletteFor(session.ThemeLight).Legend, chart.Config.Options.Plugins.Legend.Labels.Color)

	rec = env.do(http.MethodGet, "/api/v1/explorer/chart/image?format=png&width=300", "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())

	rec = env.do(http.MethodGet, "/api/v1/explorer/chart/image?format=gif", "", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Theme toggle recolours the same chart
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/v1/explorer/theme", "", "", "").Code)
	rec = env.do(http.MethodGet, "/api/v1/explorer/chart", "", "", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chart))
	assert.Equal(t, view.ChartID, chart.ID)
	assert.Equal(t, session.ThemeDark, chart.Theme)
	assert.Equal(t, charting.PaletteFor(session.ThemeDark).Legend, chart.Config.Options.Plugins.Legend.Labels.Color)

	// Reset releases it
	rec = env.do(http.MethodPost, "/api/v1/explorer/reset", "", "", "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeView(t, rec).Expression)
	rec = env.do(http.MethodGet, "/api/v1/explorer/chart", "", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostKmap_RendersGrid(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm("/api/v1/explorer/kmap", "A & B", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 4, strings.Count(body, "data-cell>"))
	assert.Contains(t, body, "A · B")
}

func TestPostPreset(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/explorer/preset/xor", "", "", "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec)
	assert.NotEmpty(t, view.Expression)
	assert.Equal(t, services.StatusPresetReady, view.Status.Message)

	rec = env.do(http.MethodPost, "/api/v1/explorer/preset/nope", "", "", "application/json")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/explorer/presets", "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"majority"`)
}

func TestGetView_RenderHTML(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusOK, env.postForm("/api/v1/explorer/truth-table", "A & B", "").Code)

	rec := env.do(http.MethodGet, "/api/v1/explorer/view?render=html", "", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="explorerRegion"`)
	assert.Contains(t, rec.Body.String(), "truthTableResults")
}

func TestSessionCookie_InvalidIsReplaced(t *testing.T) {
	env := newTestEnv(t)
	env.cookie = &http.Cookie{Name: testCookieName, Value: "not-a-token"}

	rec := env.do(http.MethodGet, "/api/v1/explorer/stats", "", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var fresh *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			fresh = c
		}
	}
	require.NotNil(t, fresh)
	assert.True(t, fresh.HttpOnly)
	assert.Contains(t, rec.Body.String(), `"expressionsTested":0`)
}

func TestStatusHandlers(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/health", "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = env.do(http.MethodGet, "/api/v1/backend/status", "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, true, status["connected"])
	assert.Equal(t, "Logic API", status["message"])
}
