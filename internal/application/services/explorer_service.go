// Package services provides application-level orchestration services
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/logic"
	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/session"
	"github.com/AtRiskMedia/logic-explorer/internal/domain/repositories"
	domainservices "github.com/AtRiskMedia/logic-explorer/internal/domain/services"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/analysis"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/charting"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/metrics"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/performance"
)

// Backend is the analysis service as seen by the explorer.
type Backend interface {
	Ping(ctx context.Context) error
	GenerateTruthTable(ctx context.Context, expression string) (*logic.TruthTablePayload, error)
	GenerateKmap(ctx context.Context, expression string) (*logic.KMapPayload, error)
	GenerateVerilog(ctx context.Context, expression string) (*logic.VerilogPayload, error)
}

// ExplorerService drives every user action of a session: it calls the
// backend, updates the view state, persists counters and theme, manages the
// waveform chart and pushes the new view to open tabs.
type ExplorerService struct {
	backend     Backend
	state       repositories.ClientStateRepository
	sessions    *stores.SessionsStore
	charts      *charting.Registry
	publisher   messaging.ViewPublisher
	presets     *PresetService
	presenter   *domainservices.PresentationService
	metrics     *metrics.Collector
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// ExplorerDeps groups the collaborators of ExplorerService.
type ExplorerDeps struct {
	Backend     Backend
	State       repositories.ClientStateRepository
	Sessions    *stores.SessionsStore
	Charts      *charting.Registry
	Publisher   messaging.ViewPublisher
	Presets     *PresetService
	Metrics     *metrics.Collector
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
}

// NewExplorerService creates a new explorer service
func NewExplorerService(deps ExplorerDeps) *ExplorerService {
	return &ExplorerService{
		backend:     deps.Backend,
		state:       deps.State,
		sessions:    deps.Sessions,
		charts:      deps.Charts,
		publisher:   deps.Publisher,
		presets:     deps.Presets,
		presenter:   domainservices.NewPresentationService(),
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		perfTracker: deps.PerfTracker,
	}
}

// Session returns the live session of a client, starting one from persisted
// state on first use.
func (e *ExplorerService) Session(ctx context.Context, clientID string) (*session.Session, error) {
	if s, ok := e.sessions.Get(clientID); ok {
		return s, nil
	}
	return e.start(ctx, clientID)
}

// Reload discards the in-memory view state of a client and starts over from
// persisted state, as a browser reload does. Theme and counters survive.
func (e *ExplorerService) Reload(ctx context.Context, clientID string) (*session.Session, error) {
	e.drop(clientID)
	return e.start(ctx, clientID)
}

// Forget drops a client's live session and its chart.
func (e *ExplorerService) Forget(clientID string) {
	e.drop(clientID)
}

func (e *ExplorerService) drop(clientID string) {
	e.sessions.Delete(clientID)
	e.charts.Release(clientID)
	if e.publisher != nil {
		e.publisher.Disconnect(clientID)
	}
}

func (e *ExplorerService) start(ctx context.Context, clientID string) (*session.Session, error) {
	marker := e.perfTracker.StartOperation("session:start", clientID)
	defer marker.Complete()

	values, err := e.state.LoadAll(ctx, clientID)
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to load client state: %w", err)
	}

	theme := session.ParseTheme(values[repositories.KeyTheme])
	stats, err := session.DecodeUsageStats(values[repositories.KeyLearningStats])
	if err != nil {
		e.logger.WithSession(logging.ChannelSession, clientID).Warn("Stored usage counters unreadable, starting from zero", "error", err)
		stats = session.UsageStats{}
	}

	s := session.NewSession(clientID, theme, stats)
	e.probe(withSession(ctx, clientID), s)

	if existing, ok := e.sessions.Get(clientID); ok {
		return existing, nil
	}
	for _, evicted := range e.sessions.Put(s) {
		e.charts.Release(evicted)
		if e.publisher != nil {
			e.publisher.Disconnect(evicted)
		}
	}

	e.logger.WithSession(logging.ChannelSession, clientID).Info("Session started",
		"theme", theme, "connected", s.Connected(), "expressionsTested", stats.ExpressionsTested)
	return s, nil
}

// probe checks backend reachability once per session. A failure only
// changes the banner; actions stay enabled.
func (e *ExplorerService) probe(ctx context.Context, s *session.Session) {
	if err := e.backend.Ping(ctx); err != nil {
		e.logger.WithSession(logging.ChannelBackend, s.ID).Warn("Backend not reachable", "error", err)
		s.SetConnected(false, StatusBackendDisconnected)
		return
	}
	s.SetConnected(true, StatusBackendConnected)
}

// GenerateTruthTable runs the primary analyze action.
func (e *ExplorerService) GenerateTruthTable(ctx context.Context, s *session.Session, input string) session.View {
	return e.run(ctx, s, input, action{
		kind:    ActionTruthTable,
		prompt:  PromptAnalyze,
		working: StatusTruthTableWorking,
		exec: func(ctx context.Context, expression string) (func() string, error) {
			payload, err := e.backend.GenerateTruthTable(ctx, expression)
			result := resultOf(payload, err, FallbackTruthTable)
			p, ok := result.Value()
			if !ok {
				return nil, failure(result)
			}
			return func() string {
				stats := s.RecordTruthTable(len(p.Variables))
				e.saveStats(ctx, s.ID, stats)
				s.ShowTruthTable(p)
				return fmt.Sprintf(StatusTruthTableDoneFormat, len(p.Variables), len(p.Rows))
			}, nil
		},
	})
}

// Submit is the Enter key in the expression input.
func (e *ExplorerService) Submit(ctx context.Context, s *session.Session, input string) session.View {
	return e.GenerateTruthTable(ctx, s, input)
}

// GenerateKmap runs the Karnaugh map action. It changes no counter.
func (e *ExplorerService) GenerateKmap(ctx context.Context, s *session.Session, input string) session.View {
	return e.run(ctx, s, input, action{
		kind:    ActionKMap,
		prompt:  PromptVisualize,
		working: StatusKMapWorking,
		exec: func(ctx context.Context, expression string) (func() string, error) {
			payload, err := e.backend.GenerateKmap(ctx, expression)
			result := resultOf(payload, err, FallbackKMap)
			p, ok := result.Value()
			if !ok {
				return nil, failure(result)
			}
			return func() string {
				s.ShowKMap(p)
				return StatusKMapDone
			}, nil
		},
	})
}

// GenerateVerilog runs the code generation and simulation action.
func (e *ExplorerService) GenerateVerilog(ctx context.Context, s *session.Session, input string) session.View {
	return e.run(ctx, s, input, action{
		kind:    ActionVerilog,
		prompt:  PromptSimulate,
		working: StatusVerilogWorking,
		exec: func(ctx context.Context, expression string) (func() string, error) {
			payload, err := e.backend.GenerateVerilog(ctx, expression)
			result := resultOf(payload, err, FallbackVerilog)
			p, ok := result.Value()
			if !ok {
				return nil, failure(result)
			}
			return func() string {
				stats := s.RecordSimulation()
				e.saveStats(ctx, s.ID, stats)
				s.ShowVerilog(p)
				e.renderWaveform(s, p.Waveforms)
				return StatusVerilogDone
			}, nil
		},
	})
}

// renderWaveform replaces the session's chart, or releases it when no
// signal can be drawn.
func (e *ExplorerService) renderWaveform(s *session.Session, waveforms logic.Waveforms) {
	series := e.presenter.WaveformSeries(waveforms)
	if len(series) == 0 {
		e.charts.Release(s.ID)
		s.SetChartID("")
		return
	}
	chart := e.charts.Replace(s.ID, series, s.Theme())
	s.SetChartID(chart.ID)
}

// Reset clears the input, results and error banner and destroys the chart.
func (e *ExplorerService) Reset(ctx context.Context, s *session.Session) session.View {
	marker := e.perfTracker.StartOperation("action:"+ActionReset, s.ID)
	defer marker.Complete()

	s.Reset(StatusReady)
	e.charts.Release(s.ID)
	e.metrics.CountAction(ActionReset, metrics.OutcomeSuccess)
	e.logger.WithSession(logging.ChannelSession, s.ID).Debug("Session reset")
	return e.publish(s)
}

// ToggleTheme flips and persists the theme and recolours the live chart.
func (e *ExplorerService) ToggleTheme(ctx context.Context, s *session.Session) session.View {
	marker := e.perfTracker.StartOperation("action:"+ActionTheme, s.ID)
	defer marker.Complete()

	theme := s.ToggleTheme()
	if err := e.state.Set(ctx, s.ID, repositories.KeyTheme, string(theme)); err != nil {
		e.logger.LogError(logging.ChannelStorage, "save theme", err, s.ID, nil)
	}
	e.charts.ApplyTheme(s.ID, theme)
	e.metrics.CountAction(ActionTheme, metrics.OutcomeSuccess)
	return e.publish(s)
}

// ApplyPreset fills the input with a preset expression.
func (e *ExplorerService) ApplyPreset(ctx context.Context, s *session.Session, presetID string) (session.View, error) {
	preset, err := e.presets.Get(presetID)
	if err != nil {
		e.metrics.CountAction(ActionPreset, metrics.OutcomeInvalid)
		return s.Snapshot(), err
	}
	s.SetExpression(preset.Expression)
	s.SetStatus(StatusPresetReady)
	e.metrics.CountAction(ActionPreset, metrics.OutcomeSuccess)
	return e.publish(s), nil
}

// Presets returns the preset catalogue.
func (e *ExplorerService) Presets() []Preset {
	return e.presets.All()
}

// Presenter exposes the rendering helpers shared with templates.
func (e *ExplorerService) Presenter() *domainservices.PresentationService {
	return e.presenter
}

// Chart returns the session's live chart.
func (e *ExplorerService) Chart(s *session.Session) (*charting.Chart, bool) {
	return e.charts.Get(s.ID)
}

type action struct {
	kind    string
	prompt  string
	working string
	// exec calls the backend. On success it returns the step that applies
	// the payload to the session and yields the completion status.
	exec func(ctx context.Context, expression string) (func() string, error)
}

func (e *ExplorerService) run(ctx context.Context, s *session.Session, input string, a action) (view session.View) {
	s.SetExpression(input)
	expression := strings.TrimSpace(input)
	if expression == "" {
		s.ShowError(a.prompt)
		e.metrics.CountAction(a.kind, metrics.OutcomeInvalid)
		return e.publish(s)
	}

	ctx = withSession(ctx, s.ID)
	marker := e.perfTracker.StartOperation("action:"+a.kind, s.ID)
	defer marker.Complete()

	s.BeginAction(a.working)
	e.publish(s)
	defer func() {
		s.EndAction()
		view = e.publish(s)
	}()

	apply, err := a.exec(ctx, expression)
	if err != nil {
		s.ShowError(err.Error())
		marker.SetError(err)
		e.metrics.CountAction(a.kind, metrics.OutcomeFailure)
		e.logger.WithSession(logging.ChannelSession, s.ID).Warn("Action failed",
			"action", a.kind, "expression", expression, "error", err)
		return view
	}

	s.SetStatus(apply())
	e.metrics.CountAction(a.kind, metrics.OutcomeSuccess)
	return view
}

func (e *ExplorerService) saveStats(ctx context.Context, clientID string, stats session.UsageStats) {
	encoded, err := stats.Encode()
	if err != nil {
		e.logger.LogError(logging.ChannelStorage, "encode usage stats", err, clientID, nil)
		return
	}
	if err := e.state.Set(ctx, clientID, repositories.KeyLearningStats, encoded); err != nil {
		e.logger.LogError(logging.ChannelStorage, "save usage stats", err, clientID, nil)
	}
}

func (e *ExplorerService) publish(s *session.Session) session.View {
	view := s.Snapshot()
	if e.publisher != nil {
		e.publisher.Publish(s.ID, view)
	}
	return view
}

// resultOf folds a client call into a Result. Failures carry the single
// line the error banner shows.
func resultOf[T any](payload *T, err error, fallback string) logic.Result[*T] {
	if err != nil {
		return logic.Failed[*T](analysis.UserMessage(err, fallback))
	}
	if payload == nil {
		return logic.Failed[*T](fallback)
	}
	return logic.Ok(payload)
}

type actionError struct {
	message string
}

func (e *actionError) Error() string { return e.message }

func failure[T any](r logic.Result[T]) error {
	return &actionError{message: r.Message()}
}

func withSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, logging.SessionIDKey, sessionID)
}
