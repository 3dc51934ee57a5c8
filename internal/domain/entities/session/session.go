// Package session provides domain entities for per-browser explorer state.
// It defines the view state a session renders, the persisted theme and the
// usage counters that survive a reload.
package session

import (
	"sync"
	"time"

	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/logic"
)

// Theme is the page colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps a stored preference to a Theme. Anything but "dark" is light.
func ParseTheme(value string) Theme {
	if Theme(value) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Section names one result panel.
type Section string

const (
	SectionNone       Section = ""
	SectionTruthTable Section = "truthTable"
	SectionKMap       Section = "kmap"
	SectionVerilog    Section = "verilog"
)

// Banner is a message strip that may be hidden.
type Banner struct {
	Visible bool   `json:"visible"`
	Message string `json:"message"`
}

// Session holds the view state of one browser. All fields are guarded by mu;
// concurrent actions interleave but never corrupt state, and the last one
// to finish decides what is shown.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu           sync.RWMutex
	lastActivity time.Time
	connected    bool
	theme        Theme
	expression   string
	section      Section
	errorBanner  Banner
	status       Banner
	loading      bool
	stats        UsageStats
	truthTable   *logic.TruthTablePayload
	kmap         *logic.KMapPayload
	verilog      *logic.VerilogPayload
	chartID      string
}

// NewSession creates a session seeded with the persisted theme and counters.
func NewSession(id string, theme Theme, stats UsageStats) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		CreatedAt:    now,
		lastActivity: now,
		theme:        theme,
		stats:        stats,
	}
}

// Touch records activity for idle eviction.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now()
}

// LastActivity returns the time of the most recent request.
func (s *Session) LastActivity() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActivity
}

// SetConnected records the reachability probe result and its status message.
func (s *Session) SetConnected(connected bool, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = connected
	s.status = Banner{Visible: true, Message: message}
}

// Connected reports the last reachability probe result.
func (s *Session) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// SetExpression replaces the input field value.
func (s *Session) SetExpression(expression string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expression = expression
}

// Expression returns the input field value.
func (s *Session) Expression() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expression
}

// Theme returns the active theme.
func (s *Session) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// ToggleTheme flips the theme and returns the new value.
func (s *Session) ToggleTheme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = s.theme.Toggle()
	return s.theme
}

// BeginAction enters the loading state for a request: results and the
// error banner are hidden and the status shows the progress message.
func (s *Session) BeginAction(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.section = SectionNone
	s.errorBanner = Banner{}
	s.status = Banner{Visible: true, Message: status}
}

// EndAction leaves the loading state.
func (s *Session) EndAction() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}

// Loading reports whether a request is in flight.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// ShowError displays the error banner. Result visibility is left to the caller.
func (s *Session) ShowError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorBanner = Banner{Visible: true, Message: message}
}

// SetStatus shows the status banner with a message.
func (s *Session) SetStatus(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = Banner{Visible: true, Message: message}
}

// ShowTruthTable stores the payload and makes its panel the visible one.
func (s *Session) ShowTruthTable(payload *logic.TruthTablePayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.truthTable = payload
	s.section = SectionTruthTable
}

// ShowKMap stores the payload and makes its panel the visible one.
func (s *Session) ShowKMap(payload *logic.KMapPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kmap = payload
	s.section = SectionKMap
}

// ShowVerilog stores the payload and makes its panel the visible one.
func (s *Session) ShowVerilog(payload *logic.VerilogPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verilog = payload
	s.section = SectionVerilog
}

// Reset clears the input, results and error banner and sets the status.
// The chart reference is cleared too; releasing it is the caller's job.
func (s *Session) Reset(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expression = ""
	s.section = SectionNone
	s.errorBanner = Banner{}
	s.truthTable = nil
	s.kmap = nil
	s.verilog = nil
	s.chartID = ""
	s.status = Banner{Visible: true, Message: status}
}

// RecordTruthTable counts one analysed expression and its variables.
func (s *Session) RecordTruthTable(variables int) UsageStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.ExpressionsTested++
	if variables > 0 {
		s.stats.GatesAnalyzed += variables
	}
	return s.stats
}

// RecordSimulation counts one simulation run.
func (s *Session) RecordSimulation() UsageStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.SimulationsRun++
	return s.stats
}

// Stats returns the current counters.
func (s *Session) Stats() UsageStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// SetChartID records the live chart handle, empty when none.
func (s *Session) SetChartID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chartID = id
}

// ChartID returns the live chart handle.
func (s *Session) ChartID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chartID
}

// Snapshot returns a consistent copy of the view state. Only the payload of
// the visible panel is included.
func (s *Session) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	view := View{
		SessionID:      s.ID,
		Connected:      s.connected,
		Theme:          s.theme,
		Expression:     s.expression,
		ResultsVisible: s.section != SectionNone,
		Section:        s.section,
		Error:          s.errorBanner,
		Status:         s.status,
		Loading:        s.loading,
		Stats:          s.stats,
		ChartID:        s.chartID,
	}
	switch s.section {
	case SectionTruthTable:
		view.TruthTable = s.truthTable
	case SectionKMap:
		view.KMap = s.kmap
	case SectionVerilog:
		view.Verilog = s.verilog
	}
	return view
}
