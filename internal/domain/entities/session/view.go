package session

import "github.com/AtRiskMedia/logic-explorer/internal/domain/entities/logic"

// View is an immutable copy of a session's view state, used for rendering
// and for the JSON view model.
type View struct {
	SessionID      string                   `json:"sessionId"`
	Connected      bool                     `json:"connected"`
	Theme          Theme                    `json:"theme"`
	Expression     string                   `json:"expression"`
	ResultsVisible bool                     `json:"resultsVisible"`
	Section        Section                  `json:"section,omitempty"`
	Error          Banner                   `json:"error"`
	Status         Banner                   `json:"status"`
	Loading        bool                     `json:"loading"`
	Stats          UsageStats               `json:"stats"`
	TruthTable     *logic.TruthTablePayload `json:"truthTable,omitempty"`
	KMap           *logic.KMapPayload       `json:"kmap,omitempty"`
	Verilog        *logic.VerilogPayload    `json:"verilog,omitempty"`
	ChartID        string                   `json:"chartId,omitempty"`
}

// Visible reports whether a result panel is shown.
func (v View) Visible(section Section) bool {
	return section != SectionNone && v.Section == section
}

// IsDark reports whether the dark theme is active.
func (v View) IsDark() bool {
	return v.Theme == ThemeDark
}
