// Package templates renders the explorer page and its result fragments.
package templates

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/logic"
	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/session"
	"github.com/AtRiskMedia/logic-explorer/internal/domain/services"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/performance"
)

// Placeholders for absent backend fields.
const (
	NoSimplification    = "No simplification available"
	UnknownExpression   = "Unknown"
	NoVerilogCode       = "// No Verilog code generated"
	NoSimulationOutput  = "No simulation output available"
	missingVariableText = "?"
)

type truthRowData struct {
	Cells  []string
	Output string
	High   bool
	Even   bool
}

type truthTableData struct {
	Caption   string
	Variables []string
	Rows      []truthRowData
	Empty     bool
}

type kmapCellData struct {
	Glyph string
	High  bool
}

type kmapRowData struct {
	Label string
	Cells []kmapCellData
}

type implicantData struct {
	Label string
	Term  string
}

type simplificationData struct {
	Implicants []implicantData
	Simplified string
	Source     string
}

type kmapData struct {
	Available      bool
	Corner         string
	Cols           []string
	Rows           []kmapRowData
	Simplification simplificationData
}

type verilogData struct {
	Code             string
	SimulationOutput string
	ChartID          string
}

type regionData struct {
	View       session.View
	TruthTable *truthTableData
	KMap       *kmapData
	Verilog    *verilogData
}

// PresetLink is one preset shortcut button.
type PresetLink struct {
	ID         string
	Label      string
	Expression string
}

type pageData struct {
	Region     regionData
	Title      string
	Formatted  string
	Presets    []PresetLink
	ThemeIcon  string
	ThemeLabel string
}

// Renderer turns view state into HTML.
type Renderer struct {
	presenter   *services.PresentationService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewRenderer creates a renderer.
func NewRenderer(presenter *services.PresentationService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *Renderer {
	return &Renderer{
		presenter:   presenter,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// Page renders the full document.
func (r *Renderer) Page(view session.View, presets []PresetLink) (string, error) {
	marker := r.perfTracker.StartOperation("render:page", view.SessionID)
	defer marker.Complete()

	data := pageData{
		Region:     r.region(view),
		Title:      "Digital Logic Explorer",
		Formatted:  r.presenter.FormatExpression(view.Expression),
		Presets:    presets,
		ThemeIcon:  "fa-moon",
		ThemeLabel: "Dark mode",
	}
	if view.IsDark() {
		data.ThemeIcon = "fa-sun"
		data.ThemeLabel = "Light mode"
	}

	html, err := r.execute(pageTemplate, "page", data)
	if err != nil {
		marker.SetError(err)
		return "", err
	}
	return html, nil
}

// Region renders the banners, the visible result panel and the counters.
// Actions answer with this fragment.
func (r *Renderer) Region(view session.View) (string, error) {
	marker := r.perfTracker.StartOperation("render:region", view.SessionID)
	defer marker.Complete()

	html, err := r.execute(resultTemplates, "region", r.region(view))
	if err != nil {
		marker.SetError(err)
		return "", err
	}
	return html, nil
}

// TruthTable renders the truth table panel on its own.
func (r *Renderer) TruthTable(payload *logic.TruthTablePayload) (string, error) {
	return r.execute(resultTemplates, "truthTable", r.truthTable(payload))
}

// KMap renders the K-map panel, including simplification, on its own.
func (r *Renderer) KMap(payload *logic.KMapPayload) (string, error) {
	return r.execute(resultTemplates, "kmap", r.kmap(payload))
}

// Verilog renders the code, simulation and waveform panel on its own.
func (r *Renderer) Verilog(payload *logic.VerilogPayload, chartID string) (string, error) {
	return r.execute(resultTemplates, "verilog", r.verilog(payload, chartID))
}

func (r *Renderer) region(view session.View) regionData {
	data := regionData{View: view}
	switch view.Section {
	case session.SectionTruthTable:
		if view.TruthTable != nil {
			data.TruthTable = r.truthTable(view.TruthTable)
		}
	case session.SectionKMap:
		if view.KMap != nil {
			data.KMap = r.kmap(view.KMap)
		}
	case session.SectionVerilog:
		if view.Verilog != nil {
			data.Verilog = r.verilog(view.Verilog, view.ChartID)
		}
	}
	return data
}

func (r *Renderer) truthTable(p *logic.TruthTablePayload) *truthTableData {
	data := &truthTableData{
		Caption:   fmt.Sprintf("%d Variables, %d Combinations", len(p.Variables), len(p.Rows)),
		Variables: p.Variables,
		Empty:     len(p.Rows) == 0,
	}
	for i, row := range p.Rows {
		cells := make([]string, 0, len(p.Variables))
		for _, name := range p.Variables {
			if v := row.Value(name); v != nil {
				cells = append(cells, fmt.Sprint(*v))
			} else {
				cells = append(cells, missingVariableText)
			}
		}
		data.Rows = append(data.Rows, truthRowData{
			Cells:  cells,
			Output: glyph(row.Output),
			High:   row.Output,
			Even:   i%2 == 0,
		})
	}
	return data
}

func (r *Renderer) kmap(p *logic.KMapPayload) *kmapData {
	if p.KMap == nil {
		return &kmapData{}
	}

	data := &kmapData{
		Available: true,
		Corner:    p.KMap.RowVar,
		Cols:      p.KMap.Cols,
	}
	for i, gridRow := range p.KMap.Grid {
		row := kmapRowData{Label: p.KMap.RowLabel(i)}
		for _, cell := range gridRow {
			row.Cells = append(row.Cells, kmapCellData{Glyph: glyph(cell), High: cell})
		}
		data.Rows = append(data.Rows, row)
	}

	// The K-map response usually carries no truth table; an absent one
	// counts as empty rather than invalid.
	rows, variables := p.Rows, p.Variables
	if rows == nil {
		rows = []logic.TruthRow{}
	}
	if variables == nil {
		variables = []string{}
	}
	for i, term := range r.presenter.PrimeImplicants(rows, variables) {
		data.Simplification.Implicants = append(data.Simplification.Implicants,
			implicantData{Label: fmt.Sprintf("P%d", i+1), Term: term})
	}

	simplified := p.Simplified
	if simplified == "" {
		simplified = NoSimplification
	}
	data.Simplification.Simplified = r.presenter.FormatExpression(simplified)
	data.Simplification.Source = p.Expression
	if data.Simplification.Source == "" {
		data.Simplification.Source = UnknownExpression
	}
	return data
}

func (r *Renderer) verilog(p *logic.VerilogPayload, chartID string) *verilogData {
	data := &verilogData{
		Code:             p.Code,
		SimulationOutput: p.SimulationOutput,
		ChartID:          chartID,
	}
	if data.Code == "" {
		data.Code = NoVerilogCode
	}
	if data.SimulationOutput == "" {
		data.SimulationOutput = NoSimulationOutput
	}
	return data
}

func (r *Renderer) execute(tmpl *template.Template, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Render().Error("Failed to execute template", "template", name, "error", err)
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func glyph(high bool) string {
	if high {
		return "1"
	}
	return "0"
}
