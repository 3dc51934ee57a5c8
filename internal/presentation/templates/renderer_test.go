package templates

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/logic"
	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/session"
	"github.com/AtRiskMedia/logic-explorer/internal/domain/services"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
)

var outputCell = regexp.MustCompile(`data-output>([^<]*)</td>`)

func newTestRenderer() *Renderer {
	return NewRenderer(services.NewPresentationService(), logging.NewDiscardLogger(), nil)
}

func intp(v int) *int { return &v }

func andTable() *logic.TruthTablePayload {
	row := func(a, b int, out bool) logic.TruthRow {
		return logic.TruthRow{Values: map[string]*int{"A": intp(a), "B": intp(b)}, Output: out}
	}
	return &logic.TruthTablePayload{
		Expression: "A & B",
		Variables:  []string{"A", "B"},
		Rows:       []logic.TruthRow{row(0, 0, false), row(0, 1, false), row(1, 0, false), row(1, 1, true)},
	}
}

func TestTruthTable_ColumnsRowsAndGlyphs(t *testing.T) {
	r := newTestRenderer()

	html, err := r.TruthTable(andTable())
	require.NoError(t, err)

	assert.Contains(t, html, "2 Variables, 4 Combinations")
	assert.Equal(t, 3, strings.Count(html, "<th "), "k variables plus output")
	assert.Equal(t, 4, strings.Count(html, "<tr class="), "one row per combination")

	outputs := outputCell.FindAllStringSubmatch(html, -1)
	require.Len(t, outputs, 4)
	for _, m := range outputs {
		assert.Contains(t, []string{"0", "1"}, m[1])
	}
	assert.Equal(t, "1", outputs[3][1])
}

func TestTruthTable_MissingValueAndEmpty(t *testing.T) {
	r := newTestRenderer()

	payload := &logic.TruthTablePayload{
		Variables: []string{"A", "B"},
		Rows:      []logic.TruthRow{{Values: map[string]*int{"A": intp(1)}, Output: true}},
	}
	html, err := r.TruthTable(payload)
	require.NoError(t, err)
	assert.Contains(t, html, ">?</td>")

	html, err = r.TruthTable(&logic.TruthTablePayload{Variables: []string{"A"}})
	require.NoError(t, err)
	assert.Contains(t, html, "No truth table data available")
	assert.Contains(t, html, "1 Variables, 0 Combinations")
}

func TestKMap_GridAndSimplification(t *testing.T) {
	r := newTestRenderer()

	payload := &logic.KMapPayload{
		Expression: "A & B",
		Variables:  []string{"A", "B"},
		KMap: &logic.KMap{
			RowVar: "A",
			ColVar: "B",
			Rows:   []string{"0", "1"},
			Cols:   []string{"0", "1"},
			Grid:   [][]bool{{false, false}, {false, true}},
		},
		Simplified: "A & B",
	}

	html, err := r.KMap(payload)
	require.NoError(t, err)

	assert.Equal(t, 4, strings.Count(html, "data-cell>"))
	assert.Contains(t, html, `<code id="simplifiedExpression" class="font-mono text-2xl font-bold text-green-600 dark:text-green-400">A · B</code>`)
	assert.Contains(t, html, ">A &amp; B</code>")

	// No truth table in a K-map response: listed as a constant-false function.
	assert.Equal(t, 1, strings.Count(html, "data-implicant"))
	assert.Contains(t, html, ">P1</span>")
}

func TestKMap_Placeholders(t *testing.T) {
	r := newTestRenderer()

	html, err := r.KMap(&logic.KMapPayload{Expression: "A"})
	require.NoError(t, err)
	assert.Contains(t, html, "K-map not available for this expression")
	assert.NotContains(t, html, "simplificationResults")

	html, err = r.KMap(&logic.KMapPayload{KMap: &logic.KMap{RowVar: "A", Grid: [][]bool{{true}}}})
	require.NoError(t, err)
	assert.Contains(t, html, NoSimplification)
	assert.Contains(t, html, ">"+UnknownExpression+"</code>")
}

func TestKMap_ImplicantsFromTruthTable(t *testing.T) {
	r := newTestRenderer()

	table := andTable()
	payload := &logic.KMapPayload{
		Expression: table.Expression,
		Variables:  table.Variables,
		KMap:       &logic.KMap{RowVar: "A", Grid: [][]bool{{false, false}, {false, true}}},
		Rows:       table.Rows,
	}

	html, err := r.KMap(payload)
	require.NoError(t, err)
	assert.Contains(t, html, "A·B</code>")
	assert.Equal(t, 1, strings.Count(html, "data-implicant"))
}

func TestVerilog_Placeholders(t *testing.T) {
	r := newTestRenderer()

	html, err := r.Verilog(&logic.VerilogPayload{}, "")
	require.NoError(t, err)
	assert.Contains(t, html, NoVerilogCode)
	assert.Contains(t, html, NoSimulationOutput)
	assert.Contains(t, html, "No Waveform Data Available")
	assert.NotContains(t, html, "<canvas")

	html, err = r.Verilog(&logic.VerilogPayload{Code: "module f(); endmodule"}, "chart-1")
	require.NoError(t, err)
	assert.Contains(t, html, `data-chart-id="chart-1"`)
	assert.NotContains(t, html, "No Waveform Data Available")
}

func TestRegion_ErrorHidesResults(t *testing.T) {
	r := newTestRenderer()

	// Arrange
	s := session.NewSession("c1", session.ThemeLight, session.UsageStats{ExpressionsTested: 3})
	s.BeginAction("working")
	s.ShowError("Invalid expression syntax")
	s.EndAction()

	// Act
	html, err := r.Region(s.Snapshot())

	// Assert
	require.NoError(t, err)
	assert.Contains(t, html, `<span id="errorText">Invalid expression syntax</span>`)
	assert.Contains(t, html, `<div id="results" class="hidden">`)
	assert.Contains(t, html, `data-stat="expressionsTested">3<`)
	assert.Contains(t, html, `data-loading="false"`)
}

func TestRegion_OnlyVisibleSection(t *testing.T) {
	r := newTestRenderer()

	s := session.NewSession("c1", session.ThemeDark, session.UsageStats{})
	s.ShowTruthTable(andTable())
	s.ShowVerilog(&logic.VerilogPayload{Code: "module f(); endmodule"})

	html, err := r.Region(s.Snapshot())
	require.NoError(t, err)
	assert.Contains(t, html, "verilogResults")
	assert.NotContains(t, html, "truthTableResults")
	assert.Contains(t, html, `data-theme="dark"`)
}

func TestPage_ThemeAndPresets(t *testing.T) {
	r := newTestRenderer()

	s := session.NewSession("c1", session.ThemeDark, session.UsageStats{})
	s.SetExpression("A|B")

	html, err := r.Page(s.Snapshot(), []PresetLink{{ID: "xor", Label: "XOR", Expression: "A ^ B"}})
	require.NoError(t, err)

	assert.Contains(t, html, `<html lang="en" class="dark">`)
	assert.Contains(t, html, "fa-sun")
	assert.Contains(t, html, `data-preset="xor"`)
	assert.Contains(t, html, `value="A|B"`)
	assert.Contains(t, html, "A + B")
	assert.Contains(t, html, `id="explorerRegion"`)
}
