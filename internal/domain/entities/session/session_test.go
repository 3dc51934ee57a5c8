package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/logic"
)

func TestTheme_ToggleTwiceRestores(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeLight.Toggle().Toggle())
	assert.Equal(t, ThemeLight, ParseTheme("garbage"))
	assert.Equal(t, ThemeDark, ParseTheme("dark"))
}

func TestSession_BeginActionHidesResults(t *testing.T) {
	// Arrange
	s := NewSession("s1", ThemeLight, UsageStats{})
	s.ShowTruthTable(&logic.TruthTablePayload{Variables: []string{"A"}})
	s.ShowError("old")

	// Act
	s.BeginAction("working")
	view := s.Snapshot()

	// Assert
	assert.True(t, view.Loading)
	assert.False(t, view.ResultsVisible)
	assert.False(t, view.Error.Visible)
	assert.Nil(t, view.TruthTable)
	assert.Equal(t, "working", view.Status.Message)
}

func TestSession_SnapshotOnlyCarriesVisiblePayload(t *testing.T) {
	s := NewSession("s1", ThemeLight, UsageStats{})
	s.ShowTruthTable(&logic.TruthTablePayload{})
	s.ShowKMap(&logic.KMapPayload{})

	view := s.Snapshot()

	assert.True(t, view.Visible(SectionKMap))
	assert.False(t, view.Visible(SectionTruthTable))
	assert.Nil(t, view.TruthTable)
	assert.NotNil(t, view.KMap)
}

func TestSession_ResetClearsEverything(t *testing.T) {
	s := NewSession("s1", ThemeDark, UsageStats{SimulationsRun: 2})
	s.SetExpression("A&B")
	s.ShowVerilog(&logic.VerilogPayload{})
	s.SetChartID("chart")
	s.ShowError("bad")

	s.Reset("ready")
	view := s.Snapshot()

	assert.Empty(t, view.Expression)
	assert.False(t, view.ResultsVisible)
	assert.False(t, view.Error.Visible)
	assert.Empty(t, view.ChartID)
	assert.Equal(t, ThemeDark, view.Theme)
	assert.Equal(t, 2, view.Stats.SimulationsRun)
}

func TestSession_Counters(t *testing.T) {
	s := NewSession("s1", ThemeLight, UsageStats{})

	s.RecordTruthTable(3)
	s.RecordTruthTable(0)
	stats := s.RecordSimulation()

	assert.Equal(t, UsageStats{ExpressionsTested: 2, GatesAnalyzed: 3, SimulationsRun: 1}, stats)
}

func TestDecodeUsageStats(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    UsageStats
		wantErr bool
	}{
		{"empty", "", UsageStats{}, false},
		{"full", `{"expressionsTested":1,"gatesAnalyzed":4,"simulationsRun":2}`, UsageStats{1, 4, 2}, false},
		{"unknown and missing keys", `{"expressionsTested":3,"extra":true}`, UsageStats{ExpressionsTested: 3}, false},
		{"wrong types", `{"expressionsTested":"7","simulationsRun":-2}`, UsageStats{}, false},
		{"not an object", `[1,2,3]`, UsageStats{}, false},
		{"malformed", `{"expressionsTested":`, UsageStats{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeUsageStats(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUsageStats_EncodeRoundTrip(t *testing.T) {
	in := UsageStats{ExpressionsTested: 1, GatesAnalyzed: 2, SimulationsRun: 3}

	raw, err := in.Encode()
	require.NoError(t, err)
	out, err := DecodeUsageStats(raw)

	require.NoError(t, err)
	assert.Equal(t, in, out)
}
