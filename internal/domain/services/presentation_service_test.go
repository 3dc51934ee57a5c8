package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/logic"
)

func rowsFromOutputs(outputs ...bool) []logic.TruthRow {
	rows := make([]logic.TruthRow, len(outputs))
	for i, out := range outputs {
		rows[i] = logic.TruthRow{Values: map[string]*int{}, Output: out}
	}
	return rows
}

func TestPrimeImplicants_ListsMintermsAsProducts(t *testing.T) {
	// Arrange
	svc := NewPresentationService()
	rows := rowsFromOutputs(false, true, false, true)

	// Act
	got := svc.PrimeImplicants(rows, []string{"A", "B"})

	// Assert
	assert.Equal(t, []string{"~A·B", "A·B"}, got)
}

func TestPrimeImplicants_TruncatesToFour(t *testing.T) {
	svc := NewPresentationService()
	rows := rowsFromOutputs(true, true, true, true, true, true, false, false)

	got := svc.PrimeImplicants(rows, []string{"A", "B", "C"})

	require.Len(t, got, MaxImplicants)
	assert.Equal(t, "~A·~B·~C", got[0])
	assert.Equal(t, "~A·B·C", got[3])
}

func TestPrimeImplicants_Constants(t *testing.T) {
	svc := NewPresentationService()
	vars := []string{"A"}

	assert.Equal(t, []string{"0"}, svc.PrimeImplicants(rowsFromOutputs(false, false), vars))
	assert.Equal(t, []string{"1"}, svc.PrimeImplicants(rowsFromOutputs(true, true), vars))
	assert.Equal(t, []string{"0"}, svc.PrimeImplicants([]logic.TruthRow{}, vars))
}

func TestPrimeImplicants_InvalidInput(t *testing.T) {
	svc := NewPresentationService()

	assert.Equal(t, []string{InvalidData}, svc.PrimeImplicants(rowsFromOutputs(true), nil))
	assert.Equal(t, []string{InvalidData}, svc.PrimeImplicants(nil, []string{"A"}))
}

func TestFormatExpression(t *testing.T) {
	svc := NewPresentationService()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", NoExpression},
		{"and", "A&B", "A·B"},
		{"or", "A|B", "A + B"},
		{"tilde not", "~A", "¬A"},
		{"bang not", "!A", "¬A"},
		{"mixed", "(A&~B)|!C", "(A·¬B) + ¬C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.FormatExpression(tt.in))
		})
	}
}

func TestStepSeries_HoldsEachSampleUntilNext(t *testing.T) {
	// Arrange
	svc := NewPresentationService()

	// Act
	points := svc.StepSeries([]float64{0, 5, 10}, []float64{0, 1, 0})

	// Assert
	assert.Equal(t, []Point{
		{X: 0, Y: 0},
		{X: 5, Y: 0},
		{X: 5, Y: 1},
		{X: 10, Y: 1},
		{X: 10, Y: 0},
	}, points)
}

func TestStepSeries_ShortValues(t *testing.T) {
	svc := NewPresentationService()

	points := svc.StepSeries([]float64{0, 5, 10}, []float64{1})

	assert.Equal(t, []Point{{X: 0, Y: 1}, {X: 5, Y: 1}}, points)
}

func TestWaveformSeries_SkipsEmptySignalsAndLabels(t *testing.T) {
	// Arrange
	svc := NewPresentationService()
	waves := logic.Waveforms{
		{Key: "a", Name: "A", Times: []float64{0, 10}, Values: []float64{0, 1}},
		{Key: "broken", Name: "broken", Times: nil, Values: []float64{1}},
		{Key: "y", Times: []float64{0}, Values: []float64{1}},
	}

	// Act
	series := svc.WaveformSeries(waves)

	// Assert
	require.Len(t, series, 2)
	assert.Equal(t, "A", series[0].Label)
	assert.Equal(t, 0, series[0].Index)
	assert.Equal(t, "Signal 2", series[1].Label)
	assert.Equal(t, 1, series[1].Index)
	assert.Equal(t, []Point{{X: 0, Y: 1}}, series[1].Points)
}

func TestWaveformSeries_NoneUsable(t *testing.T) {
	svc := NewPresentationService()

	assert.Empty(t, svc.WaveformSeries(nil))
	assert.Empty(t, svc.WaveformSeries(logic.Waveforms{{Key: "x"}}))
}
