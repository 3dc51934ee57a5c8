// Package services provides the local presentation helpers applied to
// backend results before rendering.
package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/logic"
)

const (
	// MaxImplicants caps the cosmetic implicant listing.
	MaxImplicants = 4

	NoExpression = "No expression"
	InvalidData  = "Invalid data"
)

var expressionReplacer = strings.NewReplacer(
	"&", "·",
	"|", " + ",
	"~", "¬",
	"!", "¬",
)

// Point is one (time, value) sample of a rendered series.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Series is a signal expanded into step form, ready for charting.
type Series struct {
	Label  string  `json:"label"`
	Index  int     `json:"index"`
	Points []Point `json:"data"`
}

type PresentationService struct{}

func NewPresentationService() *PresentationService {
	return &PresentationService{}
}

// PrimeImplicants lists the minterms of a truth table as literal products.
// This is a display approximation: each true row becomes one product term
// and nothing is merged. Row index i is read as a binary number over the
// variables, most significant first.
func (s *PresentationService) PrimeImplicants(rows []logic.TruthRow, variables []string) []string {
	if rows == nil || variables == nil {
		return []string{InvalidData}
	}

	var minterms []int
	for i, row := range rows {
		if row.Output {
			minterms = append(minterms, i)
		}
	}

	if len(minterms) == 0 {
		return []string{"0"}
	}
	if len(minterms) == len(rows) {
		return []string{"1"}
	}

	if len(minterms) > MaxImplicants {
		minterms = minterms[:MaxImplicants]
	}

	implicants := make([]string, 0, len(minterms))
	for _, minterm := range minterms {
		implicants = append(implicants, productTerm(minterm, variables))
	}
	return implicants
}

func productTerm(minterm int, variables []string) string {
	binary := strconv.FormatInt(int64(minterm), 2)
	if pad := len(variables) - len(binary); pad > 0 {
		binary = strings.Repeat("0", pad) + binary
	}

	terms := make([]string, 0, len(variables))
	for i, name := range variables {
		if i < len(binary) && binary[i] == '1' {
			terms = append(terms, name)
		} else {
			terms = append(terms, "~"+name)
		}
	}
	return strings.Join(terms, "·")
}

// FormatExpression substitutes display glyphs for operator characters.
func (s *PresentationService) FormatExpression(expr string) string {
	if expr == "" {
		return NoExpression
	}
	return expressionReplacer.Replace(expr)
}

// StepSeries expands samples into a step function: every sample is held
// flat until the time of the next one.
func (s *PresentationService) StepSeries(times, values []float64) []Point {
	n := len(times)
	if len(values) < n {
		n = len(values)
	}

	points := make([]Point, 0, 2*n)
	for i := 0; i < n; i++ {
		points = append(points, Point{X: times[i], Y: values[i]})
		if i+1 < len(times) {
			points = append(points, Point{X: times[i+1], Y: values[i]})
		}
	}
	return points
}

// WaveformSeries converts every usable signal into a step series. Signals
// without times or values are skipped and do not consume a label index.
func (s *PresentationService) WaveformSeries(waveforms logic.Waveforms) []Series {
	var series []Series
	for _, sig := range waveforms {
		if len(sig.Times) == 0 || len(sig.Values) == 0 {
			continue
		}

		index := len(series)
		label := sig.Name
		if label == "" {
			label = fmt.Sprintf("Signal %d", index+1)
		}

		series = append(series, Series{
			Label:  label,
			Index:  index,
			Points: s.StepSeries(sig.Times, sig.Values),
		})
	}
	return series
}
