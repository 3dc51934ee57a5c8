package session

import (
	"encoding/json"
	"fmt"
	"math"
)

// UsageStats are the cumulative learning counters kept per browser.
type UsageStats struct {
	ExpressionsTested int `json:"expressionsTested"`
	GatesAnalyzed     int `json:"gatesAnalyzed"`
	SimulationsRun    int `json:"simulationsRun"`
}

// DecodeUsageStats reads a stored counter record. Any valid JSON is accepted:
// unknown keys are ignored, missing or non-numeric keys stay zero and
// negative values are clamped to zero. Only malformed JSON is an error.
func DecodeUsageStats(raw string) (UsageStats, error) {
	var stats UsageStats
	if raw == "" {
		return stats, nil
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return UsageStats{}, fmt.Errorf("decode usage stats: %w", err)
	}

	fields, ok := doc.(map[string]any)
	if !ok {
		return stats, nil
	}

	stats.ExpressionsTested = counter(fields["expressionsTested"])
	stats.GatesAnalyzed = counter(fields["gatesAnalyzed"])
	stats.SimulationsRun = counter(fields["simulationsRun"])
	return stats, nil
}

// Encode serializes the counters for storage.
func (s UsageStats) Encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode usage stats: %w", err)
	}
	return string(data), nil
}

func counter(val any) int {
	n, ok := val.(float64)
	if !ok || math.IsNaN(n) || n <= 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}
