package logic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// TruthRow is one combination of variable values and the expression output.
// A variable missing from the backend row has no entry in Values.
type TruthRow struct {
	Values map[string]*int `json:"values"`
	Output bool            `json:"output"`
}

// Value returns the value for a variable, or nil when the backend omitted it.
func (r TruthRow) Value(variable string) *int {
	if r.Values == nil {
		return nil
	}
	return r.Values[variable]
}

// UnmarshalJSON decodes the backend's flat row shape: {"A":0,"B":1,"output":true}.
func (r *TruthRow) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("truth table row: %w", err)
	}

	r.Values = make(map[string]*int, len(raw))
	r.Output = false

	for key, val := range raw {
		if key == "output" {
			r.Output = truthy(val)
			continue
		}
		if bit, ok := toBit(val); ok {
			r.Values[key] = &bit
		}
	}
	return nil
}

// MarshalJSON writes the row back in the backend's flat shape.
func (r TruthRow) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Values)+1)
	for key, val := range r.Values {
		if val != nil {
			flat[key] = *val
		}
	}
	flat["output"] = r.Output
	return json.Marshal(flat)
}

func truthy(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	default:
		return false
	}
}

func toBit(val any) (int, bool) {
	switch v := val.(type) {
	case float64:
		if math.IsNaN(v) {
			return 0, false
		}
		return int(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// TruthTablePayload is the body of a successful /generate_truth_table call.
type TruthTablePayload struct {
	Expression   string     `json:"expression,omitempty"`
	Variables    []string   `json:"variables"`
	Rows         []TruthRow `json:"truth_table"`
	NumVariables int        `json:"num_variables,omitempty"`
}

// KMap is the backend-computed Karnaugh map layout. Labels and cells are
// displayed exactly as received.
type KMap struct {
	RowVar string   `json:"row_var"`
	ColVar string   `json:"col_var"`
	Rows   []string `json:"rows"`
	Cols   []string `json:"cols"`
	Grid   [][]bool `json:"grid"`
}

// RowLabel returns the label for grid row i, empty when the backend sent fewer labels.
func (k *KMap) RowLabel(i int) string {
	if i < 0 || i >= len(k.Rows) {
		return ""
	}
	return k.Rows[i]
}

// KMapPayload is the body of a successful /generate_kmap call. KMap is nil
// when the backend cannot lay out the expression.
type KMapPayload struct {
	Expression string     `json:"expression,omitempty"`
	Variables  []string   `json:"variables"`
	KMap       *KMap      `json:"kmap,omitempty"`
	Simplified string     `json:"simplified_expression,omitempty"`
	Rows       []TruthRow `json:"truth_table,omitempty"`
}

// Signal is one simulated waveform trace. Key is the name the backend filed
// the trace under; Name is the display name it reported, possibly empty.
type Signal struct {
	Key    string    `json:"-"`
	Name   string    `json:"name"`
	Times  []float64 `json:"times"`
	Values []float64 `json:"values"`
}

// Waveforms keeps the backend's signal traces in the order they were sent.
type Waveforms []Signal

// UnmarshalJSON decodes {"name": {...}, ...} preserving key order. A null
// entry is kept with no samples so that it can be skipped at render time.
func (w *Waveforms) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("waveform data: %w", err)
	}
	if tok == nil {
		*w = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("waveform data: expected object, got %v", tok)
	}

	out := Waveforms{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("waveform data: %w", err)
		}
		key, _ := keyTok.(string)

		var sig *Signal
		if err := dec.Decode(&sig); err != nil {
			return fmt.Errorf("waveform signal %q: %w", key, err)
		}
		if sig == nil {
			sig = &Signal{}
		}
		sig.Key = key
		out = append(out, *sig)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("waveform data: %w", err)
	}

	*w = out
	return nil
}

// MarshalJSON writes the traces back as an object in their original order.
func (w Waveforms) MarshalJSON() ([]byte, error) {
	if w == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sig := range w {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sig.Key)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(sig)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// VerilogPayload is the body of a successful /generate_verilog call.
type VerilogPayload struct {
	Expression       string    `json:"expression,omitempty"`
	Variables        []string  `json:"variables"`
	Code             string    `json:"verilog_code,omitempty"`
	SimulationOutput string    `json:"simulation_output,omitempty"`
	Waveforms        Waveforms `json:"waveform_data,omitempty"`
}

// BackendIndex is the descriptive document served at the backend root.
type BackendIndex struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}
