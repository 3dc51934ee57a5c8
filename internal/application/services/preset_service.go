package services

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed presets/presets.yaml
var defaultPresets []byte

// ErrPresetNotFound is returned for an unknown preset ID.
var ErrPresetNotFound = errors.New("preset not found")

// Preset is one shortcut expression.
type Preset struct {
	ID         string `yaml:"id" json:"id"`
	Label      string `yaml:"label" json:"label"`
	Expression string `yaml:"expression" json:"expression"`
}

type presetCatalogue struct {
	Presets []Preset `yaml:"presets"`
}

// PresetService serves the preset catalogue in its declared order.
type PresetService struct {
	presets []Preset
	byID    map[string]Preset
}

// NewPresetService loads the embedded catalogue.
func NewPresetService() (*PresetService, error) {
	return NewPresetServiceFromYAML(defaultPresets)
}

// NewPresetServiceFromYAML parses a catalogue document.
func NewPresetServiceFromYAML(data []byte) (*PresetService, error) {
	var catalogue presetCatalogue
	if err := yaml.Unmarshal(data, &catalogue); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}

	svc := &PresetService{byID: make(map[string]Preset, len(catalogue.Presets))}
	for i, p := range catalogue.Presets {
		if p.ID == "" || p.Expression == "" {
			return nil, fmt.Errorf("preset %d: id and expression are required", i)
		}
		if _, dup := svc.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate preset id %q", p.ID)
		}
		if p.Label == "" {
			p.Label = p.Expression
		}
		svc.byID[p.ID] = p
		svc.presets = append(svc.presets, p)
	}
	return svc, nil
}

// All returns the catalogue.
func (s *PresetService) All() []Preset {
	out := make([]Preset, len(s.presets))
	copy(out, s.presets)
	return out
}

// Get looks a preset up by ID.
func (s *PresetService) Get(id string) (Preset, error) {
	p, ok := s.byID[id]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}
	return p, nil
}
