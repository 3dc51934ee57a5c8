// Package charting manages waveform chart instances: their lifecycle per
// session, their theme colours, their Chart.js configuration and their
// server-side rasterisation.
package charting

import (
	"sync"
	"time"

	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/session"
	"github.com/AtRiskMedia/logic-explorer/internal/domain/services"
)

// SeriesColors is the rotating dataset palette.
var SeriesColors = []string{"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7", "#DDA0DD", "#98D8C8"}

// Palette holds the theme-dependent chart colours.
type Palette struct {
	Title  string `json:"title"`
	Legend string `json:"legend"`
	Ticks  string `json:"ticks"`
	Grid   string `json:"grid"`
}

var (
	lightPalette = Palette{Title: "#374151", Legend: "#374151", Ticks: "#6B7280", Grid: "rgba(0, 0, 0, 0.1)"}
	darkPalette  = Palette{Title: "#ffffff", Legend: "#ffffff", Ticks: "#9CA3AF", Grid: "rgba(255, 255, 255, 0.1)"}
)

// PaletteFor returns the designated colours of a theme.
func PaletteFor(theme session.Theme) Palette {
	if theme == session.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// SeriesColor returns the palette colour for dataset index i.
func SeriesColor(i int) string {
	return SeriesColors[i%len(SeriesColors)]
}

// Chart is one live waveform chart.
type Chart struct {
	ID        string
	SessionID string
	CreatedAt time.Time

	mu        sync.RWMutex
	theme     session.Theme
	palette   Palette
	datasets  []Dataset
	destroyed bool
}

func newChart(id, sessionID string, series []services.Series, theme session.Theme) *Chart {
	datasets := make([]Dataset, 0, len(series))
	for _, s := range series {
		color := SeriesColor(s.Index)
		datasets = append(datasets, Dataset{
			Label:                s.Label,
			Data:                 s.Points,
			BorderColor:          color,
			BackgroundColor:      color + "40",
			BorderWidth:          4,
			Fill:                 false,
			Tension:              0,
			Stepped:              "before",
			PointRadius:          0,
			PointHoverRadius:     6,
			PointBackgroundColor: color,
			PointBorderColor:     "#ffffff",
			PointBorderWidth:     2,
		})
	}

	return &Chart{
		ID:        id,
		SessionID: sessionID,
		CreatedAt: time.Now(),
		theme:     theme,
		palette:   PaletteFor(theme),
		datasets:  datasets,
	}
}

// ApplyTheme recolours axes, grid and legend in place.
func (c *Chart) ApplyTheme(theme session.Theme) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.theme = theme
	c.palette = PaletteFor(theme)
}

// Theme returns the theme the chart is drawn in.
func (c *Chart) Theme() session.Theme {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.theme
}

// Palette returns the chart's current colours.
func (c *Chart) Palette() Palette {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.palette
}

// Datasets returns a copy of the chart's datasets.
func (c *Chart) Datasets() []Dataset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Dataset, len(c.datasets))
	copy(out, c.datasets)
	return out
}

// Config returns the Chart.js configuration for the current state.
func (c *Chart) Config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	datasets := make([]Dataset, len(c.datasets))
	copy(datasets, c.datasets)
	return buildConfig(datasets, c.palette)
}

// Destroy releases the chart. A destroyed chart is never reused.
func (c *Chart) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroyed = true
	c.datasets = nil
}

// Destroyed reports whether Destroy has been called.
func (c *Chart) Destroyed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.destroyed
}
