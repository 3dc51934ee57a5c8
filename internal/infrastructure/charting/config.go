package charting

import "github.com/AtRiskMedia/logic-explorer/internal/domain/services"

// Config is a Chart.js line-chart configuration. The y tick callback cannot
// travel as JSON, so its labels are carried in Ticks.Labels for the page
// script to install.
type Config struct {
	Type    string     `json:"type"`
	Data    ConfigData `json:"data"`
	Options Options    `json:"options"`
}

type ConfigData struct {
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one stepped waveform line.
type Dataset struct {
	Label                string           `json:"label"`
	Data                 []services.Point `json:"data"`
	BorderColor          string           `json:"borderColor"`
	BackgroundColor      string           `json:"backgroundColor"`
	BorderWidth          int              `json:"borderWidth"`
	Fill                 bool             `json:"fill"`
	Tension              float64          `json:"tension"`
	Stepped              string           `json:"stepped"`
	PointRadius          int              `json:"pointRadius"`
	PointHoverRadius     int              `json:"pointHoverRadius"`
	PointBackgroundColor string           `json:"pointBackgroundColor"`
	PointBorderColor     string           `json:"pointBorderColor"`
	PointBorderWidth     int              `json:"pointBorderWidth"`
}

type Options struct {
	Responsive          bool        `json:"responsive"`
	MaintainAspectRatio bool        `json:"maintainAspectRatio"`
	Animation           Animation   `json:"animation"`
	Interaction         Interaction `json:"interaction"`
	Scales              Scales      `json:"scales"`
	Plugins             Plugins     `json:"plugins"`
}

type Animation struct {
	Duration int    `json:"duration"`
	Easing   string `json:"easing"`
}

type Interaction struct {
	Intersect bool   `json:"intersect"`
	Mode      string `json:"mode"`
}

type Scales struct {
	X Axis `json:"x"`
	Y Axis `json:"y"`
}

type Axis struct {
	Type  string    `json:"type,omitempty"`
	Title AxisTitle `json:"title"`
	Min   *float64  `json:"min,omitempty"`
	Max   *float64  `json:"max,omitempty"`
	Grid  Grid      `json:"grid"`
	Ticks Ticks     `json:"ticks"`
}

type AxisTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
	Color   string `json:"color"`
	Font    Font   `json:"font"`
}

type Font struct {
	Size   int    `json:"size"`
	Weight string `json:"weight,omitempty"`
}

type Grid struct {
	Color     string `json:"color"`
	LineWidth int    `json:"lineWidth"`
}

type Ticks struct {
	StepSize float64           `json:"stepSize,omitempty"`
	Color    string            `json:"color"`
	Font     Font              `json:"font"`
	Labels   map[string]string `json:"labels,omitempty"`
}

type Plugins struct {
	Legend Legend `json:"legend"`
}

type Legend struct {
	Position string       `json:"position"`
	Labels   LegendLabels `json:"labels"`
}

type LegendLabels struct {
	Color         string `json:"color"`
	Font          Font   `json:"font"`
	UsePointStyle bool   `json:"usePointStyle"`
	Padding       int    `json:"padding"`
}

const (
	XAxisTitle = "Time (ns)"
	YAxisTitle = "Digital Signal"
	YAxisMin   = -0.2
	YAxisMax   = 1.2
	HighLabel  = "HIGH (1)"
	LowLabel   = "LOW (0)"
)

func buildConfig(datasets []Dataset, p Palette) Config {
	yMin, yMax := YAxisMin, YAxisMax
	titleFont := Font{Size: 14, Weight: "bold"}
	tickFont := Font{Size: 12}

	return Config{
		Type: "line",
		Data: ConfigData{Datasets: datasets},
		Options: Options{
			Responsive:          true,
			MaintainAspectRatio: false,
			Animation:           Animation{Duration: 1000, Easing: "easeOutQuart"},
			Interaction:         Interaction{Intersect: false, Mode: "index"},
			Scales: Scales{
				X: Axis{
					Type:  "linear",
					Title: AxisTitle{Display: true, Text: XAxisTitle, Color: p.Title, Font: titleFont},
					Grid:  Grid{Color: p.Grid, LineWidth: 2},
					Ticks: Ticks{Color: p.Ticks, Font: tickFont},
				},
				Y: Axis{
					Title: AxisTitle{Display: true, Text: YAxisTitle, Color: p.Title, Font: titleFont},
					Min:   &yMin,
					Max:   &yMax,
					Grid:  Grid{Color: p.Grid, LineWidth: 2},
					Ticks: Ticks{
						StepSize: 1,
						Color:    p.Ticks,
						Font:     tickFont,
						Labels:   map[string]string{"1": HighLabel, "0": LowLabel},
					},
				},
			},
			Plugins: Plugins{
				Legend: Legend{
					Position: "top",
					Labels: LegendLabels{
						Color:         p.Legend,
						Font:          Font{Size: 13, Weight: "bold"},
						UsePointStyle: true,
						Padding:       20,
					},
				},
			},
		},
	}
}
