package charting

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/AtRiskMedia/logic-explorer/internal/domain/entities/session"
)

// Raster canvas dimensions before resizing.
const (
	RasterBaseWidth  = 1200
	RasterBaseHeight = 600
)

// Format is an image encoding for exported charts.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// ErrChartDestroyed is returned when rendering a released chart.
var ErrChartDestroyed = errors.New("chart has been destroyed")

// ParseFormat maps a query value to a Format, defaulting to PNG.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(value) {
	case "", "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("unsupported image format %q", value)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatWebP {
		return "image/webp"
	}
	return "image/png"
}

// ClampWidth bounds a requested width. Zero or negative means the default.
func ClampWidth(width, defaultWidth, maxWidth int) int {
	if width <= 0 {
		width = defaultWidth
	}
	if width > maxWidth {
		width = maxWidth
	}
	if width < 100 {
		width = 100
	}
	return width
}

// Render rasterises the chart at the given width in the given format.
func (c *Chart) Render(format Format, width int) ([]byte, error) {
	switch format {
	case FormatWebP:
		return c.RenderWebP(width)
	default:
		return c.RenderPNG(width)
	}
}

// RenderPNG rasterises the chart as PNG.
func (c *Chart) RenderPNG(width int) ([]byte, error) {
	img, err := c.rasterize(width)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderWebP rasterises the chart as WebP.
func (c *Chart) RenderWebP(width int) ([]byte, error) {
	img, err := c.rasterize(width)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Chart) rasterize(width int) (image.Image, error) {
	c.mu.RLock()
	if c.destroyed {
		c.mu.RUnlock()
		return nil, ErrChartDestroyed
	}
	datasets := make([]Dataset, len(c.datasets))
	copy(datasets, c.datasets)
	palette := c.palette
	theme := c.theme
	c.mu.RUnlock()

	img := draw(datasets, palette, theme)
	if width > 0 && width != RasterBaseWidth {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}
	return img, nil
}

func draw(datasets []Dataset, p Palette, theme session.Theme) image.Image {
	const (
		left   = 110.0
		right  = 40.0
		top    = 70.0
		bottom = 70.0
	)
	w, h := float64(RasterBaseWidth), float64(RasterBaseHeight)
	plotW, plotH := w-left-right, h-top-bottom

	dc := gg.NewContext(RasterBaseWidth, RasterBaseHeight)
	background := "#ffffff"
	if theme == session.ThemeDark {
		background = "#1f2937"
	}
	dc.SetColor(mustColor(background))
	dc.Clear()

	xMin, xMax := xBounds(datasets)
	sx := func(x float64) float64 { return left + (x-xMin)/(xMax-xMin)*plotW }
	sy := func(y float64) float64 { return top + (YAxisMax-y)/(YAxisMax-YAxisMin)*plotH }

	// grid
	dc.SetColor(mustColor(p.Grid))
	dc.SetLineWidth(2)
	for _, y := range []float64{0, 1} {
		dc.DrawLine(left, sy(y), left+plotW, sy(y))
		dc.Stroke()
	}
	const xDivisions = 5
	for i := 0; i <= xDivisions; i++ {
		xv := xMin + float64(i)*(xMax-xMin)/xDivisions
		dc.DrawLine(sx(xv), top, sx(xv), top+plotH)
		dc.Stroke()
	}

	// ticks
	dc.SetColor(mustColor(p.Ticks))
	dc.DrawStringAnchored(HighLabel, left-10, sy(1), 1, 0.5)
	dc.DrawStringAnchored(LowLabel, left-10, sy(0), 1, 0.5)
	for i := 0; i <= xDivisions; i++ {
		xv := xMin + float64(i)*(xMax-xMin)/xDivisions
		dc.DrawStringAnchored(strconv.FormatFloat(xv, 'g', 4, 64), sx(xv), top+plotH+14, 0.5, 0.5)
	}

	// axis titles
	dc.SetColor(mustColor(p.Title))
	dc.DrawStringAnchored(XAxisTitle, left+plotW/2, h-22, 0.5, 0.5)
	dc.Push()
	dc.RotateAbout(-math.Pi/2, 24, top+plotH/2)
	dc.DrawStringAnchored(YAxisTitle, 24, top+plotH/2, 0.5, 0.5)
	dc.Pop()

	// series
	for _, ds := range datasets {
		if len(ds.Data) == 0 {
			continue
		}
		dc.SetColor(mustColor(ds.BorderColor))
		dc.SetLineWidth(float64(ds.BorderWidth))
		for i, pt := range ds.Data {
			y := math.Max(YAxisMin, math.Min(YAxisMax, pt.Y))
			if i == 0 {
				dc.MoveTo(sx(pt.X), sy(y))
			} else {
				dc.LineTo(sx(pt.X), sy(y))
			}
		}
		dc.Stroke()
	}

	// legend
	x := left
	for _, ds := range datasets {
		dc.SetColor(mustColor(ds.BorderColor))
		dc.DrawRectangle(x, 24, 12, 12)
		dc.Fill()
		dc.SetColor(mustColor(p.Legend))
		dc.DrawStringAnchored(ds.Label, x+18, 30, 0, 0.5)
		tw, _ := dc.MeasureString(ds.Label)
		x += 18 + tw + 24
	}

	return dc.Image()
}

func xBounds(datasets []Dataset) (float64, float64) {
	xMin, xMax := math.Inf(1), math.Inf(-1)
	for _, ds := range datasets {
		for _, pt := range ds.Data {
			xMin = math.Min(xMin, pt.X)
			xMax = math.Max(xMax, pt.X)
		}
	}
	if math.IsInf(xMin, 1) {
		return 0, 1
	}
	if xMax <= xMin {
		xMax = xMin + 1
	}
	return xMin, xMax
}

// parseColor understands the two colour notations Chart.js options use here:
// #rrggbb and rgba(r, g, b, a).
func parseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		hex := strings.TrimPrefix(s, "#")
		if len(hex) != 6 {
			return color.NRGBA{}, fmt.Errorf("invalid hex color length: %s", hex)
		}
		var r, g, b uint8
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("failed to parse hex color: %w", err)
		}
		return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
	}

	compact := strings.ReplaceAll(s, " ", "")
	var r, g, b int
	var a float64
	if _, err := fmt.Sscanf(compact, "rgba(%d,%d,%d,%g)", &r, &g, &b, &a); err != nil {
		return color.NRGBA{}, fmt.Errorf("failed to parse color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(math.Round(a * 255))}, nil
}

func mustColor(s string) color.Color {
	c, err := parseColor(s)
	if err != nil {
		return color.Black
	}
	return c
}
