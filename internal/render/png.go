package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/rewired-gh/salesdash/internal/chart"
	"github.com/rewired-gh/salesdash/internal/logger"
)

// ErrUnsupportedChart is returned for spec types the exporter cannot draw.
var ErrUnsupportedChart = errors.New("unsupported chart type")

// PNGExporter rasterizes chart specs.
type PNGExporter struct {
	dir    string
	width  int
	height int
}

// NewPNGExporter creates an exporter writing width x height images into dir.
func NewPNGExporter(dir string, width, height int) *PNGExporter {
	return &PNGExporter{dir: dir, width: width, height: height}
}

// Render writes spec as a PNG image to w.
func (e *PNGExporter) Render(w io.Writer, spec *chart.Spec) error {
	if spec == nil {
		return ErrNilSpec
	}
	switch spec.Type {
	case "line":
		graph, err := e.lineChart(spec)
		if err != nil {
			return err
		}
		return graph.Render(gochart.PNG, w)
	case "bar":
		graph, err := e.barChart(spec)
		if err != nil {
			return err
		}
		return graph.Render(gochart.PNG, w)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedChart, spec.Type)
	}
}

// ExportPage writes one <canvas>.png per live canvas and returns the written paths.
// Canvases without a live chart are skipped.
func (e *PNGExporter) ExportPage(p *Page) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}

	var paths []string
	for _, c := range p.Canvases() {
		spec := c.Spec()
		if spec == nil {
			logger.Debug("Canvas %s has no live chart, skipping export", c.Name())
			continue
		}

		var buf bytes.Buffer
		if err := e.Render(&buf, spec); err != nil {
			return paths, fmt.Errorf("failed to render %s: %w", c.Name(), err)
		}

		path := filepath.Join(e.dir, c.Name()+".png")
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (e *PNGExporter) lineChart(spec *chart.Spec) (*gochart.Chart, error) {
	n := len(spec.Data.Labels)
	if n == 0 {
		return nil, fmt.Errorf("line chart %q has no labels", spec.Title())
	}

	xs := make([]float64, n)
	ticks := make([]gochart.Tick, n)
	for i, label := range spec.Data.Labels {
		xs[i] = float64(i)
		ticks[i] = gochart.Tick{Value: float64(i), Label: label}
	}

	series := make([]gochart.Series, 0, len(spec.Data.Datasets))
	for _, ds := range spec.Data.Datasets {
		style, err := lineStyle(ds)
		if err != nil {
			return nil, err
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    ds.Label,
			XValues: xs,
			YValues: ds.Data,
			Style:   style,
		})
	}

	lo, hi := valueRange(spec.Data.Datasets)
	graph := &gochart.Chart{
		Title:      spec.Title(),
		Width:      e.width,
		Height:     e.height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Ticks: ticks,
			Range: &gochart.ContinuousRange{Min: 0, Max: math.Max(float64(n-1), 1)},
		},
		YAxis: gochart.YAxis{
			Range:          &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: formatAxisValue,
		},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(graph)}
	return graph, nil
}

func lineStyle(ds chart.Dataset) (gochart.Style, error) {
	stroke, err := parseColor(ds.BorderColor)
	if err != nil {
		return gochart.Style{}, err
	}
	style := gochart.Style{
		StrokeColor: stroke,
		StrokeWidth: float64(ds.BorderWidth),
		DotColor:    stroke,
		DotWidth:    float64(ds.PointRadius) / 2,
	}
	for _, d := range ds.BorderDash {
		style.StrokeDashArray = append(style.StrokeDashArray, float64(d))
	}
	if ds.Fill && ds.Gradient != nil {
		fill, err := parseColor(ds.Gradient.From)
		if err != nil {
			return gochart.Style{}, err
		}
		style.FillColor = fill
	}
	return style, nil
}

func (e *PNGExporter) barChart(spec *chart.Spec) (*gochart.BarChart, error) {
	n := len(spec.Data.Labels)
	groups := len(spec.Data.Datasets)
	if n == 0 || groups == 0 {
		return nil, fmt.Errorf("bar chart %q has no bars", spec.Title())
	}

	bars := make([]gochart.Value, 0, n*groups)
	for i, label := range spec.Data.Labels {
		for g, ds := range spec.Data.Datasets {
			if i >= len(ds.Data) {
				return nil, fmt.Errorf("bar chart %q: %w", spec.Title(), chart.ErrSeriesLength)
			}
			fill, err := parseColor(ds.BackgroundColor.At(i))
			if err != nil {
				return nil, err
			}
			barLabel := ""
			if g == 0 {
				barLabel = label
			}
			bars = append(bars, gochart.Value{
				Value: ds.Data[i],
				Label: barLabel,
				Style: gochart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1},
			})
		}
	}

	perBar := (e.width - 120) / len(bars)
	barWidth := clamp(perBar*2/3, 4, 50)
	spacing := clamp(perBar-barWidth, 1, 100)

	lo, hi := valueRange(spec.Data.Datasets)
	return &gochart.BarChart{
		Title:      spec.Title(),
		Width:      e.width,
		Height:     e.height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: gochart.Style{Padding: gochart.Box{Top: 40}},
		YAxis: gochart.YAxis{
			Range:          &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: formatAxisValue,
		},
		Bars: bars,
	}, nil
}

// valueRange spans every dataset and zero, with headroom above the maximum.
func valueRange(datasets []chart.Dataset) (lo, hi float64) {
	for _, ds := range datasets {
		for _, v := range ds.Data {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi <= lo {
		return lo, lo + 1
	}
	if top := hi + (hi-lo)*0.1; !math.IsInf(top, 0) {
		return lo, top
	}
	return lo, hi
}

func formatAxisValue(v interface{}) string {
	if f, ok := v.(float64); ok {
		return chart.FormatValue(math.Round(f))
	}
	return fmt.Sprint(v)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// parseColor reads the CSS color forms the chart builder emits:
// #RGB, #RRGGBB, rgb(r, g, b) and rgba(r, g, b, a).
func parseColor(css string) (drawing.Color, error) {
	s := strings.TrimSpace(css)
	switch {
	case strings.HasPrefix(s, "#"):
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return drawing.Color{}, fmt.Errorf("invalid color %q", css)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return drawing.Color{}, fmt.Errorf("invalid color %q: %w", css, err)
		}
		return drawing.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil

	case strings.HasPrefix(s, "rgb"):
		open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
		if open < 0 || end < open {
			return drawing.Color{}, fmt.Errorf("invalid color %q", css)
		}
		parts := strings.Split(s[open+1:end], ",")
		if len(parts) != 3 && len(parts) != 4 {
			return drawing.Color{}, fmt.Errorf("invalid color %q", css)
		}
		var rgb [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(strings.TrimSpace(parts[i]), 10, 8)
			if err != nil {
				return drawing.Color{}, fmt.Errorf("invalid color %q: %w", css, err)
			}
			rgb[i] = uint8(v)
		}
		alpha := uint8(255)
		if len(parts) == 4 {
			a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
			if err != nil || a < 0 || a > 1 {
				return drawing.Color{}, fmt.Errorf("invalid color %q", css)
			}
			alpha = uint8(math.Round(a * 255))
		}
		return drawing.Color{R: rgb[0], G: rgb[1], B: rgb[2], A: alpha}, nil

	default:
		return drawing.Color{}, fmt.Errorf("invalid color %q", css)
	}
}
