// Package chart builds the dashboard's declarative chart specifications and
// owns the one-live-instance-per-canvas rule.
//
// The sales chart plots actual against predicted sales over shared period
// labels. The inventory chart compares current with projected sales per
// sub-category, coloring each projected bar by the sign of its growth.
package chart

import (
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Canvas names used by the dashboard page.
const (
	SalesCanvas     = "salesChart"
	InventoryCanvas = "inventoryChart"
)

// Dataset labels.
const (
	ActualSalesLabel    = "Actual Sales"
	PredictedSalesLabel = "Predicted Sales"
	CurrentSalesLabel   = "Current Year Sales"
	FutureSalesLabel    = "Future Year Sales"
)

// InventoryTitle is the inventory chart title.
const InventoryTitle = "Inventory Sales Trend (Current vs Future)"

// ErrSeriesLength is returned when a series does not match its labels.
var ErrSeriesLength = errors.New("series length does not match labels")

// Trend classifies a growth percentage.
type Trend string

const (
	TrendGrowth  Trend = "growth"
	TrendDecline Trend = "decline"
	TrendNeutral Trend = "neutral"
)

// Classify maps growth > 0 to growth, < 0 to decline and exactly 0 to neutral.
func Classify(growthPercent float64) Trend {
	switch {
	case growthPercent > 0:
		return TrendGrowth
	case growthPercent < 0:
		return TrendDecline
	default:
		return TrendNeutral
	}
}

// Color returns the bar color for the trend.
func (t Trend) Color() string {
	switch t {
	case TrendGrowth:
		return "rgba(46, 204, 113, 0.8)"
	case TrendDecline:
		return "rgba(231, 76, 60, 0.8)"
	default:
		return "rgba(241, 196, 15, 0.8)"
	}
}

const (
	actualColor    = "#3A7BD5"
	predictedColor = "#F26419"
	currentColor   = "rgba(52, 152, 219, 0.8)"
	gradientHeight = 400
	gridColor      = "rgba(0,0,0,0.05)"
)

// FormatValue renders a plotted value the way an en-US chart tooltip does.
func FormatValue(v float64) string {
	return message.NewPrinter(language.English).Sprint(number.Decimal(v))
}

func lineDataset(label, color, gradFrom, gradTo string, data []float64) Dataset {
	tooltips := make([]string, len(data))
	for i, v := range data {
		tooltips[i] = fmt.Sprintf("%s: $%s", label, FormatValue(v))
	}
	return Dataset{
		Label:       label,
		Data:        data,
		BorderColor: color,
		Gradient:    &Gradient{From: gradFrom, To: gradTo, Height: gradientHeight},
		Fill:        true,
		Tension:     0.4,
		BorderWidth: 3,
		PointRadius: 6,
		HoverRadius: 8,
		PointColor:  color,
		Tooltips:    tooltips,
	}
}

// BuildSalesChart returns the actual vs predicted line chart.
func BuildSalesChart(labels []string, actual, predicted []float64, title string) (*Spec, error) {
	if len(actual) != len(labels) || len(predicted) != len(labels) {
		return nil, fmt.Errorf("sales chart: %w (labels %d, actual %d, predicted %d)",
			ErrSeriesLength, len(labels), len(actual), len(predicted))
	}

	actualSet := lineDataset(ActualSalesLabel, actualColor,
		"rgba(58, 123, 213, 0.5)", "rgba(58, 123, 213, 0.05)", actual)
	predictedSet := lineDataset(PredictedSalesLabel, predictedColor,
		"rgba(242, 100, 25, 0.5)", "rgba(242, 100, 25, 0.05)", predicted)
	predictedSet.BorderDash = []int{8, 4}

	bold := func(size int) *Font { return &Font{Size: size, Weight: "bold", Family: "Arial"} }

	return &Spec{
		Type: "line",
		Data: Data{
			Labels:   labels,
			Datasets: []Dataset{actualSet, predictedSet},
		},
		Options: Options{
			Responsive:  true,
			Interaction: &Interaction{Mode: "index", Intersect: false},
			Plugins: Plugins{
				Title: Title{Display: true, Text: title, Font: bold(20)},
				Tooltip: Tooltip{
					Mode:            "nearest",
					BackgroundColor: "#333",
					TitleColor:      "#fff",
					BodyColor:       "#fff",
				},
				Legend: &Legend{Position: "top", UsePointStyle: true},
			},
			Scales: map[string]Scale{
				"y": {BeginAtZero: true, GridColor: gridColor, Title: &Title{Display: true, Text: "Sales ($)", Font: bold(14)}},
				"x": {GridColor: gridColor, Title: &Title{Display: true, Text: "Month", Font: bold(14)}},
			},
		},
	}, nil
}

// BuildInventoryChart returns the current vs future bar chart. growth holds
// the raw growth percentage per label and drives the future bar colors.
func BuildInventoryChart(labels []string, current, future, growth []float64) (*Spec, error) {
	n := len(labels)
	if len(current) != n || len(future) != n || len(growth) != n {
		return nil, fmt.Errorf("inventory chart: %w (labels %d, current %d, future %d, growth %d)",
			ErrSeriesLength, n, len(current), len(future), len(growth))
	}

	futureColors := make(Paint, n)
	currentTips := make([]string, n)
	futureTips := make([]string, n)
	for i := range labels {
		futureColors[i] = Classify(growth[i]).Color()
		currentTips[i] = fmt.Sprintf("Current: $%s", FormatValue(current[i]))
		futureTips[i] = fmt.Sprintf("Future: $%s (%s%%)", FormatValue(future[i]), strconv.FormatFloat(growth[i], 'f', -1, 64))
	}

	return &Spec{
		Type: "bar",
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{
				{
					Label:           CurrentSalesLabel,
					Data:            current,
					BackgroundColor: Solid(currentColor),
					BorderRadius:    8,
					Tooltips:        currentTips,
				},
				{
					Label:           FutureSalesLabel,
					Data:            future,
					BackgroundColor: futureColors,
					BorderRadius:    8,
					Tooltips:        futureTips,
				},
			},
		},
		Options: Options{
			Responsive: true,
			Plugins: Plugins{
				Title: Title{Display: true, Text: InventoryTitle, Font: &Font{Size: 18, Weight: "bold"}},
			},
			Scales: map[string]Scale{
				"x": {Stacked: false},
				"y": {BeginAtZero: true, Title: &Title{Display: true, Text: "Sales ($)"}},
			},
		},
	}, nil
}
