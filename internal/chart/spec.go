package chart

import (
	"encoding/json"
)

// Paint is a fill or stroke color: one CSS color for the whole dataset,
// or one per data point. It marshals as a string when it holds a single color.
type Paint []string

// Solid is a single-color Paint.
func Solid(css string) Paint {
	return Paint{css}
}

// MarshalJSON emits a string for single colors and an array otherwise.
func (p Paint) MarshalJSON() ([]byte, error) {
	if len(p) == 1 {
		return json.Marshal(p[0])
	}
	return json.Marshal([]string(p))
}

// At returns the color for point i.
func (p Paint) At(i int) string {
	switch {
	case len(p) == 0:
		return ""
	case len(p) == 1:
		return p[0]
	default:
		return p[i%len(p)]
	}
}

// Gradient is a vertical fill from From (top) to To (bottom) over Height pixels.
type Gradient struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Height int    `json:"height"`
}

// Dataset is one named series.
type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"borderColor,omitempty"`
	BackgroundColor Paint     `json:"backgroundColor,omitempty"`
	Gradient        *Gradient `json:"gradient,omitempty"`
	Fill            bool      `json:"fill,omitempty"`
	Tension         float64   `json:"tension,omitempty"`
	BorderWidth     int       `json:"borderWidth,omitempty"`
	BorderDash      []int     `json:"borderDash,omitempty"`
	BorderRadius    int       `json:"borderRadius,omitempty"`
	PointRadius     int       `json:"pointRadius,omitempty"`
	HoverRadius     int       `json:"pointHoverRadius,omitempty"`
	PointColor      string    `json:"pointBackgroundColor,omitempty"`

	// Tooltips holds the rendered tooltip line for each point.
	Tooltips []string `json:"tooltips,omitempty"`
}

// Data is the labels plus datasets of a chart.
type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Font describes a text style.
type Font struct {
	Size   int    `json:"size,omitempty"`
	Weight string `json:"weight,omitempty"`
	Family string `json:"family,omitempty"`
}

// Title is a chart or axis title.
type Title struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
	Font    *Font  `json:"font,omitempty"`
}

// Interaction controls hover behavior.
type Interaction struct {
	Mode      string `json:"mode"`
	Intersect bool   `json:"intersect"`
}

// Tooltip holds tooltip styling.
type Tooltip struct {
	Mode            string `json:"mode,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	TitleColor      string `json:"titleColor,omitempty"`
	BodyColor       string `json:"bodyColor,omitempty"`
}

// Legend holds legend placement.
type Legend struct {
	Position      string `json:"position,omitempty"`
	UsePointStyle bool   `json:"usePointStyle,omitempty"`
}

// Plugins groups the title, tooltip and legend options.
type Plugins struct {
	Title   Title   `json:"title"`
	Tooltip Tooltip `json:"tooltip"`
	Legend  *Legend `json:"legend,omitempty"`
}

// Scale is one axis.
type Scale struct {
	BeginAtZero bool   `json:"beginAtZero,omitempty"`
	Stacked     bool   `json:"stacked"`
	Title       *Title `json:"title,omitempty"`
	GridColor   string `json:"gridColor,omitempty"`
}

// Options are the chart-wide rendering options.
type Options struct {
	Responsive  bool             `json:"responsive"`
	Interaction *Interaction     `json:"interaction,omitempty"`
	Plugins     Plugins          `json:"plugins"`
	Scales      map[string]Scale `json:"scales"`
}

// Spec is a declarative chart handed to a canvas.
type Spec struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

// Title returns the chart title text.
func (s *Spec) Title() string {
	return s.Options.Plugins.Title.Text
}

// Dataset returns the dataset with the given label, or nil.
func (s *Spec) Dataset(label string) *Dataset {
	for i := range s.Data.Datasets {
		if s.Data.Datasets[i].Label == label {
			return &s.Data.Datasets[i]
		}
	}
	return nil
}
