package projector

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Placeholder fills cells that have no value in the current mode.
const Placeholder = "-"

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Fixed2 renders v with exactly two decimals, rounding the exact binary
// value the way a browser's toFixed(2) does. Non-finite values render as
// the placeholder.
func Fixed2(v float64) string {
	if !finite(v) {
		return Placeholder
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Percent2 renders v with exactly two decimals and a trailing %.
func Percent2(v float64) string {
	if !finite(v) {
		return Placeholder
	}
	return Fixed2(v) + "%"
}

// AsIs renders v in its shortest decimal form, without forced rounding.
func AsIs(v float64) string {
	if !finite(v) {
		return Placeholder
	}
	return decimal.NewFromFloat(v).String()
}

// Round2 returns v rounded to two decimals, the value a chart plots.
// Non-finite values plot as zero.
func Round2(v float64) float64 {
	if !finite(v) {
		return 0
	}
	r, _ := strconv.ParseFloat(Fixed2(v), 64)
	return r
}
