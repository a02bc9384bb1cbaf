// Package models defines the backend payloads consumed by the dashboard.
// Field names and JSON tags match the sales backend exactly; every payload
// carries a Validate method so shape mismatches are caught at the adapter boundary.
//
// Terminology:
//   - Historical: a year with known actual results (SalesYearReport).
//   - Forecast: the designated future year, predictions only (ForecastReport).
//   - Inventory: the per sub-category snapshot used by the growth chart.
package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is shared; validator caches struct metadata and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// QuarterRecord is one row of a historical year.
type QuarterRecord struct {
	PeriodStart     Date    `json:"ds"`
	ActualSales     float64 `json:"actualSales"`
	ActualProfit    float64 `json:"actualProfit"`
	PredictedSales  float64 `json:"predictedSales"`
	AbsoluteError   float64 `json:"absoluteError"`
	ErrorPercentage float64 `json:"errorPercentage"`
}

// SummaryRecord holds the yearly totals. TotalErrorPercentage is nil when the
// backend could not compute it (zero actual sales).
type SummaryRecord struct {
	TotalActualSales     float64  `json:"totalActualSales"`
	TotalProfit          float64  `json:"totalProfit"`
	TotalPredictedSales  float64  `json:"totalPredictedSales"`
	TotalAbsoluteError   float64  `json:"totalAbsoluteError"`
	TotalErrorPercentage *float64 `json:"totalErrorPercentage"`
}

// SalesYearReport is the /sales/{year} payload.
// QuarterlyBreakdown is expected in ascending period order; the order is kept as sent.
type SalesYearReport struct {
	Year               int             `json:"year" validate:"required"`
	QuarterlyBreakdown []QuarterRecord `json:"quarterlyBreakdown"`
	YearlySummary      SummaryRecord   `json:"yearlySummary"`
}

// Validate checks that the report has the expected shape.
func (r *SalesYearReport) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("sales report: %w", err)
	}
	for i, q := range r.QuarterlyBreakdown {
		if q.PeriodStart.IsZero() {
			return fmt.Errorf("sales report: quarter %d has no period start", i)
		}
	}
	return nil
}

// ErrEmptySubCategory is returned for inventory items without a name.
var ErrEmptySubCategory = errors.New("sub-category must not be empty")
