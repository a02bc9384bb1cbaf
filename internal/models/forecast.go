package models

import (
	"fmt"
)

// ForecastPoint is one predicted month.
type ForecastPoint struct {
	PeriodStart    Date    `json:"ds"`
	PredictedSales float64 `json:"yhat"`
}

// ForecastReport is the /predict/{year} payload. No actuals exist in this mode.
type ForecastReport struct {
	Year                int             `json:"year"`
	Predicted           []ForecastPoint `json:"predicted"`
	TotalPredictedSales float64         `json:"totalPredictedSales"`
}

// Validate checks that every point carries a period.
func (r *ForecastReport) Validate() error {
	for i, p := range r.Predicted {
		if p.PeriodStart.IsZero() {
			return fmt.Errorf("forecast report: point %d has no period start", i)
		}
	}
	return nil
}
