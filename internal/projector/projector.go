// Package projector turns backend payloads into display rows and chart series.
//
// Historical years show actuals next to predictions with error metrics.
// The forecast year has predictions only, so actual cells hold the
// placeholder and the actual series is a flat zero baseline. The inventory
// projection is independent of the year mode.
package projector

import (
	"fmt"

	"github.com/rewired-gh/salesdash/internal/models"
)

// SalesColumns is the fixed layout of the sales table.
var SalesColumns = []string{"Period", "Actual Sales", "Actual Profit", "Predicted Sales", "Absolute Error", "Error %"}

// InventoryColumns is the fixed layout of the inventory table.
var InventoryColumns = []string{"Sub-Category", "Current Sales", "Projected Sales", "Growth %", "Campaign Suggestion"}

// HistoricalTitle is the sales chart title for years with actuals.
const HistoricalTitle = "Quarterly Sales vs Predicted Sales"

// ForecastTitle is the sales chart title for the forecast year.
func ForecastTitle(year int) string {
	return fmt.Sprintf("Predicted Sales for %d", year)
}

// Row is one table row of formatted cells. Summary marks the totals row.
type Row struct {
	Cells   []string
	Summary bool
}

// SalesSeries feeds the time-series chart. Actual and Predicted have len(Labels) entries.
type SalesSeries struct {
	Title     string
	Labels    []string
	Actual    []float64
	Predicted []float64
}

// SalesProjection is everything the sales table and chart need for one year.
type SalesProjection struct {
	Rows   []Row
	Series SalesSeries
}

// InventorySeries feeds the inventory bar chart. Growth holds the raw percentages.
type InventorySeries struct {
	Labels  []string
	Current []float64
	Future  []float64
	Growth  []float64
}

// InventoryProjection is everything the inventory table and chart need.
type InventoryProjection struct {
	Rows   []Row
	Series InventorySeries
}

// Empty reports whether the snapshot produced nothing to render.
func (p InventoryProjection) Empty() bool {
	return len(p.Rows) == 0
}

// ProjectHistorical builds one row per quarter plus the totals row.
func ProjectHistorical(r *models.SalesYearReport) SalesProjection {
	n := len(r.QuarterlyBreakdown)
	p := SalesProjection{
		Rows: make([]Row, 0, n+1),
		Series: SalesSeries{
			Title:     HistoricalTitle,
			Labels:    make([]string, 0, n),
			Actual:    make([]float64, 0, n),
			Predicted: make([]float64, 0, n),
		},
	}

	for _, q := range r.QuarterlyBreakdown {
		label := q.PeriodStart.MonthAbbr() + " Q"
		p.Series.Labels = append(p.Series.Labels, label)
		p.Series.Actual = append(p.Series.Actual, Round2(q.ActualSales))
		p.Series.Predicted = append(p.Series.Predicted, Round2(q.PredictedSales))

		p.Rows = append(p.Rows, Row{Cells: []string{
			fmt.Sprintf("%s %d", label, r.Year),
			Fixed2(q.ActualSales),
			Fixed2(q.ActualProfit),
			Fixed2(q.PredictedSales),
			Fixed2(q.AbsoluteError),
			Percent2(q.ErrorPercentage),
		}})
	}

	s := r.YearlySummary
	totalErr := Placeholder
	if v := s.TotalErrorPercentage; v != nil && finite(*v) {
		totalErr = AsIs(*v) + "%"
	}
	p.Rows = append(p.Rows, Row{Summary: true, Cells: []string{
		"Total",
		Fixed2(s.TotalActualSales),
		Fixed2(s.TotalProfit),
		Fixed2(s.TotalPredictedSales),
		Fixed2(s.TotalAbsoluteError),
		totalErr,
	}})

	return p
}

// ProjectForecast builds one row per predicted month plus the totals row.
// year is the selected year, used in labels and the title.
func ProjectForecast(r *models.ForecastReport, year int) SalesProjection {
	n := len(r.Predicted)
	p := SalesProjection{
		Rows: make([]Row, 0, n+1),
		Series: SalesSeries{
			Title:     ForecastTitle(year),
			Labels:    make([]string, 0, n),
			Actual:    make([]float64, 0, n),
			Predicted: make([]float64, 0, n),
		},
	}

	for _, pt := range r.Predicted {
		month := pt.PeriodStart.MonthAbbr()
		p.Series.Labels = append(p.Series.Labels, month)
		p.Series.Actual = append(p.Series.Actual, 0)
		p.Series.Predicted = append(p.Series.Predicted, Round2(pt.PredictedSales))

		p.Rows = append(p.Rows, Row{Cells: []string{
			fmt.Sprintf("%s %d", month, year),
			Placeholder,
			Placeholder,
			Fixed2(pt.PredictedSales),
			Placeholder,
			Placeholder,
		}})
	}

	p.Rows = append(p.Rows, Row{Summary: true, Cells: []string{
		"Total",
		Placeholder,
		Placeholder,
		Fixed2(r.TotalPredictedSales),
		Placeholder,
		Placeholder,
	}})

	return p
}

// ProjectedSales applies a signed growth percentage to a base amount.
func ProjectedSales(base, growthPercent float64) float64 {
	return base * (1 + growthPercent/100)
}

// ProjectInventory builds one row and one bar pair per sub-category.
// An empty snapshot yields an empty projection.
func ProjectInventory(items []models.InventoryItem) InventoryProjection {
	n := len(items)
	p := InventoryProjection{
		Rows: make([]Row, 0, n),
		Series: InventorySeries{
			Labels:  make([]string, 0, n),
			Current: make([]float64, 0, n),
			Future:  make([]float64, 0, n),
			Growth:  make([]float64, 0, n),
		},
	}

	for _, item := range items {
		projected := ProjectedSales(item.BaseSales2024, item.GrowthPercent)

		p.Series.Labels = append(p.Series.Labels, item.SubCategory)
		p.Series.Current = append(p.Series.Current, Round2(item.BaseSales2024))
		p.Series.Future = append(p.Series.Future, Round2(projected))
		p.Series.Growth = append(p.Series.Growth, item.GrowthPercent)

		campaign := item.CampaignSuggestion
		if campaign == "" {
			campaign = Placeholder
		}
		p.Rows = append(p.Rows, Row{Cells: []string{
			item.SubCategory,
			Fixed2(item.BaseSales2024),
			Fixed2(projected),
			Percent2(item.GrowthPercent),
			campaign,
		}})
	}

	return p
}
