package render

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/salesdash/internal/chart"
	"github.com/rewired-gh/salesdash/internal/models"
	"github.com/rewired-gh/salesdash/internal/projector"
	"github.com/rewired-gh/salesdash/internal/view"
)

type staticSource struct{}

func (staticSource) FetchSales(ctx context.Context, year int) *models.SalesYearReport {
	errPct := 10.0
	return &models.SalesYearReport{
		Year: year,
		QuarterlyBreakdown: []models.QuarterRecord{{
			PeriodStart:     models.NewDate(year, time.January, 1),
			ActualSales:     100,
			PredictedSales:  90,
			AbsoluteError:   10,
			ErrorPercentage: 10,
		}},
		YearlySummary: models.SummaryRecord{
			TotalActualSales:     100,
			TotalPredictedSales:  90,
			TotalAbsoluteError:   10,
			TotalErrorPercentage: &errPct,
		},
	}
}

func (staticSource) FetchForecast(ctx context.Context, year int) *models.ForecastReport {
	return &models.ForecastReport{
		Year:                year,
		Predicted:           []models.ForecastPoint{{PeriodStart: models.NewDate(year, time.January, 1), PredictedSales: 50}},
		TotalPredictedSales: 50,
	}
}

func (staticSource) FetchInventory(ctx context.Context) []models.InventoryItem {
	return []models.InventoryItem{
		{SubCategory: "Chairs", BaseSales2024: 200, GrowthPercent: 10, CampaignSuggestion: "Bundle <b>deal</b>"},
		{SubCategory: "Tables", BaseSales2024: 80, GrowthPercent: -12.5},
	}
}

func renderedPage(t *testing.T, year int) *Page {
	t.Helper()
	page := NewPage("Sales Dashboard")
	c := view.New(staticSource{}, page.View(), view.Options{CurrentYear: 2025, ForecastYear: 2025})
	require.NoError(t, c.SelectYear(context.Background(), year))
	page.SyncSelection(c)
	return page
}

func TestTableReplaceCopiesRows(t *testing.T) {
	table := NewTable(projector.SalesColumns)
	rows := []projector.Row{{Cells: []string{"a"}}}
	table.Replace(rows)
	rows[0] = projector.Row{Cells: []string{"b"}}

	assert.Equal(t, "a", table.Rows()[0].Cells[0])
	assert.Equal(t, projector.SalesColumns, table.Columns())

	table.Replace(nil)
	assert.Empty(t, table.Rows())
}

func TestSection(t *testing.T) {
	var s Section
	assert.False(t, s.Visible())
	s.Show()
	assert.True(t, s.Visible())
}

func TestCanvasTracksLiveInstances(t *testing.T) {
	c := NewCanvas(chart.SalesCanvas)
	spec, err := chart.BuildSalesChart([]string{"Jan"}, []float64{1}, []float64{2}, "t")
	require.NoError(t, err)

	a, err := c.Attach("a", spec)
	require.NoError(t, err)
	b, err := c.Attach("b", spec)
	require.NoError(t, err)
	assert.Equal(t, 2, c.LiveCount())

	b.Destroy()
	assert.Nil(t, c.Spec())
	a.Destroy()
	assert.Equal(t, 0, c.LiveCount())

	_, err = c.Attach("c", nil)
	assert.ErrorIs(t, err, ErrNilSpec)
}

func TestPageLookup(t *testing.T) {
	page := NewPage("x")
	assert.Same(t, page.SalesCanvas, page.Canvas(chart.SalesCanvas))
	assert.Same(t, page.InventoryCanvas, page.Canvas(chart.InventoryCanvas))
	assert.Nil(t, page.Canvas("nope"))
	assert.Same(t, page.View(), page.View())
}

func TestPageRepeatedSelectionsKeepOneChartPerCanvas(t *testing.T) {
	page := NewPage("x")
	c := view.New(staticSource{}, page.View(), view.Options{CurrentYear: 2025, ForecastYear: 2025})
	for i := 0; i < 4; i++ {
		require.NoError(t, c.SelectYear(context.Background(), 2024+i%2))
	}
	assert.Equal(t, 1, page.SalesCanvas.LiveCount())
	assert.Equal(t, 1, page.InventoryCanvas.LiveCount())
}

func TestWriteHTMLHistorical(t *testing.T) {
	page := renderedPage(t, 2024)

	var buf bytes.Buffer
	require.NoError(t, page.WriteHTML(&buf))
	html := buf.String()

	assert.Contains(t, html, "<title>Sales Dashboard</title>")
	assert.Contains(t, html, `<option value="2024" selected>2024</option>`)
	assert.Contains(t, html, `<option value="2025">2025</option>`)
	assert.Contains(t, html, "<td>Jan Q 2024</td>")
	assert.Contains(t, html, `<tr class="summary"><td>Total</td>`)
	assert.Contains(t, html, "<td>10%</td>")
	assert.Contains(t, html, "<td>220.00</td>")
	assert.Contains(t, html, `id="salesChart"`)
	assert.Contains(t, html, projector.HistoricalTitle)
	assert.NotContains(t, html, `id="inventory" class="hidden"`)

	// Backend strings are escaped.
	assert.Contains(t, html, "Bundle &lt;b&gt;deal&lt;/b&gt;")
	assert.NotContains(t, html, "<b>deal</b>")
}

func TestSyncSelection(t *testing.T) {
	page := renderedPage(t, 2025)
	sel := page.Selection()
	assert.Equal(t, []int{2024, 2025}, sel.Years)
	assert.Equal(t, 2025, sel.Year)
	assert.Equal(t, view.Forecast, sel.Mode)
}

func TestWriteHTMLForecast(t *testing.T) {
	page := renderedPage(t, 2025)

	var buf bytes.Buffer
	require.NoError(t, page.WriteHTML(&buf))
	html := buf.String()

	assert.Contains(t, html, "<td>Jan 2025</td>")
	assert.Contains(t, html, "Predicted Sales for 2025")
	assert.Contains(t, html, `<option value="2025" selected>2025</option>`)
}

func TestWriteHTMLEmptyPage(t *testing.T) {
	page := NewPage("Empty")

	var buf bytes.Buffer
	require.NoError(t, page.WriteHTML(&buf))
	html := buf.String()

	assert.Contains(t, html, `id="inventory" class="hidden"`)
	assert.Contains(t, html, "null")
}

func TestWriteFile(t *testing.T) {
	page := renderedPage(t, 2024)
	path := filepath.Join(t.TempDir(), "nested", "dashboard.html")

	require.NoError(t, page.WriteFile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "<!DOCTYPE html>"))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
