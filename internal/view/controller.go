// Package view orchestrates a year selection: it picks the historical or
// forecast pipeline, fetches through the data source, projects rows, builds
// charts and writes the results into an explicit View.
//
// Overlapping selections are resolved by epoch. Each selection takes the next
// epoch, and a pipeline only touches the View if its epoch is still the latest
// when its data arrives. Slower, older pipelines are discarded.
package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rewired-gh/salesdash/internal/chart"
	"github.com/rewired-gh/salesdash/internal/logger"
	"github.com/rewired-gh/salesdash/internal/models"
	"github.com/rewired-gh/salesdash/internal/projector"
)

// ErrYearOutOfRange is returned for a year outside the selection control's range.
var ErrYearOutOfRange = errors.New("year out of range")

// Source is the dashboard's data source. Failures are reported as nil or empty results.
type Source interface {
	FetchSales(ctx context.Context, year int) *models.SalesYearReport
	FetchForecast(ctx context.Context, year int) *models.ForecastReport
	FetchInventory(ctx context.Context) []models.InventoryItem
}

// Options configures the selectable years and the empty-inventory policy.
type Options struct {
	CurrentYear     int
	ForecastYear    int
	InventoryPolicy InventoryPolicy
}

// Controller reacts to year selections. It has no terminal state.
type Controller struct {
	source Source
	view   *View
	opts   Options

	mu    sync.Mutex
	epoch uint64
	state State
	year  int
}

// New creates a controller. Every field of v must be set.
func New(source Source, v *View, opts Options) *Controller {
	if opts.InventoryPolicy == "" {
		opts.InventoryPolicy = KeepLastGood
	}
	return &Controller{
		source: source,
		view:   v,
		opts:   opts,
	}
}

// YearOptions returns the selectable years, last calendar year through the forecast year.
func (c *Controller) YearOptions() []int {
	first := c.opts.CurrentYear - 1
	years := make([]int, 0, c.opts.ForecastYear-first+1)
	for y := first; y <= c.opts.ForecastYear; y++ {
		years = append(years, y)
	}
	return years
}

// DefaultYear is the year selected on load.
func (c *Controller) DefaultYear() int {
	return c.opts.CurrentYear - 1
}

// State returns the current mode and selected year.
func (c *Controller) State() (State, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.year
}

// Start performs the initial selection.
func (c *Controller) Start(ctx context.Context) error {
	return c.SelectYear(ctx, c.DefaultYear())
}

// SelectYear runs the sales and inventory pipelines for year and returns once
// both have finished or been discarded. Fetch failures leave the View as it was.
func (c *Controller) SelectYear(ctx context.Context, year int) error {
	if year < c.opts.CurrentYear-1 || year > c.opts.ForecastYear {
		return fmt.Errorf("%w: %d not in %d..%d", ErrYearOutOfRange, year, c.opts.CurrentYear-1, c.opts.ForecastYear)
	}

	mode := Historical
	if year == c.opts.ForecastYear {
		mode = Forecast
	}

	c.mu.Lock()
	c.epoch++
	epoch := c.epoch
	c.state = mode
	c.year = year
	c.view.InventorySection.Show()
	c.mu.Unlock()

	logger.Info("Year %d selected (%s, epoch %d)", year, mode, epoch)

	var g errgroup.Group
	g.Go(func() error {
		c.renderSales(ctx, epoch, mode, year)
		return nil
	})
	g.Go(func() error {
		c.renderInventory(ctx, epoch)
		return nil
	})
	return g.Wait()
}

// apply runs fn against the View only if epoch is still current.
func (c *Controller) apply(epoch uint64, what string, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		logger.Debug("Discarding stale %s result (epoch %d, current %d)", what, epoch, c.epoch)
		return false
	}
	fn()
	return true
}

func (c *Controller) renderSales(ctx context.Context, epoch uint64, mode State, year int) {
	var proj projector.SalesProjection
	switch mode {
	case Forecast:
		report := c.source.FetchForecast(ctx, year)
		if report == nil {
			return
		}
		proj = projector.ProjectForecast(report, year)
	default:
		report := c.source.FetchSales(ctx, year)
		if report == nil {
			return
		}
		proj = projector.ProjectHistorical(report)
	}

	spec, err := chart.BuildSalesChart(proj.Series.Labels, proj.Series.Actual, proj.Series.Predicted, proj.Series.Title)
	if err != nil {
		logger.Error("Failed to build sales chart for %d: %v", year, err)
		return
	}

	c.apply(epoch, "sales", func() {
		c.view.SalesTable.Replace(proj.Rows)
		if _, err := c.view.SalesChart.Replace(spec); err != nil {
			logger.Warn("Failed to render sales chart: %v", err)
		}
	})
}

func (c *Controller) renderInventory(ctx context.Context, epoch uint64) {
	proj := projector.ProjectInventory(c.source.FetchInventory(ctx))

	if proj.Empty() {
		if c.opts.InventoryPolicy == ClearOnEmpty {
			c.apply(epoch, "inventory", func() {
				c.view.InventoryTable.Replace(nil)
				c.view.InventoryChart.Release()
			})
		}
		return
	}

	s := proj.Series
	spec, err := chart.BuildInventoryChart(s.Labels, s.Current, s.Future, s.Growth)
	if err != nil {
		logger.Error("Failed to build inventory chart: %v", err)
		return
	}

	c.apply(epoch, "inventory", func() {
		c.view.InventoryTable.Replace(proj.Rows)
		if _, err := c.view.InventoryChart.Replace(spec); err != nil {
			logger.Warn("Failed to render inventory chart: %v", err)
		}
	})
}
