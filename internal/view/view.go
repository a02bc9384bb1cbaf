package view

import (
	"github.com/rewired-gh/salesdash/internal/chart"
	"github.com/rewired-gh/salesdash/internal/projector"
)

// Table is a rendering sink that accepts rows of formatted cells.
type Table interface {
	Replace(rows []projector.Row)
}

// Section is a container that can be made visible.
type Section interface {
	Show()
}

// View bundles every sink the controller writes to. Each chart slot is
// exclusively owned by the View it belongs to.
type View struct {
	SalesTable       Table
	InventoryTable   Table
	InventorySection Section
	SalesChart       *chart.Slot
	InventoryChart   *chart.Slot
}

// InventoryPolicy decides what an empty inventory snapshot does to the view.
type InventoryPolicy string

const (
	// KeepLastGood leaves previous inventory rows and chart in place.
	KeepLastGood InventoryPolicy = "keep"
	// ClearOnEmpty empties the inventory table and releases its chart.
	ClearOnEmpty InventoryPolicy = "clear"
)

// State is the controller's display mode.
type State int

const (
	Uninitialized State = iota
	Historical
	Forecast
)

func (s State) String() string {
	switch s {
	case Historical:
		return "historical"
	case Forecast:
		return "forecast"
	default:
		return "uninitialized"
	}
}
