// Package render provides the in-process rendering surfaces of the dashboard.
//
// A Page holds the two tables, the inventory section and the two chart
// canvases. The controller writes into it through a view.View; the page can
// then be serialized as a standalone HTML document or rasterized to PNG.
package render

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rewired-gh/salesdash/internal/chart"
	"github.com/rewired-gh/salesdash/internal/projector"
	"github.com/rewired-gh/salesdash/internal/view"
)

// ErrNilSpec is returned when a canvas is asked to draw nothing.
var ErrNilSpec = errors.New("nil chart spec")

// Table is an in-memory table sink.
type Table struct {
	mu      sync.RWMutex
	columns []string
	rows    []projector.Row
}

// NewTable creates an empty table with the given header.
func NewTable(columns []string) *Table {
	return &Table{columns: columns}
}

// Replace swaps the table body.
func (t *Table) Replace(rows []projector.Row) {
	cp := make([]projector.Row, len(rows))
	copy(cp, rows)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = cp
}

// Columns returns the header.
func (t *Table) Columns() []string {
	return t.columns
}

// Rows returns a copy of the body.
func (t *Table) Rows() []projector.Row {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cp := make([]projector.Row, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// Section is a hideable container.
type Section struct {
	mu      sync.RWMutex
	visible bool
}

// Show makes the section visible.
func (s *Section) Show() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = true
}

// Visible reports whether Show has been called.
func (s *Section) Visible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visible
}

// Canvas is an in-memory drawing surface. It remembers every instance that
// has been attached and not yet destroyed.
type Canvas struct {
	name string

	mu      sync.RWMutex
	live    map[string]*chart.Spec
	current string
}

// NewCanvas creates an empty canvas.
func NewCanvas(name string) *Canvas {
	return &Canvas{name: name, live: make(map[string]*chart.Spec)}
}

// Name returns the canvas element id.
func (c *Canvas) Name() string {
	return c.name
}

// Attach draws spec as a new instance.
func (c *Canvas) Attach(id string, spec *chart.Spec) (chart.Instance, error) {
	if spec == nil {
		return nil, fmt.Errorf("canvas %s: %w", c.name, ErrNilSpec)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live[id] = spec
	c.current = id
	return &instance{canvas: c, id: id}, nil
}

// LiveCount returns the number of attached, undestroyed instances.
func (c *Canvas) LiveCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.live)
}

// Spec returns the most recently attached live spec, or nil.
func (c *Canvas) Spec() *chart.Spec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.live[c.current]
}

type instance struct {
	canvas *Canvas
	id     string
}

func (i *instance) Destroy() {
	c := i.canvas
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.live, i.id)
	if c.current == i.id {
		c.current = ""
	}
}

// Selection describes the year control as last applied.
type Selection struct {
	Years []int
	Year  int
	Mode  view.State
}

// Page is the whole dashboard surface.
type Page struct {
	Title            string
	SalesTable       *Table
	InventoryTable   *Table
	InventorySection *Section
	SalesCanvas      *Canvas
	InventoryCanvas  *Canvas

	view *view.View

	mu        sync.RWMutex
	selection Selection
}

// NewPage creates an empty page and the View that writes into it.
func NewPage(title string) *Page {
	p := &Page{
		Title:            title,
		SalesTable:       NewTable(projector.SalesColumns),
		InventoryTable:   NewTable(projector.InventoryColumns),
		InventorySection: &Section{},
		SalesCanvas:      NewCanvas(chart.SalesCanvas),
		InventoryCanvas:  NewCanvas(chart.InventoryCanvas),
	}
	p.view = &view.View{
		SalesTable:       p.SalesTable,
		InventoryTable:   p.InventoryTable,
		InventorySection: p.InventorySection,
		SalesChart:       chart.NewSlot(p.SalesCanvas),
		InventoryChart:   chart.NewSlot(p.InventoryCanvas),
	}
	return p
}

// View returns the sinks bundle for the controller. The same View is returned on every call.
func (p *Page) View() *view.View {
	return p.view
}

// Canvas looks a canvas up by element id. It returns nil for unknown names.
func (p *Page) Canvas(name string) *Canvas {
	switch name {
	case chart.SalesCanvas:
		return p.SalesCanvas
	case chart.InventoryCanvas:
		return p.InventoryCanvas
	default:
		return nil
	}
}

// Canvases returns both canvases in page order.
func (p *Page) Canvases() []*Canvas {
	return []*Canvas{p.SalesCanvas, p.InventoryCanvas}
}

// SetSelection records the year control state shown by the page.
func (p *Page) SetSelection(sel Selection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selection = sel
}

// Selection returns the last recorded year control state.
func (p *Page) Selection() Selection {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selection
}

// SyncSelection copies the controller's year options and current selection into the page.
func (p *Page) SyncSelection(c *view.Controller) {
	state, year := c.State()
	p.SetSelection(Selection{Years: c.YearOptions(), Year: year, Mode: state})
}
