package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/rewired-gh/salesdash/internal/chart"
	"github.com/rewired-gh/salesdash/internal/projector"
)

// ChartJSURL is the Chart.js build loaded by the HTML page.
const ChartJSURL = "https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"

type pageData struct {
	Title            string
	ChartJSURL       string
	Selection        Selection
	SalesColumns     []string
	SalesRows        []projector.Row
	InventoryColumns []string
	InventoryRows    []projector.Row
	InventoryVisible bool
	SalesCanvas      string
	InventoryCanvas  string
	SalesSpec        *chart.Spec
	InventorySpec    *chart.Spec
}

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

// WriteHTML renders the page as a standalone HTML document.
func (p *Page) WriteHTML(w io.Writer) error {
	data := pageData{
		Title:            p.Title,
		ChartJSURL:       ChartJSURL,
		Selection:        p.Selection(),
		SalesColumns:     p.SalesTable.Columns(),
		SalesRows:        p.SalesTable.Rows(),
		InventoryColumns: p.InventoryTable.Columns(),
		InventoryRows:    p.InventoryTable.Rows(),
		InventoryVisible: p.InventorySection.Visible(),
		SalesCanvas:      p.SalesCanvas.Name(),
		InventoryCanvas:  p.InventoryCanvas.Name(),
		SalesSpec:        p.SalesCanvas.Spec(),
		InventorySpec:    p.InventoryCanvas.Spec(),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// WriteFile renders the page to path, creating parent directories.
func (p *Page) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var buf bytes.Buffer
	if err := p.WriteHTML(&buf); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write page: %w", err)
	}
	return nil
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.ChartJSURL}}"></script>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 2rem; color: #2c3e50; }
table { border-collapse: collapse; margin: 1rem 0 2rem; }
th, td { padding: 0.4rem 0.8rem; border-bottom: 1px solid #e5e8ec; text-align: right; }
th:first-child, td:first-child { text-align: left; }
tr.summary td { font-weight: bold; border-top: 2px solid #2c3e50; }
.chart { max-width: 960px; }
.hidden { display: none; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>

<label for="yearSelect">Year</label>
<select id="yearSelect">
{{- range .Selection.Years}}
<option value="{{.}}"{{if eq . $.Selection.Year}} selected{{end}}>{{.}}</option>
{{- end}}
</select>

<section id="sales">
<div class="chart"><canvas id="{{.SalesCanvas}}"></canvas></div>
<table id="salesTable">
<thead><tr>{{range .SalesColumns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .SalesRows}}
<tr{{if .Summary}} class="summary"{{end}}>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
</section>

<section id="inventory"{{if not .InventoryVisible}} class="hidden"{{end}}>
<div class="chart"><canvas id="{{.InventoryCanvas}}"></canvas></div>
<table id="inventoryTable">
<thead><tr>{{range .InventoryColumns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .InventoryRows}}
<tr>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
</section>

<script>
const specs = { {{.SalesCanvas}}: {{.SalesSpec}}, {{.InventoryCanvas}}: {{.InventorySpec}} };

function draw(id, spec) {
  if (!spec || typeof Chart === "undefined") return;
  const ctx = document.getElementById(id).getContext("2d");
  for (const ds of spec.data.datasets) {
    if (ds.gradient) {
      const g = ctx.createLinearGradient(0, 0, 0, ds.gradient.height);
      g.addColorStop(0, ds.gradient.from);
      g.addColorStop(1, ds.gradient.to);
      ds.backgroundColor = g;
    }
  }
  for (const scale of Object.values(spec.options.scales || {})) {
    if (scale.gridColor) scale.grid = { color: scale.gridColor };
  }
  spec.options.plugins.tooltip.callbacks = {
    label: (c) => (c.dataset.tooltips || [])[c.dataIndex] || ""
  };
  new Chart(ctx, spec);
}

for (const [id, spec] of Object.entries(specs)) draw(id, spec);

document.getElementById("yearSelect").addEventListener("change", (e) => {
  window.location.href = "/years/" + e.target.value;
});
</script>
</body>
</html>
`
