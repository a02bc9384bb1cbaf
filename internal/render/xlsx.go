package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SalesSheet     = "Sales"
	InventorySheet = "Inventory"
)

// WriteXLSX exports both tables as a workbook with one sheet each.
// Cells keep their displayed text; header and totals rows are bold.
func (p *Page) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SalesSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(InventorySheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	for _, t := range []struct {
		sheet string
		table *Table
	}{
		{SalesSheet, p.SalesTable},
		{InventorySheet, p.InventoryTable},
	} {
		if err := writeSheet(f, t.sheet, t.table, bold); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t *Table, bold int) error {
	columns := t.Columns()
	if err := setRow(f, sheet, 1, columns, bold); err != nil {
		return err
	}
	for i, col := range columns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, float64(max(len(col), 12)+2)); err != nil {
			return fmt.Errorf("failed to size %s!%s: %w", sheet, name, err)
		}
	}

	for i, row := range t.Rows() {
		style := 0
		if row.Summary {
			style = bold
		}
		if err := setRow(f, sheet, i+2, row.Cells, style); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []string, style int) error {
	if len(cells) == 0 {
		return nil
	}
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	if style == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(cells), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}

// WriteXLSXFile exports the workbook to path, creating parent directories.
func (p *Page) WriteXLSXFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create workbook: %w", err)
	}
	if err := p.WriteXLSX(out); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
