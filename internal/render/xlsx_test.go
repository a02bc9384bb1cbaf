package render

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rewired-gh/salesdash/internal/projector"
)

func TestWriteXLSX(t *testing.T) {
	page := renderedPage(t, 2024)

	var buf bytes.Buffer
	require.NoError(t, page.WriteXLSX(&buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SalesSheet, InventorySheet}, f.GetSheetList())

	sales, err := f.GetRows(SalesSheet)
	require.NoError(t, err)
	require.Len(t, sales, 3)
	assert.Equal(t, projector.SalesColumns, sales[0])
	assert.Equal(t, "Jan Q 2024", sales[1][0])
	assert.Equal(t, []string{"Total", "100.00", "0.00", "90.00", "10.00", "10%"}, sales[2])

	inventory, err := f.GetRows(InventorySheet)
	require.NoError(t, err)
	require.Len(t, inventory, 3)
	assert.Equal(t, projector.InventoryColumns, inventory[0])
	assert.Equal(t, []string{"Tables", "80.00", "70.00", "-12.50%", "-"}, inventory[2])
}

func TestWriteXLSXEmptyPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPage("empty").WriteXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SalesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, projector.SalesColumns, rows[0])
}

func TestWriteXLSXFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "dashboard.xlsx")
	require.NoError(t, renderedPage(t, 2025).WriteXLSXFile(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(SalesSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Jan 2025", v)
}
