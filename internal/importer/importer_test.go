package importer

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wxyzh/excel-style-ranges/internal/excel"
	"github.com/wxyzh/excel-style-ranges/internal/stylerange"
)

type fakeWorksheet struct {
	dimension  string
	colStyles  []string
	cells      []excel.CellStyleInfo
	walkedRefs []string
}

func (w *fakeWorksheet) Release()                                             {}
func (w *fakeWorksheet) Name() (string, error)                                { return "Sheet1", nil }
func (w *fakeWorksheet) Index() int                                           { return 0 }
func (w *fakeWorksheet) GetDimention() (string, error)                        { return w.dimension, nil }
func (w *fakeWorksheet) SetRangeStyle(string, string, *excel.CellStyle) error { return nil }

func (w *fakeWorksheet) ColumnStyleNames(count int, registry *excel.StyleRegistry) ([]string, error) {
	names := make([]string, count)
	for i := range names {
		names[i] = stylerange.DefaultStyleName
		if i < len(w.colStyles) {
			names[i] = registry.RegisterNamed(w.colStyles[i], nil)
		}
	}
	return names, nil
}

func (w *fakeWorksheet) WalkCellStyles(cellRange string, _ *excel.StyleRegistry, visit func(excel.CellStyleInfo) error) error {
	w.walkedRefs = append(w.walkedRefs, cellRange)
	for _, cell := range w.cells {
		if err := visit(cell); err != nil {
			return err
		}
	}
	return nil
}

// row 1 explicit, row 2 styled by its row, row 3 by its columns
func newFakeWorksheet() *fakeWorksheet {
	w := &fakeWorksheet{
		dimension: "A1:C3",
		colStyles: []string{"colA", "colA", "colB"},
	}
	for col := 1; col <= 3; col++ {
		w.cells = append(w.cells, excel.CellStyleInfo{Row: 1, Col: col, Style: "s1", Explicit: true, Category: stylerange.CategoryText})
	}
	for col := 1; col <= 3; col++ {
		w.cells = append(w.cells, excel.CellStyleInfo{Row: 2, Col: col, Style: "rowStyle", RowStyle: "rowStyle", Category: stylerange.CategoryNumeric})
	}
	for col := 1; col <= 3; col++ {
		w.cells = append(w.cells, excel.CellStyleInfo{Row: 3, Col: col, Style: w.colStyles[col-1], Category: stylerange.CategoryUndefined})
	}
	return w
}

func refs(assignments []stylerange.Assignment) []string {
	var result []string
	for _, a := range assignments {
		result = append(result, a.Style+" "+a.Ref)
	}
	return result
}

func TestCoalesceSheet(t *testing.T) {
	worksheet := newFakeWorksheet()
	collector := &stylerange.Collector{}

	result, err := CoalesceSheet(context.Background(), worksheet, excel.NewStyleRegistry(), Options{}, collector)
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", result.SheetName)
	assert.Equal(t, "A1:C3", result.Range)
	assert.Equal(t, []string{"A1:C3"}, worksheet.walkedRefs)
	assert.Equal(t, stylerange.Stats{Cells: 9, Ranges: 4}, result.Stats)
	assert.Equal(t, []string{
		"colA A3:B3",
		"colB C3:C3",
		"rowStyle A2:C2",
		"s1 A1:C1",
	}, refs(collector.Assignments))
	assert.Equal(t, stylerange.CategoryNumeric, collector.Assignments[2].Category)
}

func TestCoalesceSheet_Range(t *testing.T) {
	worksheet := newFakeWorksheet()

	result, err := CoalesceSheet(context.Background(), worksheet, excel.NewStyleRegistry(), Options{Range: "$C$3:A1"}, &stylerange.Collector{})
	require.NoError(t, err)
	assert.Equal(t, "A1:C3", result.Range)
}

func TestCoalesceSheet_MaxCells(t *testing.T) {
	worksheet := newFakeWorksheet()

	_, err := CoalesceSheet(context.Background(), worksheet, excel.NewStyleRegistry(), Options{MaxCells: 8}, &stylerange.Collector{})
	assert.ErrorIs(t, err, ErrTooManyCells)
	assert.Empty(t, worksheet.walkedRefs)
}

func TestCoalesceSheet_InvalidRange(t *testing.T) {
	_, err := CoalesceSheet(context.Background(), newFakeWorksheet(), excel.NewStyleRegistry(), Options{Range: "A1:"}, &stylerange.Collector{})
	assert.ErrorContains(t, err, `invalid range "A1:"`)
}

func TestCoalesceSheet_InsertCols(t *testing.T) {
	collector := &stylerange.Collector{}

	_, err := CoalesceSheet(context.Background(), newFakeWorksheet(), excel.NewStyleRegistry(), Options{InsertCols: []int{1}}, collector)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"colA A3:C3",
		"colB D3:D3",
		"rowStyle A2:D2",
		"s1 A1:D1",
	}, refs(collector.Assignments))
}

func TestCoalesceSheet_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	collector := &stylerange.Collector{}

	_, err := CoalesceSheet(ctx, newFakeWorksheet(), excel.NewStyleRegistry(), Options{}, collector)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, collector.Assignments)
}

func TestCoalesceSheet_SinkError(t *testing.T) {
	failing := stylerange.SinkFunc(func(context.Context, stylerange.Range, string, stylerange.Category, string) error {
		return assert.AnError
	})

	_, err := CoalesceSheet(context.Background(), newFakeWorksheet(), excel.NewStyleRegistry(), Options{}, failing)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestCoalesceSheet_LogsDiagnostics(t *testing.T) {
	worksheet := newFakeWorksheet()
	// a gap in row 1
	worksheet.cells = append(worksheet.cells[:1], worksheet.cells[2:]...)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	result, err := CoalesceSheet(ctx, worksheet, excel.NewStyleRegistry(), Options{}, &stylerange.Collector{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.Diagnostics)
	assert.Contains(t, buf.String(), "along the row")
	assert.Contains(t, buf.String(), `"sheetName":"Sheet1"`)
}

func TestCoalesceSheet_Excelize(t *testing.T) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	require.NoError(t, err)
	fill, err := f.NewStyle(&excelize.Style{Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFFF00"}}})
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "name"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", 42))
	require.NoError(t, f.SetCellStyle("Sheet1", "A1", "B1", bold))
	require.NoError(t, f.SetColStyle("Sheet1", "C", fill))
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	workbook, release, err := excel.OpenFile(path, excel.BackendExcelize)
	require.NoError(t, err)
	defer release()
	worksheet, err := workbook.FindSheet("Sheet1")
	require.NoError(t, err)
	defer worksheet.Release()

	registry := excel.NewStyleRegistry()
	collector := &stylerange.Collector{}
	result, err := CoalesceSheet(context.Background(), worksheet, registry, Options{Range: "A1:C2"}, collector)
	require.NoError(t, err)

	assert.Equal(t, 6, result.Stats.Cells)
	assert.Zero(t, result.Stats.Diagnostics)
	// the column style is registered first (s1), the bold header second (s2)
	assert.Equal(t, []string{
		"Default A2:B2",
		"s1 C1:C1",
		"s1 C2:C2",
		"s2 B1:B1",
		"s2 A1:A1",
	}, refs(collector.Assignments))
	assert.Equal(t, stylerange.CategoryNumeric, collector.Assignments[3].Category)
	assert.Equal(t, stylerange.CategoryText, collector.Assignments[4].Category)
}

func TestCoalesceSheet_ExcelizeRowAndColumnStyle(t *testing.T) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	require.NoError(t, err)
	fill, err := f.NewStyle(&excelize.Style{Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFFF00"}}})
	require.NoError(t, err)
	require.NoError(t, f.SetColStyle("Sheet1", "A", bold))
	require.NoError(t, f.SetRowStyle("Sheet1", 1, 1, fill))
	// the cell repeats its column style under a filled row
	require.NoError(t, f.SetCellStyle("Sheet1", "A1", "A1", bold))
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	workbook, release, err := excel.OpenFile(path, excel.BackendExcelize)
	require.NoError(t, err)
	defer release()
	worksheet, err := workbook.FindSheet("Sheet1")
	require.NoError(t, err)
	defer worksheet.Release()

	registry := excel.NewStyleRegistry()
	collector := &stylerange.Collector{}
	_, err = CoalesceSheet(context.Background(), worksheet, registry, Options{Range: "A1:B1"}, collector)
	require.NoError(t, err)

	require.Equal(t, []string{"s1 A1:A1", "s2 B1:B1"}, refs(collector.Assignments))
	a1, ok := registry.Style(collector.Assignments[0].Style)
	require.True(t, ok)
	require.NotNil(t, a1.Font)
	assert.True(t, a1.Font.Bold)
	b1, ok := registry.Style(collector.Assignments[1].Style)
	require.True(t, ok)
	require.NotNil(t, b1.Fill)
	assert.Equal(t, "pattern", b1.Fill.Type)
}
