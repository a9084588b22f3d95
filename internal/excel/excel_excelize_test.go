package excel

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wxyzh/excel-style-ranges/internal/stylerange"
)

// newTestWorkbook builds Sheet1 with a bold header row A1:B1 (text, number),
// a filled column C and an empty second row.
func newTestWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	require.NoError(t, err)
	fill, err := f.NewStyle(&excelize.Style{Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFFF00"}}})
	require.NoError(t, err)

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "name"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", 42))
	require.NoError(t, f.SetCellStyle("Sheet1", "A1", "B1", bold))
	require.NoError(t, f.SetColStyle("Sheet1", "C", fill))
	_, err = f.NewSheet("Sheet2")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "styles.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func openTestWorkbook(t *testing.T, path string) Excel {
	t.Helper()
	workbook, release, err := OpenFile(path, BackendExcelize)
	require.NoError(t, err)
	t.Cleanup(release)
	assert.Equal(t, "excelize", workbook.GetBackendName())
	return workbook
}

func TestExcelizeExcel_FindSheet(t *testing.T) {
	workbook := openTestWorkbook(t, newTestWorkbook(t))

	sheet, err := workbook.FindSheet("Sheet2")
	require.NoError(t, err)
	name, err := sheet.Name()
	require.NoError(t, err)
	assert.Equal(t, "Sheet2", name)
	assert.Equal(t, 1, sheet.Index())

	_, err = workbook.FindSheet("Missing")
	assert.EqualError(t, err, "sheet not found: Missing")

	sheets, err := workbook.GetSheets()
	require.NoError(t, err)
	assert.Len(t, sheets, 2)
}

func TestExcelizeWorksheet_ColumnStyleNames(t *testing.T) {
	workbook := openTestWorkbook(t, newTestWorkbook(t))
	sheet, err := workbook.FindSheet("Sheet1")
	require.NoError(t, err)

	registry := NewStyleRegistry()
	names, err := sheet.ColumnStyleNames(3, registry)
	require.NoError(t, err)
	require.Len(t, names, 3)
	assert.Equal(t, stylerange.DefaultStyleName, names[0])
	assert.Equal(t, stylerange.DefaultStyleName, names[1])
	assert.NotEqual(t, stylerange.DefaultStyleName, names[2])

	style, ok := registry.Style(names[2])
	require.True(t, ok)
	require.NotNil(t, style.Fill)
	assert.Equal(t, "pattern", style.Fill.Type)
	assert.NotEmpty(t, style.Fill.Color)
}

func TestExcelizeWorksheet_WalkCellStyles(t *testing.T) {
	workbook := openTestWorkbook(t, newTestWorkbook(t))
	sheet, err := workbook.FindSheet("Sheet1")
	require.NoError(t, err)

	registry := NewStyleRegistry()
	var cells []CellStyleInfo
	err = sheet.WalkCellStyles("A1:C2", registry, func(info CellStyleInfo) error {
		cells = append(cells, info)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, cells, 6)

	a1, b1, c1, a2 := cells[0], cells[1], cells[2], cells[3]
	assert.Equal(t, []int{1, 1}, []int{a1.Row, a1.Col})
	assert.True(t, a1.Explicit)
	assert.Equal(t, stylerange.CategoryText, a1.Category)
	assert.True(t, b1.Explicit)
	assert.Equal(t, a1.Style, b1.Style)
	assert.Equal(t, stylerange.CategoryNumeric, b1.Category)
	assert.False(t, c1.Explicit)
	assert.Equal(t, []int{2, 1}, []int{a2.Row, a2.Col})
	assert.False(t, a2.Explicit)
	assert.Equal(t, stylerange.DefaultStyleName, a2.Style)
	assert.Equal(t, stylerange.CategoryUndefined, a2.Category)

	style, ok := registry.Style(a1.Style)
	require.True(t, ok)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestExcelizeWorksheet_WalkCellStylesStopsOnError(t *testing.T) {
	workbook := openTestWorkbook(t, newTestWorkbook(t))
	sheet, err := workbook.FindSheet("Sheet1")
	require.NoError(t, err)

	visited := 0
	err = sheet.WalkCellStyles("A1:C2", NewStyleRegistry(), func(CellStyleInfo) error {
		visited++
		return context.Canceled
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, visited)
}

func TestExcelizeWorksheet_SetRangeStyle(t *testing.T) {
	path := newTestWorkbook(t)
	workbook := openTestWorkbook(t, path)
	sheet, err := workbook.FindSheet("Sheet2")
	require.NoError(t, err)

	bold := &CellStyle{Font: &FontStyle{Bold: true}}
	require.NoError(t, sheet.SetRangeStyle("A1:B2", "s1", bold))
	require.NoError(t, sheet.SetRangeStyle("D4", "s2", &CellStyle{NumFmt: 10}))
	require.NoError(t, workbook.Save())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	id, err := f.GetCellStyle("Sheet2", "B2")
	require.NoError(t, err)
	require.NotZero(t, id)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	id, err = f.GetCellStyle("Sheet2", "D4")
	require.NoError(t, err)
	style, err = f.GetStyle(id)
	require.NoError(t, err)
	assert.Equal(t, 10, style.NumFmt)

	id, err = f.GetCellStyle("Sheet2", "C3")
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestStyleWriter(t *testing.T) {
	workbook := openTestWorkbook(t, newTestWorkbook(t))
	sheet, err := workbook.FindSheet("Sheet2")
	require.NoError(t, err)

	registry := NewStyleRegistry()
	name := registry.RegisterStyle(&CellStyle{Font: &FontStyle{Italic: true}})
	writer := NewStyleWriter(registry, sheet)

	ctx := context.Background()
	r := stylerange.Range{StartRow: 0, StartCol: 0, EndRow: 1, EndCol: 2}
	require.NoError(t, writer.AssignStyleToRange(ctx, r, name, stylerange.CategoryText, ""))
	assert.Equal(t, 1, writer.Written())

	err = writer.AssignStyleToRange(ctx, r, "unregistered", stylerange.CategoryText, "")
	assert.EqualError(t, err, "style not registered: unregistered")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, writer.AssignStyleToRange(cancelled, r, name, stylerange.CategoryText, ""), context.Canceled)
	assert.Equal(t, 1, writer.Written())
}

type rangeStyle struct {
	ref   string
	name  string
	style *CellStyle
}

// recordingWorksheet records SetRangeStyle calls.
type recordingWorksheet struct {
	Worksheet
	applied []rangeStyle
}

func (w *recordingWorksheet) SetRangeStyle(cellRange string, name string, style *CellStyle) error {
	w.applied = append(w.applied, rangeStyle{ref: cellRange, name: name, style: style})
	return nil
}

func TestStyleWriter_NamedStyle(t *testing.T) {
	registry := NewStyleRegistry()
	heading := registry.RegisterNamed("Heading 1", &CellStyle{Font: &FontStyle{Bold: true, Size: 15}})
	dst := &recordingWorksheet{}
	writer := NewStyleWriter(registry, dst)

	ctx := context.Background()
	require.NoError(t, writer.AssignStyleToRange(ctx, stylerange.Range{EndRow: 0, EndCol: 3}, heading, stylerange.CategoryText, ""))
	require.NoError(t, writer.AssignStyleToRange(ctx, stylerange.Range{StartRow: 1, EndRow: 4, EndCol: 3}, registry.RegisterStyle(nil), stylerange.CategoryUndefined, ""))

	require.Len(t, dst.applied, 2)
	assert.Equal(t, "A1:D1", dst.applied[0].ref)
	assert.Equal(t, "Heading 1", dst.applied[0].name)
	require.NotNil(t, dst.applied[0].style.Font)
	assert.True(t, dst.applied[0].style.Font.Bold)
	assert.Equal(t, "A2:D5", dst.applied[1].ref)
	assert.Equal(t, stylerange.DefaultStyleName, dst.applied[1].name)
	assert.True(t, dst.applied[1].style.IsEmpty())
}
