package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/wxyzh/excel-style-ranges/internal/stylerange"
)

// name of the built-in cell style every workbook starts with
const oleNormalStyle = "Normal"

// XlPattern.xlPatternNone
const xlPatternNone = -4142

type OleExcel struct {
	application *ole.IDispatch
	workbook    *ole.IDispatch
}

type OleWorksheet struct {
	excel     *OleExcel
	worksheet *ole.IDispatch
}

// NewExcelOle attaches to the workbook at absolutePath opened in a running
// Excel instance.
func NewExcelOle(absolutePath string) (*OleExcel, func(), error) {
	runtime.LockOSThread()
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		runtime.UnlockOSThread()
		return nil, func() {}, err
	}
	fail := func(err error) (*OleExcel, func(), error) {
		ole.CoUninitialize()
		runtime.UnlockOSThread()
		return nil, func() {}, err
	}

	unknown, err := oleutil.GetActiveObject("Excel.Application")
	if err != nil {
		return fail(err)
	}
	excel, err := unknown.QueryInterface(ole.IID_IDispatch)
	unknown.Release()
	if err != nil {
		return fail(err)
	}
	oleutil.MustPutProperty(excel, "ScreenUpdating", false)
	oleutil.MustPutProperty(excel, "EnableEvents", false)
	workbooks := oleutil.MustGetProperty(excel, "Workbooks").ToIDispatch()
	release := func(workbook *ole.IDispatch) func() {
		return func() {
			oleutil.MustPutProperty(excel, "EnableEvents", true)
			oleutil.MustPutProperty(excel, "ScreenUpdating", true)
			workbook.Release()
			workbooks.Release()
			excel.Release()
			ole.CoUninitialize()
			runtime.UnlockOSThread()
		}
	}
	c := oleutil.MustGetProperty(workbooks, "Count").Val
	for i := 1; i <= int(c); i++ {
		workbook := oleutil.MustGetProperty(workbooks, "Item", i).ToIDispatch()
		fullName := oleutil.MustGetProperty(workbook, "FullName").ToString()
		name := oleutil.MustGetProperty(workbook, "Name").ToString()
		// A workbook opened through a WOPI URL has no local path. If the
		// absolutePath is not writable, it assumes that the workbook has
		// been opened by WOPI.
		if strings.HasPrefix(fullName, "https:") && name == filepath.Base(absolutePath) && FileIsNotWritable(absolutePath) {
			return &OleExcel{application: excel, workbook: workbook}, release(workbook), nil
		}
		if normalizePath(fullName) == normalizePath(absolutePath) {
			return &OleExcel{application: excel, workbook: workbook}, release(workbook), nil
		}
		workbook.Release()
	}
	oleutil.MustPutProperty(excel, "EnableEvents", true)
	oleutil.MustPutProperty(excel, "ScreenUpdating", true)
	workbooks.Release()
	excel.Release()
	return fail(fmt.Errorf("workbook not found: %s", absolutePath))
}

func (o *OleExcel) GetBackendName() string {
	return "ole"
}

func (o *OleExcel) GetSheets() ([]Worksheet, error) {
	worksheets := oleutil.MustGetProperty(o.workbook, "Worksheets").ToIDispatch()
	defer worksheets.Release()

	count := int(oleutil.MustGetProperty(worksheets, "Count").Val)
	worksheetList := make([]Worksheet, count)
	for i := 1; i <= count; i++ {
		worksheet := oleutil.MustGetProperty(worksheets, "Item", i).ToIDispatch()
		worksheetList[i-1] = &OleWorksheet{excel: o, worksheet: worksheet}
	}
	return worksheetList, nil
}

func (o *OleExcel) FindSheet(sheetName string) (Worksheet, error) {
	worksheets := oleutil.MustGetProperty(o.workbook, "Worksheets").ToIDispatch()
	defer worksheets.Release()

	v, err := oleutil.GetProperty(worksheets, "Item", sheetName)
	if err != nil {
		return nil, fmt.Errorf("sheet not found: %s", sheetName)
	}
	return &OleWorksheet{excel: o, worksheet: v.ToIDispatch()}, nil
}

// hasStyle reports whether the workbook defines the cell style name.
func (o *OleExcel) hasStyle(name string) bool {
	styles := oleutil.MustGetProperty(o.workbook, "Styles").ToIDispatch()
	defer styles.Release()
	v, err := oleutil.GetProperty(styles, "Item", name)
	if err != nil {
		return false
	}
	v.ToIDispatch().Release()
	return true
}

func (o *OleExcel) Save() error {
	_, err := oleutil.CallMethod(o.workbook, "Save")
	return err
}

func (o *OleWorksheet) Release() {
	o.worksheet.Release()
}

func (o *OleWorksheet) Name() (string, error) {
	v, err := oleutil.GetProperty(o.worksheet, "Name")
	if err != nil {
		return "", err
	}
	return v.ToString(), nil
}

func (o *OleWorksheet) Index() int {
	return int(oleutil.MustGetProperty(o.worksheet, "Index").Val) - 1
}

func (o *OleWorksheet) GetDimention() (string, error) {
	range_ := oleutil.MustGetProperty(o.worksheet, "UsedRange").ToIDispatch()
	defer range_.Release()
	dimension := oleutil.MustGetProperty(range_, "Address").ToString()
	return NormalizeRange(dimension), nil
}

// styleOf returns the cell style object applied to an OLE range object
// (Range, Columns(i), Rows(i)), or nil when the range mixes styles.
func styleOf(rng *ole.IDispatch) (*ole.IDispatch, error) {
	v, err := oleutil.GetProperty(rng, "Style")
	if err != nil {
		return nil, err
	}
	return v.ToIDispatch(), nil
}

func (o *OleWorksheet) ColumnStyleNames(count int, registry *StyleRegistry) ([]string, error) {
	names := make([]string, count)
	for col := 1; col <= count; col++ {
		column := oleutil.MustGetProperty(o.worksheet, "Columns", col).ToIDispatch()
		style, err := styleOf(column)
		column.Release()
		if err != nil {
			return nil, fmt.Errorf("failed to get column style of %d: %w", col, err)
		}
		names[col-1] = o.register(style, registry)
	}
	return names, nil
}

// register names an OLE cell style in registry and releases it. Normal and
// mixed styles map to the default style.
func (o *OleWorksheet) register(style *ole.IDispatch, registry *StyleRegistry) string {
	if style == nil {
		return registry.RegisterStyle(&CellStyle{})
	}
	defer style.Release()
	name := oleutil.MustGetProperty(style, "Name").ToString()
	if name == oleNormalStyle {
		return registry.RegisterStyle(&CellStyle{})
	}
	if _, ok := registry.Style(name); ok {
		return name
	}
	return registry.RegisterNamed(name, namedCellStyle(style))
}

// namedCellStyle reads the parts a named cell style includes.
func namedCellStyle(style *ole.IDispatch) *CellStyle {
	cellStyle := &CellStyle{}
	if oleutil.MustGetProperty(style, "IncludeFont").Value() == true {
		font := oleutil.MustGetProperty(style, "Font").ToIDispatch()
		cellStyle.Font = &FontStyle{
			Family: oleutil.MustGetProperty(font, "Name").ToString(),
			Size:   variantFloat(oleutil.MustGetProperty(font, "Size")),
			Bold:   oleutil.MustGetProperty(font, "Bold").Value() == true,
			Italic: oleutil.MustGetProperty(font, "Italic").Value() == true,
			Strike: oleutil.MustGetProperty(font, "Strikethrough").Value() == true,
			Color:  bgrToRgb(variantInt(oleutil.MustGetProperty(font, "Color"))),
		}
		font.Release()
	}
	if oleutil.MustGetProperty(style, "IncludePatterns").Value() == true {
		interior := oleutil.MustGetProperty(style, "Interior").ToIDispatch()
		if variantInt(oleutil.MustGetProperty(interior, "Pattern")) != xlPatternNone {
			color := bgrToRgb(variantInt(oleutil.MustGetProperty(interior, "Color")))
			cellStyle.Fill = &FillStyle{Type: "pattern", Pattern: 1, Color: []string{color}}
		}
		interior.Release()
	}
	if oleutil.MustGetProperty(style, "IncludeNumber").Value() == true {
		if format := oleutil.MustGetProperty(style, "NumberFormat").ToString(); format != "General" {
			cellStyle.CustomFmt = format
		}
	}
	return cellStyle
}

func (o *OleWorksheet) WalkCellStyles(cellRange string, registry *StyleRegistry, visit func(CellStyleInfo) error) error {
	startCol, startRow, endCol, endRow, err := ParseRange(cellRange)
	if err != nil {
		return err
	}
	colStyles, err := o.ColumnStyleNames(endCol, registry)
	if err != nil {
		return err
	}
	for row := startRow; row <= endRow; row++ {
		rowRange := oleutil.MustGetProperty(o.worksheet, "Rows", row).ToIDispatch()
		style, err := styleOf(rowRange)
		rowRange.Release()
		if err != nil {
			return fmt.Errorf("failed to get row style of %d: %w", row, err)
		}
		rowStyle := o.register(style, registry)
		if rowStyle == stylerange.DefaultStyleName {
			rowStyle = ""
		}
		for col := startCol; col <= endCol; col++ {
			info, err := o.cellStyle(row, col, registry)
			if err != nil {
				return err
			}
			info.RowStyle = rowStyle
			// under a styled row a cell matching its column style carries it itself
			if rowStyle != "" {
				info.Explicit = info.Style != rowStyle
			} else {
				info.Explicit = info.Style != stylerange.DefaultStyleName && info.Style != colStyles[col-1]
			}
			if err := visit(info); err != nil {
				return err
			}
		}
	}
	return nil
}

func (o *OleWorksheet) cellStyle(row, col int, registry *StyleRegistry) (CellStyleInfo, error) {
	cell := oleutil.MustGetProperty(o.worksheet, "Cells", row, col).ToIDispatch()
	defer cell.Release()

	style, err := styleOf(cell)
	if err != nil {
		return CellStyleInfo{}, fmt.Errorf("failed to get cell style: %w", err)
	}
	numberFormat := oleutil.MustGetProperty(cell, "NumberFormat").ToString()
	info := CellStyleInfo{Row: row, Col: col, Style: o.register(style, registry)}

	value := oleutil.MustGetProperty(cell, "Value2")
	switch value.VT {
	case ole.VT_EMPTY, ole.VT_NULL:
		info.Category = stylerange.CategoryUndefined
	case ole.VT_BOOL:
		info.Category = stylerange.CategoryLogical
	case ole.VT_BSTR, ole.VT_ERROR:
		info.Category = stylerange.CategoryText
	default:
		info.Category, info.Currency = ClassifyNumberFormat(registry.NumberFormats.Get(info.Style), numberFormat)
		if info.Category == stylerange.CategoryText {
			info.Category = stylerange.CategoryNumeric
		}
	}
	return info, nil
}

// SetRangeStyle applies the workbook cell style name to cellRange. Names
// the workbook does not define, like the content-hash names of the excelize
// backend, become Normal with the attributes of style on top.
func (o *OleWorksheet) SetRangeStyle(cellRange string, name string, style *CellStyle) error {
	rng, err := oleutil.GetProperty(o.worksheet, "Range", cellRange)
	if err != nil {
		return fmt.Errorf("failed to get range %s: %w", cellRange, err)
	}
	target := rng.ToIDispatch()
	defer target.Release()

	if name == stylerange.DefaultStyleName || !o.excel.hasStyle(name) {
		name = oleNormalStyle
	}
	if _, err := oleutil.PutProperty(target, "Style", name); err != nil {
		return fmt.Errorf("failed to apply style %s: %w", name, err)
	}
	if name != oleNormalStyle || style.IsEmpty() {
		return nil
	}
	if f := style.Font; f != nil {
		font := oleutil.MustGetProperty(target, "Font").ToIDispatch()
		defer font.Release()
		oleutil.MustPutProperty(font, "Bold", f.Bold)
		oleutil.MustPutProperty(font, "Italic", f.Italic)
		oleutil.MustPutProperty(font, "Strikethrough", f.Strike)
		if f.Size > 0 {
			oleutil.MustPutProperty(font, "Size", f.Size)
		}
		if f.Family != "" {
			oleutil.MustPutProperty(font, "Name", f.Family)
		}
		if f.Color != "" {
			oleutil.MustPutProperty(font, "Color", rgbToBgr(f.Color))
		}
	}
	if f := style.Fill; f != nil && len(f.Color) > 0 {
		interior := oleutil.MustGetProperty(target, "Interior").ToIDispatch()
		defer interior.Release()
		oleutil.MustPutProperty(interior, "Color", rgbToBgr(f.Color[0]))
	}
	if style.CustomFmt != "" {
		oleutil.MustPutProperty(target, "NumberFormat", style.CustomFmt)
	}
	return nil
}

// rgbToBgr converts "#RRGGBB" to the BGR integer OLE automation expects.
func rgbToBgr(rgbColor string) int32 {
	hex := strings.TrimPrefix(rgbColor, "#")
	if len(hex) != 6 {
		return 0
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0
	}
	r, g, b := (v>>16)&0xFF, (v>>8)&0xFF, v&0xFF
	return int32(r | g<<8 | b<<16)
}

// bgrToRgb converts an OLE automation BGR integer to "#RRGGBB".
func bgrToRgb(bgr int64) string {
	r, g, b := bgr&0xFF, (bgr>>8)&0xFF, (bgr>>16)&0xFF
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

func variantInt(v *ole.VARIANT) int64 {
	switch n := v.Value().(type) {
	case int32:
		return int64(n)
	case int64:
		return n
	case float32:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func variantFloat(v *ole.VARIANT) float64 {
	switch n := v.Value().(type) {
	case float32:
		return float64(n)
	case float64:
		return n
	case int32:
		return float64(n)
	}
	return 0
}

// FileIsNotWritable checks if a file is not writable
func FileIsNotWritable(absolutePath string) bool {
	f, err := os.OpenFile(filepath.Clean(absolutePath), os.O_WRONLY, 0)
	if err != nil {
		return true
	}
	defer f.Close()
	return false
}

func normalizePath(path string) string {
	// Normalize the volume name to uppercase
	vol := filepath.VolumeName(path)
	if vol == "" {
		return path
	}
	rest := path[len(vol):]
	return filepath.Clean(strings.ToUpper(vol) + rest)
}
