package excel

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

type ExcelizeExcel struct {
	file *excelize.File
}

func NewExcelizeExcel(file *excelize.File) Excel {
	return &ExcelizeExcel{file: file}
}

func (e *ExcelizeExcel) GetBackendName() string {
	return "excelize"
}

func (e *ExcelizeExcel) FindSheet(sheetName string) (Worksheet, error) {
	index, err := e.file.GetSheetIndex(sheetName)
	if err != nil {
		return nil, fmt.Errorf("sheet not found: %s", sheetName)
	}
	if index < 0 {
		return nil, fmt.Errorf("sheet not found: %s", sheetName)
	}
	return e.worksheet(sheetName), nil
}

func (e *ExcelizeExcel) GetSheets() ([]Worksheet, error) {
	sheetList := e.file.GetSheetList()
	worksheets := make([]Worksheet, len(sheetList))
	for i, sheetName := range sheetList {
		worksheets[i] = e.worksheet(sheetName)
	}
	return worksheets, nil
}

func (e *ExcelizeExcel) worksheet(sheetName string) *ExcelizeWorksheet {
	position := 0
	for i, name := range e.file.GetSheetList() {
		if name == sheetName {
			position = i
		}
	}
	return &ExcelizeWorksheet{
		file:      e.file,
		sheetName: sheetName,
		position:  position,
		styleIDs:  make(map[string]int),
	}
}

// Save saves the Excel file to its path.
// Excelize's Save method restricts the file path length to 207 characters,
// but since this limitation has been relaxed in some environments,
// we ignore this restriction.
// https://github.com/qax-os/excelize/blob/v2.9.0/file.go#L71-L73
func (e *ExcelizeExcel) Save() error {
	file, err := os.OpenFile(filepath.Clean(e.file.Path), os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	return e.file.Write(file)
}

type ExcelizeWorksheet struct {
	file      *excelize.File
	sheetName string
	position  int
	// rendered style -> excelize style id, for styles created by SetRangeStyle
	styleIDs map[string]int
}

func (w *ExcelizeWorksheet) Release() {
	// No resources to release in excelize
}

func (w *ExcelizeWorksheet) Name() (string, error) {
	return w.sheetName, nil
}

func (w *ExcelizeWorksheet) Index() int {
	return w.position
}

func (w *ExcelizeWorksheet) GetDimention() (string, error) {
	return w.file.GetSheetDimension(w.sheetName)
}

// styleName resolves an excelize style id to a registry name. Id 0 is the
// workbook default and always maps to the default style.
func (w *ExcelizeWorksheet) styleName(styleID int, registry *StyleRegistry, cache map[int]string) (string, *CellStyle, error) {
	if name, ok := cache[styleID]; ok {
		style, _ := registry.Style(name)
		return name, style, nil
	}
	var cellStyle *CellStyle
	if styleID == 0 {
		cellStyle = &CellStyle{}
	} else {
		style, err := w.file.GetStyle(styleID)
		if err != nil {
			return "", nil, fmt.Errorf("failed to get style details: %w", err)
		}
		cellStyle = convertExcelizeStyleToCellStyle(style)
	}
	name := registry.RegisterStyle(cellStyle)
	cache[styleID] = name
	registered, _ := registry.Style(name)
	return name, registered, nil
}

func (w *ExcelizeWorksheet) ColumnStyleNames(count int, registry *StyleRegistry) ([]string, error) {
	cache := make(map[int]string)
	names := make([]string, count)
	for col := 1; col <= count; col++ {
		colName, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return nil, err
		}
		styleID, err := w.file.GetColStyle(w.sheetName, colName)
		if err != nil {
			return nil, fmt.Errorf("failed to get column style of %s: %w", colName, err)
		}
		name, _, err := w.styleName(styleID, registry, cache)
		if err != nil {
			return nil, err
		}
		names[col-1] = name
	}
	return names, nil
}

// rowStyleIDs returns the style ids of styled rows up to endRow.
func (w *ExcelizeWorksheet) rowStyleIDs(endRow int) (map[int]int, error) {
	rows, err := w.file.Rows(w.sheetName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	styles := make(map[int]int)
	for row := 1; row <= endRow && rows.Next(); row++ {
		if opts := rows.GetRowOpts(); opts.StyleID != 0 {
			styles[row] = opts.StyleID
		}
	}
	return styles, rows.Error()
}

func (w *ExcelizeWorksheet) WalkCellStyles(cellRange string, registry *StyleRegistry, visit func(CellStyleInfo) error) error {
	startCol, startRow, endCol, endRow, err := ParseRange(cellRange)
	if err != nil {
		return err
	}
	rowStyles, err := w.rowStyleIDs(endRow)
	if err != nil {
		return fmt.Errorf("failed to read row styles: %w", err)
	}
	colStyles := make([]int, endCol-startCol+1)
	for col := startCol; col <= endCol; col++ {
		colName, _ := excelize.ColumnNumberToName(col)
		if colStyles[col-startCol], err = w.file.GetColStyle(w.sheetName, colName); err != nil {
			return fmt.Errorf("failed to get column style of %s: %w", colName, err)
		}
	}

	cache := make(map[int]string)
	for row := startRow; row <= endRow; row++ {
		rowStyleID := rowStyles[row]
		rowStyle := ""
		if rowStyleID != 0 {
			if rowStyle, _, err = w.styleName(rowStyleID, registry, cache); err != nil {
				return err
			}
		}
		for col := startCol; col <= endCol; col++ {
			axis, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return err
			}
			styleID, err := w.file.GetCellStyle(w.sheetName, axis)
			if err != nil {
				return fmt.Errorf("failed to get cell style of %s: %w", axis, err)
			}
			name, cellStyle, err := w.styleName(styleID, registry, cache)
			if err != nil {
				return err
			}
			cellType, err := w.file.GetCellType(w.sheetName, axis)
			if err != nil {
				return fmt.Errorf("failed to get cell type of %s: %w", axis, err)
			}
			rawValue, err := w.file.GetCellValue(w.sheetName, axis, excelize.Options{RawCellValue: true})
			if err != nil {
				return fmt.Errorf("failed to get cell value of %s: %w", axis, err)
			}
			category, currency := ClassifyCell(cellType, rawValue, registry.NumberFormats.Get(name), cellStyle.CustomFmt)

			// GetCellStyle resolves the cell's own style, then the row style,
			// then the column style. Under a styled row the column style can
			// only come from the cell itself.
			var explicit bool
			if rowStyleID != 0 {
				explicit = styleID != rowStyleID
			} else {
				explicit = styleID != 0 && styleID != colStyles[col-startCol]
			}
			if err := visit(CellStyleInfo{
				Row:      row,
				Col:      col,
				Style:    name,
				Explicit: explicit,
				RowStyle: rowStyle,
				Category: category,
				Currency: currency,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *ExcelizeWorksheet) SetRangeStyle(cellRange string, _ string, style *CellStyle) error {
	startCol, startRow, endCol, endRow, err := ParseRange(cellRange)
	if err != nil {
		return err
	}
	styleID := 0
	if !style.IsEmpty() {
		key := convertCellStyleToYAMLFlow(style)
		id, ok := w.styleIDs[key]
		if !ok {
			if id, err = w.file.NewStyle(convertCellStyleToExcelizeStyle(style)); err != nil {
				return fmt.Errorf("failed to create style: %w", err)
			}
			w.styleIDs[key] = id
		}
		styleID = id
	}
	startCell, _ := excelize.CoordinatesToCellName(startCol, startRow)
	endCell, _ := excelize.CoordinatesToCellName(endCol, endRow)
	if err := w.file.SetCellStyle(w.sheetName, startCell, endCell, styleID); err != nil {
		return fmt.Errorf("failed to set cell style: %w", err)
	}
	return nil
}
