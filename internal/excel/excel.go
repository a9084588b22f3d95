package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/wxyzh/excel-style-ranges/internal/stylerange"
)

type Excel interface {
	// GetBackendName returns the backend used to manipulate the Excel file.
	GetBackendName() string
	// GetSheets returns a list of all worksheets in the Excel file.
	GetSheets() ([]Worksheet, error)
	// FindSheet finds a sheet by its name and returns a Worksheet.
	FindSheet(sheetName string) (Worksheet, error)
	// Save saves the Excel file.
	Save() error
}

type Worksheet interface {
	// Release releases the worksheet resources.
	Release()
	// Name returns the name of the worksheet.
	Name() (string, error)
	// Index returns the zero-based position of the worksheet in the workbook.
	Index() int
	// GetDimention gets the used range of the worksheet.
	GetDimention() (string, error)
	// ColumnStyleNames returns the default style names of columns 1..count.
	ColumnStyleNames(count int, registry *StyleRegistry) ([]string, error)
	// WalkCellStyles calls visit for every cell of cellRange in row-major order.
	WalkCellStyles(cellRange string, registry *StyleRegistry, visit func(CellStyleInfo) error) error
	// SetRangeStyle applies the style registered as name to every cell of
	// cellRange. Backends with named cell styles apply name, the others
	// apply style.
	SetRangeStyle(cellRange string, name string, style *CellStyle) error
}

// CellStyleInfo describes the style of one cell. Row and Col are 1-based.
type CellStyleInfo struct {
	Row      int
	Col      int
	Style    string
	Explicit bool
	// RowStyle is the default style of the row, "" when the row has none.
	RowStyle string
	Category stylerange.Category
	Currency string
}

type Backend string

const (
	BackendAuto     Backend = "auto"
	BackendExcelize Backend = "excelize"
	BackendOle      Backend = "ole"
)

func (b Backend) String() string {
	return string(b)
}

func BackendValues() []Backend {
	return []Backend{BackendAuto, BackendExcelize, BackendOle}
}

// OpenFile opens an Excel file and returns an Excel interface.
// With BackendAuto it first tries to open the file using OLE automation,
// and if that fails, it tries to using the excelize library.
func OpenFile(absoluteFilePath string, backend Backend) (Excel, func(), error) {
	if backend == BackendAuto || backend == BackendOle {
		ole, releaseFn, err := NewExcelOle(absoluteFilePath)
		if err == nil {
			return ole, releaseFn, nil
		}
		if backend == BackendOle {
			return nil, func() {}, fmt.Errorf("failed to open %s with OLE automation: %w", absoluteFilePath, err)
		}
	}
	workbook, err := excelize.OpenFile(absoluteFilePath)
	if err != nil {
		return nil, func() {}, err
	}
	excelize := NewExcelizeExcel(workbook)
	return excelize, func() {
		workbook.Close()
	}, nil
}
