package stylerange

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Range is an inclusive rectangular cell span on one sheet.
// Coordinates are zero-based.
type Range struct {
	Sheet    int
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// CellRange returns the range covering a single cell.
func CellRange(sheet, row, col int) Range {
	return Range{Sheet: sheet, StartRow: row, StartCol: col, EndRow: row, EndCol: col}
}

func (r Range) Rows() int {
	return r.EndRow - r.StartRow + 1
}

func (r Range) Cols() int {
	return r.EndCol - r.StartCol + 1
}

// Cells returns the number of cells covered by the range.
func (r Range) Cells() int {
	return r.Rows() * r.Cols()
}

// A1 returns the range in A1 notation (e.g. "A1:C3").
func (r Range) A1() (string, error) {
	startCell, err := excelize.CoordinatesToCellName(r.StartCol+1, r.StartRow+1)
	if err != nil {
		return "", err
	}
	endCell, err := excelize.CoordinatesToCellName(r.EndCol+1, r.EndRow+1)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s", startCell, endCell), nil
}

func (r Range) String() string {
	a1, err := r.A1()
	if err != nil {
		return fmt.Sprintf("(%d,%d)-(%d,%d)", r.StartRow, r.StartCol, r.EndRow, r.EndCol)
	}
	return a1
}

// ParseA1 parses a range like "B2:D4" (or a single cell "B2") into a
// zero-based Range on the given sheet.
func ParseA1(sheet int, ref string) (Range, error) {
	startRef, endRef, found := strings.Cut(strings.ReplaceAll(ref, "$", ""), ":")
	if !found {
		endRef = startRef
	}
	startCol, startRow, err := excelize.CellNameToCoordinates(startRef)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", ref, err)
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(endRef)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", ref, err)
	}
	if endCol < startCol {
		startCol, endCol = endCol, startCol
	}
	if endRow < startRow {
		startRow, endRow = endRow, startRow
	}
	return Range{
		Sheet:    sheet,
		StartRow: startRow - 1,
		StartCol: startCol - 1,
		EndRow:   endRow - 1,
		EndCol:   endCol - 1,
	}, nil
}
