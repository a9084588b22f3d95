package excel

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

var rangePattern = regexp.MustCompile(`^(\$?[A-Z]+\$?\d+)(?::(\$?[A-Z]+\$?\d+))?$`)

// ParseRange parses Excel's range string (e.g. A1:C10, or a single cell A1)
// and returns startCol, startRow, endCol, endRow.
func ParseRange(rangeStr string) (int, int, int, int, error) {
	matches := rangePattern.FindStringSubmatch(rangeStr)
	if matches == nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid range format: %s", rangeStr)
	}
	startCol, startRow, err := excelize.CellNameToCoordinates(matches[1])
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if matches[2] == "" {
		return startCol, startRow, startCol, startRow, nil
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(matches[2])
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return min(startCol, endCol), min(startRow, endRow), max(startCol, endCol), max(startRow, endRow), nil
}

// ParseColumns parses a comma separated list of column names (e.g. "B,D")
// into zero-based column indexes. An empty string yields none.
func ParseColumns(columns string) ([]int, error) {
	if strings.TrimSpace(columns) == "" {
		return nil, nil
	}
	var result []int
	for _, name := range strings.Split(columns, ",") {
		col, err := excelize.ColumnNameToNumber(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("invalid column %q: %w", name, err)
		}
		result = append(result, col-1)
	}
	return result, nil
}

func NormalizeRange(rangeStr string) string {
	startCol, startRow, endCol, endRow, err := ParseRange(rangeStr)
	if err != nil {
		return rangeStr
	}
	return FormatRange(startCol, startRow, endCol, endRow)
}

// FormatRange renders 1-based coordinates as "A1:C10".
func FormatRange(startCol, startRow, endCol, endRow int) string {
	startCell, _ := excelize.CoordinatesToCellName(startCol, startRow)
	endCell, _ := excelize.CoordinatesToCellName(endCol, endRow)
	return fmt.Sprintf("%s:%s", startCell, endCell)
}
