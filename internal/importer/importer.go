package importer

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/wxyzh/excel-style-ranges/internal/excel"
	"github.com/wxyzh/excel-style-ranges/internal/stylerange"
)

var ErrTooManyCells = errors.New("range exceeds the scan cells limit")

type Options struct {
	// Range to scan, e.g. "A1:C10". Defaults to the used range.
	Range string
	// MaxCells bounds the scanned range. Zero means no limit.
	MaxCells int
	// InsertCols are zero-based columns of the sink side that have no
	// counterpart in the worksheet. Ranges at or right of each move one
	// column right.
	InsertCols []int
}

type Result struct {
	SheetName string
	Range     string
	Stats     stylerange.Stats
}

// CoalesceSheet streams the cell styles of worksheet through a coalescer
// and finalizes the merged ranges into sink. Style names are registered in
// registry. The logger is taken from ctx.
func CoalesceSheet(ctx context.Context, worksheet excel.Worksheet, registry *excel.StyleRegistry, opts Options, sink stylerange.Sink) (*Result, error) {
	name, err := worksheet.Name()
	if err != nil {
		return nil, err
	}
	scanRange := opts.Range
	if scanRange == "" {
		if scanRange, err = worksheet.GetDimention(); err != nil {
			return nil, fmt.Errorf("failed to get used range of %s: %w", name, err)
		}
		if scanRange == "" {
			scanRange = "A1"
		}
	}
	sheet := worksheet.Index()
	scan, err := stylerange.ParseA1(sheet, scanRange)
	if err != nil {
		return nil, err
	}
	if scanRange, err = scan.A1(); err != nil {
		return nil, err
	}
	if cells := scan.Cells(); opts.MaxCells > 0 && cells > opts.MaxCells {
		return nil, fmt.Errorf("%w: %s has %d cells, limit is %d", ErrTooManyCells, scanRange, cells, opts.MaxCells)
	}

	logger := zerolog.Ctx(ctx).With().Str("sheetName", name).Logger()
	coalescer := stylerange.NewCoalescer(logger)
	if err := loadColumnDefaults(coalescer, worksheet, registry, scan.EndCol+1); err != nil {
		return nil, err
	}

	lastRow := 0
	err = worksheet.WalkCellStyles(scanRange, registry, func(info excel.CellStyleInfo) error {
		if info.Row != lastRow {
			if err := ctx.Err(); err != nil {
				return err
			}
			coalescer.SetRowStyle(info.RowStyle)
			lastRow = info.Row
		}
		if info.Explicit {
			coalescer.SubmitCell(sheet, info.Row-1, info.Col-1, info.Style, info.Category, info.Currency)
		} else {
			coalescer.SubmitDefault(stylerange.CellRange(sheet, info.Row-1, info.Col-1), info.Category, info.Currency)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read cell styles of %s: %w", name, err)
	}
	coalescer.EndTable()
	for _, col := range slices.Sorted(slices.Values(opts.InsertCols)) {
		coalescer.InsertCol(col, sheet)
	}

	if err := coalescer.Finalize(ctx, sink); err != nil {
		return nil, err
	}
	stats := coalescer.Stats()
	logger.Debug().
		Str("range", scanRange).
		Int("cells", stats.Cells).
		Int("ranges", stats.Ranges).
		Int("diagnostics", stats.Diagnostics).
		Msg("sheet coalesced")
	return &Result{SheetName: name, Range: scanRange, Stats: stats}, nil
}

// loadColumnDefaults declares the column styles of columns 1..endCol, one
// AddColumnStyle call per run of equal styles.
func loadColumnDefaults(coalescer *stylerange.Coalescer, worksheet excel.Worksheet, registry *excel.StyleRegistry, endCol int) error {
	names, err := worksheet.ColumnStyleNames(endCol, registry)
	if err != nil {
		return err
	}
	for start := 0; start < len(names); {
		end := start + 1
		for end < len(names) && names[end] == names[start] {
			end++
		}
		coalescer.AddColumnStyle(names[start], start, end-start)
		start = end
	}
	return nil
}
