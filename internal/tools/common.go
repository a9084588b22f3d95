package tools

import (
	"fmt"
	"path/filepath"

	z "github.com/Oudwins/zog"

	"github.com/wxyzh/excel-style-ranges/internal/excel"
	"github.com/wxyzh/excel-style-ranges/internal/importer"
)

func AbsolutePathTest() z.Test[*string] {
	return z.Test[*string]{
		Func: func(path *string, ctx z.Ctx) {
			if !filepath.IsAbs(*path) {
				ctx.AddIssue(ctx.Issue().SetMessage(fmt.Sprintf("Path '%s' is not absolute", *path)))
			}
		},
	}
}

// RangeTest accepts an empty string or a range like "A1:C10".
func RangeTest() z.Test[*string] {
	return z.Test[*string]{
		Func: func(cellRange *string, ctx z.Ctx) {
			if *cellRange == "" {
				return
			}
			if _, _, _, _, err := excel.ParseRange(*cellRange); err != nil {
				ctx.AddIssue(ctx.Issue().SetMessage(err.Error()))
			}
		},
	}
}

// ColumnsTest accepts an empty string or column names like "B,D".
func ColumnsTest() z.Test[*string] {
	return z.Test[*string]{
		Func: func(columns *string, ctx z.Ctx) {
			if _, err := excel.ParseColumns(*columns); err != nil {
				ctx.AddIssue(ctx.Issue().SetMessage(err.Error()))
			}
		},
	}
}

func importOptions(config EnvConfig, cellRange string) importer.Options {
	return importer.Options{
		Range:    cellRange,
		MaxCells: config.EXCEL_STYLE_SCAN_CELLS_LIMIT,
	}
}
