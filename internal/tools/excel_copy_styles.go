package tools

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/wxyzh/excel-style-ranges/internal/excel"
	"github.com/wxyzh/excel-style-ranges/internal/importer"
	imcp "github.com/wxyzh/excel-style-ranges/internal/mcp"
	"github.com/wxyzh/excel-style-ranges/internal/stylerange"
)

type ExcelCopyStylesArguments struct {
	FileAbsolutePath string `zog:"fileAbsolutePath"`
	SrcSheetName     string `zog:"srcSheetName"`
	DstSheetName     string `zog:"dstSheetName"`
	Range            string `zog:"range"`
	InsertColumns    string `zog:"insertColumns"`
}

var excelCopyStylesArgumentsSchema = z.Struct(z.Shape{
	"fileAbsolutePath": z.String().Test(AbsolutePathTest()).Required(),
	"srcSheetName":     z.String().Required(),
	"dstSheetName":     z.String().Required(),
	"range":            z.String().Test(RangeTest()),
	"insertColumns":    z.String().Test(ColumnsTest()),
})

func AddExcelCopyStylesTool(server *server.MCPServer) {
	server.AddTool(mcp.NewTool("excel_copy_styles",
		mcp.WithDescription("Copy the cell styles of a sheet to another sheet, range by range"),
		mcp.WithString("fileAbsolutePath",
			mcp.Required(),
			mcp.Description("Absolute path to the Excel file"),
		),
		mcp.WithString("srcSheetName",
			mcp.Required(),
			mcp.Description("Sheet name to copy styles from"),
		),
		mcp.WithString("dstSheetName",
			mcp.Required(),
			mcp.Description("Sheet name to copy styles to"),
		),
		mcp.WithString("range",
			mcp.Description("Range of cells to copy (e.g., \"A1:C10\"). [default: used range of the source sheet]"),
		),
		mcp.WithString("insertColumns",
			mcp.Description("Comma separated columns of the destination sheet with no counterpart in the source (e.g., \"B,D\"). Styles at or right of each column land one column further right."),
		),
	), handleCopyStyles)
}

func handleCopyStyles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := ExcelCopyStylesArguments{}
	if issues := excelCopyStylesArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}
	insertCols, err := excel.ParseColumns(args.InsertColumns)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	return copyStyles(ctx, args.FileAbsolutePath, args.SrcSheetName, args.DstSheetName, args.Range, insertCols)
}

func copyStyles(ctx context.Context, fileAbsolutePath string, srcSheetName string, dstSheetName string, cellRange string, insertCols []int) (*mcp.CallToolResult, error) {
	config, issues := LoadConfig()
	if issues != nil {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}
	workbook, release, err := excel.OpenFile(fileAbsolutePath, config.Backend())
	if err != nil {
		return nil, err
	}
	defer release()

	srcSheet, err := workbook.FindSheet(srcSheetName)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	defer srcSheet.Release()
	dstSheet, err := workbook.FindSheet(dstSheetName)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	defer dstSheet.Release()

	registry := excel.NewStyleRegistry()
	writer := excel.NewStyleWriter(registry, dstSheet)
	collector := &stylerange.Collector{}
	opts := importOptions(config, cellRange)
	opts.InsertCols = insertCols
	result, err := importer.CoalesceSheet(ctx, srcSheet, registry, opts, stylerange.Tee(collector, writer))
	if errors.Is(err, importer.ErrTooManyCells) {
		return imcp.NewToolResultInvalidArgumentError(err.Error() + ". Specify a smaller range."), nil
	}
	if err != nil {
		return nil, err
	}
	if err := workbook.Save(); err != nil {
		return nil, err
	}
	log.Info().
		Str("src", srcSheetName).
		Str("dst", dstSheetName).
		Int("ranges", writer.Written()).
		Msg("styles copied")

	text := "# Notice\n"
	text += fmt.Sprintf("backend: %s\n", workbook.GetBackendName())
	text += fmt.Sprintf("Styles of [%s] %s copied to [%s] in %d ranges (%d cells).\n",
		html.EscapeString(srcSheetName), result.Range, html.EscapeString(dstSheetName), writer.Written(), result.Stats.Cells)
	text += fmt.Sprintf("styles: %s\n", html.EscapeString(strings.Join(collector.Styles(), ", ")))
	return mcp.NewToolResultText(text), nil
}
