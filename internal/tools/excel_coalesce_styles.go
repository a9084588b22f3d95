package tools

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	z "github.com/Oudwins/zog"
	"github.com/goccy/go-yaml"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wxyzh/excel-style-ranges/internal/excel"
	"github.com/wxyzh/excel-style-ranges/internal/importer"
	imcp "github.com/wxyzh/excel-style-ranges/internal/mcp"
	"github.com/wxyzh/excel-style-ranges/internal/stylerange"
)

type ExcelCoalesceStylesArguments struct {
	FileAbsolutePath string `zog:"fileAbsolutePath"`
	SheetName        string `zog:"sheetName"`
	Range            string `zog:"range"`
}

var excelCoalesceStylesArgumentsSchema = z.Struct(z.Shape{
	"fileAbsolutePath": z.String().Test(AbsolutePathTest()).Required(),
	"sheetName":        z.String().Required(),
	"range":            z.String().Test(RangeTest()),
})

func AddExcelCoalesceStylesTool(server *server.MCPServer) {
	server.AddTool(mcp.NewTool("excel_coalesce_styles",
		mcp.WithDescription("Merge the cell styles of the Excel sheet into rectangular style ranges. "+
			"Each range groups adjacent cells sharing a style, a value category and a currency symbol."),
		mcp.WithString("fileAbsolutePath",
			mcp.Required(),
			mcp.Description("Absolute path to the Excel file"),
		),
		mcp.WithString("sheetName",
			mcp.Required(),
			mcp.Description("Sheet name in the Excel file"),
		),
		mcp.WithString("range",
			mcp.Description("Range of cells to read in the Excel sheet (e.g., \"A1:C10\"). [default: used range]"),
		),
	), handleCoalesceStyles)
}

func handleCoalesceStyles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := ExcelCoalesceStylesArguments{}
	if issues := excelCoalesceStylesArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}
	return coalesceStyles(ctx, args.FileAbsolutePath, args.SheetName, args.Range)
}

func coalesceStyles(ctx context.Context, fileAbsolutePath string, sheetName string, cellRange string) (*mcp.CallToolResult, error) {
	config, issues := LoadConfig()
	if issues != nil {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}
	workbook, release, err := excel.OpenFile(fileAbsolutePath, config.Backend())
	if err != nil {
		return nil, err
	}
	defer release()

	worksheet, err := workbook.FindSheet(sheetName)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	defer worksheet.Release()

	registry := excel.NewStyleRegistry()
	collector := &stylerange.Collector{}
	result, err := importer.CoalesceSheet(ctx, worksheet, registry, importOptions(config, cellRange), collector)
	if errors.Is(err, importer.ErrTooManyCells) {
		return imcp.NewToolResultInvalidArgumentError(err.Error() + ". Specify a smaller range."), nil
	}
	if err != nil {
		return nil, err
	}

	assignments, err := yaml.Marshal(collector.Assignments)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	text.WriteString("# Notice\n")
	text.WriteString(fmt.Sprintf("backend: %s\n", workbook.GetBackendName()))
	text.WriteString(fmt.Sprintf("sheet: %s\n", html.EscapeString(result.SheetName)))
	text.WriteString(fmt.Sprintf("range: %s\n", result.Range))
	text.WriteString(fmt.Sprintf("cells: %d, ranges: %d, diagnostics: %d\n\n", result.Stats.Cells, len(collector.Assignments), result.Stats.Diagnostics))
	text.WriteString(registry.GenerateStyleDefinitions(collector.Styles()))
	text.WriteString("<h2>Style Ranges</h2>\n")
	text.WriteString("<code class=\"language-yaml\">\n")
	text.WriteString(html.EscapeString(string(assignments)))
	text.WriteString("</code>")
	return mcp.NewToolResultText(text.String()), nil
}
