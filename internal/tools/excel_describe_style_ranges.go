package tools

import (
	"context"
	"encoding/json"
	"errors"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/wxyzh/excel-style-ranges/internal/excel"
	"github.com/wxyzh/excel-style-ranges/internal/importer"
	imcp "github.com/wxyzh/excel-style-ranges/internal/mcp"
	"github.com/wxyzh/excel-style-ranges/internal/stylerange"
)

type ExcelDescribeStyleRangesArguments struct {
	FileAbsolutePath string `zog:"fileAbsolutePath"`
}

var excelDescribeStyleRangesArgumentsSchema = z.Struct(z.Shape{
	"fileAbsolutePath": z.String().Test(AbsolutePathTest()).Required(),
})

func AddExcelDescribeStyleRangesTool(server *server.MCPServer) {
	server.AddTool(mcp.NewTool("excel_describe_style_ranges",
		mcp.WithDescription("Summarize how the cell styles of every sheet coalesce into style ranges"),
		mcp.WithString("fileAbsolutePath",
			mcp.Required(),
			mcp.Description("Absolute path to the Excel file"),
		),
	), handleDescribeStyleRanges)
}

func handleDescribeStyleRanges(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := ExcelDescribeStyleRangesArguments{}
	issues := excelDescribeStyleRangesArgumentsSchema.Parse(request.GetArguments(), &args)
	if len(issues) != 0 {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}
	return describeStyleRanges(ctx, args.FileAbsolutePath)
}

type StyleRangesResponse struct {
	Backend string             `json:"backend"`
	Sheets  []SheetStyleRanges `json:"sheets"`
}

type SheetStyleRanges struct {
	Name        string   `json:"name"`
	UsedRange   string   `json:"usedRange"`
	Cells       int      `json:"cells"`
	Ranges      int      `json:"ranges"`
	Diagnostics int      `json:"diagnostics"`
	Styles      []string `json:"styles"`
	// Error is set when the sheet was skipped.
	Error string `json:"error,omitempty"`
}

func describeStyleRanges(ctx context.Context, fileAbsolutePath string) (*mcp.CallToolResult, error) {
	config, issues := LoadConfig()
	if issues != nil {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}
	workbook, release, err := excel.OpenFile(fileAbsolutePath, config.Backend())
	defer release()
	if err != nil {
		return nil, err
	}

	sheetList, err := workbook.GetSheets()
	if err != nil {
		return nil, err
	}
	sheets := make([]SheetStyleRanges, len(sheetList))
	for i, sheet := range sheetList {
		if sheets[i], err = describeSheet(ctx, config, sheet); err != nil {
			for _, rest := range sheetList[i+1:] {
				rest.Release()
			}
			return nil, err
		}
	}
	response := StyleRangesResponse{
		Backend: workbook.GetBackendName(),
		Sheets:  sheets,
	}
	jsonBytes, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// describeSheet coalesces one sheet and releases it.
func describeSheet(ctx context.Context, config EnvConfig, sheet excel.Worksheet) (SheetStyleRanges, error) {
	defer sheet.Release()
	name, err := sheet.Name()
	if err != nil {
		return SheetStyleRanges{}, err
	}
	usedRange, err := sheet.GetDimention()
	if err != nil {
		return SheetStyleRanges{}, err
	}
	collector := &stylerange.Collector{}
	result, err := importer.CoalesceSheet(ctx, sheet, excel.NewStyleRegistry(), importOptions(config, ""), collector)
	if errors.Is(err, importer.ErrTooManyCells) {
		log.Warn().Str("sheetName", name).Err(err).Msg("sheet skipped")
		return SheetStyleRanges{Name: name, UsedRange: usedRange, Styles: []string{}, Error: err.Error()}, nil
	}
	if err != nil {
		return SheetStyleRanges{}, err
	}
	styles := collector.Styles()
	if styles == nil {
		styles = []string{}
	}
	return SheetStyleRanges{
		Name:        name,
		UsedRange:   usedRange,
		Cells:       result.Stats.Cells,
		Ranges:      len(collector.Assignments),
		Diagnostics: result.Stats.Diagnostics,
		Styles:      styles,
	}, nil
}
