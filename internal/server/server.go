package server

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/wxyzh/excel-style-ranges/internal/tools"
)

type ExcelServer struct {
	server *server.MCPServer
}

func New(version string) *ExcelServer {
	s := &ExcelServer{}
	s.server = server.NewMCPServer(
		"excel-style-ranges",
		version,
	)
	tools.AddExcelDescribeStyleRangesTool(s.server)
	tools.AddExcelCoalesceStylesTool(s.server)
	tools.AddExcelCopyStylesTool(s.server)
	return s
}

func (s *ExcelServer) Start() error {
	return server.ServeStdio(s.server)
}
