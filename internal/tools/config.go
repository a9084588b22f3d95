package tools

import (
	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zenv"

	"github.com/wxyzh/excel-style-ranges/internal/excel"
)

type EnvConfig struct {
	EXCEL_STYLE_LOG_LEVEL        string
	EXCEL_STYLE_SCAN_CELLS_LIMIT int
	EXCEL_STYLE_BACKEND          string
}

func backendNames() []string {
	var names []string
	for _, backend := range excel.BackendValues() {
		names = append(names, backend.String())
	}
	return names
}

var configSchema = z.Struct(z.Shape{
	"EXCEL_STYLE_LOG_LEVEL":        z.String().OneOf([]string{"trace", "debug", "info", "warn", "error", "disabled"}).Default("info"),
	"EXCEL_STYLE_SCAN_CELLS_LIMIT": z.Int().GT(0).Default(200000),
	"EXCEL_STYLE_BACKEND":          z.String().OneOf(backendNames()).Default(excel.BackendAuto.String()),
})

func LoadConfig() (EnvConfig, z.ZogIssueMap) {
	config := EnvConfig{}
	issues := configSchema.Parse(zenv.NewDataProvider(), &config)
	return config, issues
}

func (c EnvConfig) Backend() excel.Backend {
	return excel.Backend(c.EXCEL_STYLE_BACKEND)
}
