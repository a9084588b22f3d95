package main

import (
	"fmt"
	"os"

	z "github.com/Oudwins/zog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wxyzh/excel-style-ranges/internal/server"
	"github.com/wxyzh/excel-style-ranges/internal/tools"
)

var version = "dev"

func main() {
	config, issues := tools.LoadConfig()
	if issues != nil {
		for field, messages := range z.Issues.SanitizeMap(issues) {
			for _, message := range messages {
				fmt.Fprintf(os.Stderr, "Invalid configuration: %s: %s\n", field, message)
			}
		}
		os.Exit(1)
	}
	initLogger(config.EXCEL_STYLE_LOG_LEVEL)

	log.Info().Str("version", version).Str("backend", config.EXCEL_STYLE_BACKEND).Msg("starting excel-style-ranges")
	s := server.New(version)
	err := s.Start()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start the server: %v\n", err)
		os.Exit(1)
	}
}

// stdout carries the MCP protocol, so logs go to stderr
func initLogger(levelName string) {
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).
		Level(level).
		With().Timestamp().Str("service", "excel-style-ranges").
		Logger()
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger
}
