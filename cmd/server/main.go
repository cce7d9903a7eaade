package main

import (
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sam-maryland/playoff-sim/internal/config"
	"github.com/sam-maryland/playoff-sim/internal/mcp"
	"github.com/sirupsen/logrus"
)

func main() {
	// stdout carries the MCP protocol
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	settings, err := config.LoadSettings()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load settings")
	}
	if level, err := logrus.ParseLevel(settings.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithField("log_level", settings.LogLevel).Warn("Unknown log level, using info")
	}

	mcpServer := mcp.NewPlayoffSimMCPServer(logger, settings)
	if mcpServer == nil {
		logger.Fatal("Failed to create MCP server")
	}

	logger.Info("Starting Fantasy Playoff Simulator MCP Server...")

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
		os.Exit(1)
	}
}
