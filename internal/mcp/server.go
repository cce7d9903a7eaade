package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sam-maryland/playoff-sim/internal/config"
	"github.com/sam-maryland/playoff-sim/internal/handlers"
	"github.com/sam-maryland/playoff-sim/internal/roster"
	"github.com/sam-maryland/playoff-sim/internal/sleeper"
	"github.com/sam-maryland/playoff-sim/internal/stats"
	"github.com/sirupsen/logrus"
)

// NewPlayoffSimMCPServer wires the data clients, roster loader and
// simulation tools into an MCP server. It returns nil if the server cannot
// be built.
func NewPlayoffSimMCPServer(logger *logrus.Logger, settings *config.Settings) *server.DefaultServer {
	exceptions, err := config.LoadPlayerCodeExceptions(settings.ExceptionsPath)
	if err != nil {
		logger.WithError(err).Error("Failed to load player code exceptions")
		return nil
	}

	// Create data clients
	statsClient := stats.NewHTTPClient(logger, settings.Season, exceptions)
	sleeperClient := sleeper.NewHTTPClient(logger)
	loader := roster.NewLoader(statsClient, sleeperClient, logger)

	simulationHandler := handlers.NewSimulationHandler(loader, settings, logger)

	s := server.NewDefaultServer("Fantasy Playoff Simulator", "1.0.0")
	if s == nil {
		logger.Error("Failed to create MCP server instance")
		return nil
	}

	logger.Info("MCP server instance created successfully")

	s.HandleListTools(func(ctx context.Context, cursor *string) (*mcp.ListToolsResult, error) {
		tools := []mcp.Tool{
			simulationHandler.SimulateSeasonTool(),
			simulationHandler.RunPlayoffTrialsTool(),
		}

		logger.WithField("tools_count", len(tools)).Info("Listing available tools")

		return &mcp.ListToolsResult{
			Tools: tools,
		}, nil
	})

	s.HandleCallTool(func(ctx context.Context, name string, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		logger.WithFields(logrus.Fields{
			"tool": name,
			"args": arguments,
		}).Info("Tool called")

		switch name {
		case "simulate_season":
			return simulationHandler.HandleSimulateSeason(ctx, arguments)
		case "run_playoff_trials":
			return simulationHandler.HandleRunPlayoffTrials(ctx, arguments)
		default:
			logger.WithField("tool", name).Warn("Unknown tool called")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.TextContent{
						Type: "text",
						Text: "Unknown tool: " + name,
					},
				},
				IsError: true,
			}, nil
		}
	})

	logger.Info("All tools registered successfully")
	return s
}
