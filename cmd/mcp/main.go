package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/riskibarqy/league-simulator/internal/app"
	"github.com/riskibarqy/league-simulator/internal/config"
	"github.com/riskibarqy/league-simulator/internal/interfaces/mcpserver"
	"github.com/riskibarqy/league-simulator/internal/platform/logging"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		panic(err)
	}
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// stdout carries the protocol.
	logger := logging.NewJSONWriter(os.Stderr, cfg.LogLevel).With("service", cfg.ServiceName, "transport", "mcp-stdio")
	logging.SetDefault(logger)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := app.NewServices(cfg, logger)
	if err != nil {
		logger.Error("build services", "error", err)
		os.Exit(1)
	}
	if cfg.BootstrapOnStart {
		if err := services.Bootstrap(ctx); err != nil {
			logger.Error("bootstrap season", "error", err)
			os.Exit(1)
		}
	}

	tools := mcpserver.NewTools(services.League, services.Season, services.Odds, logger.Named("mcp"))
	server := mcpserver.NewServer(tools)

	logger.Info("mcp server starting", "name", mcpserver.ServerName, "version", mcpserver.ServerVersion)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("mcp server failed", "error", err)
		os.Exit(1)
	}
}
