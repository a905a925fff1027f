package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shockburst-bridge/pkg/builder"
	"shockburst-bridge/pkg/config"
	"shockburst-bridge/pkg/errors"
	"shockburst-bridge/pkg/logger"
)

func main() {
	configPath := ""
	for i, arg := range os.Args[1:] {
		if arg == "--help" || arg == "-h" {
			fmt.Printf("Usage: %s [config_path]\n", os.Args[0])
			fmt.Printf("  config_path: Path to configuration file (optional)\n")
			fmt.Printf("  Captures are read as hex lines from stdin or a file, or raw from a serial sniffer.\n")
			return
		} else if i == 0 {
			configPath = arg
		}
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.LogError("Error loading configuration: %v", err)
		os.Exit(1)
	}

	logger.Configure(&cfg.Logging)
	logger.LogStartup("Logging initialized with level: %s", cfg.Logging.Level)

	app, err := builder.NewApplicationBuilder(cfg).Build()
	if err != nil {
		errors.NewErrorHandler(nil, nil).Handle(context.Background(), err)
		os.Exit(1)
	}

	// Cancelled on SIGINT and SIGTERM for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := app.Run(ctx)
	if ctx.Err() != nil {
		logger.LogInfo("📢 Stop signal received...")
	}
	app.Stop()

	if runErr != nil {
		logger.LogError("Bridge error: %v", runErr)
		os.Exit(1)
	}
}
