package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"kadencja/internal/config"
	"kadencja/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Server.LogLevel,
		Format: cfg.Server.LogFormat,
		File:   cfg.Server.LogFile,
	})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.String("addr", cfg.Addr()),
		zap.Int("max_players", cfg.Game.MaxPlayersPerRoom),
		zap.Duration("room_timeout", cfg.Game.RoomTimeout),
	)

	app, err := NewApp(cfg, logger)
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx)
}
