package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"log/slog"

	"cooked/internal/config"
	"cooked/internal/daemon"
	"cooked/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	d, err := daemon.New(cfg, logger)
	if err != nil {
		log.Fatalf("create daemon: %v", err)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start failed", slog.String("error", err.Error()))
		return
	}

	<-ctx.Done()
	logger.Info("cookedd shutting down")
}
