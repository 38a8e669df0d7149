package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ryansh/mediarater/internal/assets"
	"github.com/ryansh/mediarater/internal/config"
	"github.com/ryansh/mediarater/internal/database"
	"github.com/ryansh/mediarater/internal/logger"
	"github.com/ryansh/mediarater/internal/server"
)

func main() {
	configPath := flag.String("config", os.Getenv("MEDIARATER_CONFIG"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	config.Set(cfg)
	logger.Configure(cfg.Logging.Level)

	if err := database.Initialize(cfg); err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	assetMgr := assets.NewManager(cfg)
	if err := assetMgr.Initialize(); err != nil {
		logger.Error("failed to initialize asset storage", "error", err)
		os.Exit(1)
	}

	store := database.NewStore(database.GetDB())
	router := server.SetupRouter(cfg, store, assetMgr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx, cfg, router); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
