package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recallerhq/recaller-backend/internal/config"
	"github.com/recallerhq/recaller-backend/internal/mcp"
	"github.com/recallerhq/recaller-backend/internal/mcp/backend"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to YAML config file")
	flag.Parse()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(*configPath, log)
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	b, err := backend.New(cfg.MCP, log)
	if err != nil {
		log.Error("Failed to init backend", "error", err)
		os.Exit(1)
	}

	srv := mcp.NewServer(cfg.MCP, b, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("MCP gateway listening", "port", cfg.MCP.Port, "backend", b.Name())
		errCh <- srv.Run(":" + cfg.MCP.Port)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("MCP gateway failed", "error", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		log.Info("Shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn("Graceful shutdown failed", "error", err)
		}
	}
}
