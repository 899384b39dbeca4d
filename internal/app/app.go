// Package app wires the API process: config, logger, database, repos,
// services, HTTP server, and the background worker.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/recallerhq/recaller-backend/internal/config"
	"github.com/recallerhq/recaller-backend/internal/data/db"
	internalhttp "github.com/recallerhq/recaller-backend/internal/http"
	"github.com/recallerhq/recaller-backend/internal/jobs"
	"github.com/recallerhq/recaller-backend/internal/notify"
	"github.com/recallerhq/recaller-backend/internal/observability"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      config.Config
	Repos    Repos
	Services Services
	Server   *internalhttp.Server
	Worker   *jobs.Worker
	Bus      notify.Bus

	cancel       context.CancelFunc
	otelShutdown func(context.Context) error
}

func New(configPath string) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := config.Load(configPath, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "recaller-api",
		Environment: cfg.Server.Mode,
	})

	pg, err := db.NewPostgresService(cfg.Postgres, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, reposet)
	if err != nil {
		log.Sync()
		return nil, err
	}

	var bus notify.Bus
	if cfg.Redis.Enabled {
		bus, err = notify.NewRedisBus(cfg.Redis, log)
		if err != nil {
			log.Warn("redis reminder bus unavailable, notifications disabled", "error", err)
			bus = notify.NewNoopBus()
		}
	} else {
		bus = notify.NewNoopBus()
	}

	worker := jobs.NewWorker(
		theDB,
		log,
		reposet.Recurrence,
		reposet.Reminder,
		serviceset.Generator,
		bus,
		cfg.Worker.TickInterval,
		cfg.Worker.Concurrency,
	)

	handlerset := wireHandlers(theDB, log, serviceset)
	server := wireServer(cfg, log, serviceset, handlerset)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Server:       server,
		Worker:       worker,
		Bus:          bus,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background worker loops.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Worker != nil {
		a.Worker.Start(ctx)
	}
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "port", a.Cfg.Server.Port)
	return a.Server.Run(":" + a.Cfg.Server.Port)
}

func (a *App) Shutdown(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return nil
	}
	return a.Server.Shutdown(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Bus != nil {
		_ = a.Bus.Close()
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		_ = a.otelShutdown(ctx)
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
