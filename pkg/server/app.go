package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"PortfolioPulse/internal/domain/repository"
	"PortfolioPulse/internal/handler/api"
	"PortfolioPulse/internal/store"
	"PortfolioPulse/internal/usecase"
	"PortfolioPulse/pkg/cache"
	"PortfolioPulse/pkg/config"
	apphttp "PortfolioPulse/pkg/http"
	"PortfolioPulse/pkg/logger"
)

// App wires the sync loop, the snapshot store, the websocket hub, and the
// HTTP server into one lifecycle.
type App struct {
	cfg      *config.Config
	log      *logger.Logger
	sync     *usecase.Sync
	store    *store.SnapshotStore
	hub      *api.Hub
	server   *apphttp.Server
	recorder repository.Recorder
	cache    cache.Service
}

func NewApp(
	cfg *config.Config,
	log *logger.Logger,
	sync *usecase.Sync,
	snapStore *store.SnapshotStore,
	hub *api.Hub,
	server *apphttp.Server,
	recorder repository.Recorder,
	cacheSvc cache.Service,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		sync:     sync,
		store:    snapStore,
		hub:      hub,
		server:   server,
		recorder: recorder,
		cache:    cacheSvc,
	}
}

// Run starts everything and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.recorder != nil {
		if err := a.recorder.Init(ctx); err != nil {
			return err
		}
	}

	sub, unsubscribe := a.store.Subscribe()
	go a.hub.Run(ctx, sub)

	a.sync.Start(ctx)
	if err := a.server.Start(); err != nil {
		return err
	}

	a.log.Info("portfoliopulse started",
		logger.String("environment", a.cfg.Environment),
		logger.Int("port", a.cfg.Server.Port),
		logger.String("model", a.sync.Model()),
		logger.String("history", a.cfg.History.Backend))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	a.log.Info("shutting down", logger.String("signal", sig.String()))

	a.sync.Stop()
	unsubscribe()
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer stop()
	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", logger.Error(err))
	}

	if a.recorder != nil {
		if err := a.recorder.Close(); err != nil {
			a.log.Error("recorder close error", logger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Error("cache close error", logger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
