package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stwebyy/rally-track-sub001/internal/infrastructure/di"
	"github.com/stwebyy/rally-track-sub001/internal/infrastructure/worker"
	"github.com/stwebyy/rally-track-sub001/internal/interface/router"
	"github.com/stwebyy/rally-track-sub001/internal/interface/server"
	"github.com/stwebyy/rally-track-sub001/pkg/config"
	"github.com/stwebyy/rally-track-sub001/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		logger.Error(context.Background(), "server exited with error", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logCfg := logger.DefaultConfig()
	if cfg.Server.Debug {
		logCfg.Level = "debug"
	}
	if err := logger.Setup(logCfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	usecases := di.NewUsecases(container)

	srv, err := server.New(cfg)
	if err != nil {
		return err
	}

	router.Setup(srv.Echo(),
		di.NewRouterHandlers(container, usecases),
		di.NewRouterMiddlewares(container),
	)

	workers := worker.NewManager()
	workers.Register(worker.NewSessionExpiryJob(cfg.Upload.ExpirySweepTick, usecases.ExpireSessions))
	workers.Register(worker.NewProviderHealthJob(15*time.Minute, container.VideoProvider))
	workers.Register(worker.NewHealthCheckJob("postgres", time.Minute, container.Postgres))
	workers.Start(ctx)
	defer workers.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
