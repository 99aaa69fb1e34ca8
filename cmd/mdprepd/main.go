package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mdprep/mdprep/internal/simconf"
)

func main() {
	// The structured logger is not up yet, so .env problems go to stderr
	if err := loadDotEnv(".env"); err != nil {
		log.Printf("Could not load .env file: %v", err)
	}

	cfg := loadServerConfig()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat)

	srv := NewServer(logger)

	if cfg.SnapshotDir != "" {
		if err := os.MkdirAll(cfg.SnapshotDir, 0o755); err != nil {
			logger.Fatal().Err(err).Str("dir", cfg.SnapshotDir).Msg("cannot create snapshot directory")
		}
		srv.SetSnapshotDir(cfg.SnapshotDir)
	}

	// Create a context that listens for the interrupt signal from the OS
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.ConfigFile != "" {
		holder, err := simconf.NewHolder(cfg.ConfigFile, &simconfLoggerAdapter{logger: logger})
		if err != nil {
			logger.Fatal().Err(err).Str("file", cfg.ConfigFile).Msg("cannot load initial configuration")
		}
		srv.SetHolder(holder)
		srv.AdoptConfig(cfg.ConfigName, holder.Path(), simconf.ActionLoad, holder.Get())

		if cfg.Watch {
			if err := holder.StartWatcher(ctx); err != nil {
				logger.Fatal().Err(err).Str("file", cfg.ConfigFile).Msg("cannot start config watcher")
			}
			updates := make(chan simconf.Config, 4)
			holder.RegisterListener(updates)
			go srv.ConsumeReloads(ctx, cfg.ConfigName, updates)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/resolve", srv.handleResolve)
	mux.HandleFunc("/configs", srv.handleConfigsRoutes)
	mux.HandleFunc("/configs/", srv.handleConfigRoutes)
	mux.HandleFunc("/elements", srv.handleElements)
	mux.HandleFunc("/watch", srv.handleWatch)
	mux.HandleFunc("/notifiers", srv.handleNotifiersRoutes)
	mux.HandleFunc("/notifiers/", srv.handleNotifiersRoutes)
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("http server shutdown failed")
		}
	}()

	logger.Info().Str("addr", cfg.Addr).Msg("mdprepd listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("http server failed")
	}

	<-shutdownDone
	srv.Close()
	logger.Info().Msg("server exiting")
}
