package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"triviaapi/auth"
	"triviaapi/config"
	"triviaapi/db"
	"triviaapi/handlers"
	"triviaapi/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog := logger.New("local", "info")
		bootLog.Fatal().Err(err).Msg("could not load config")
	}

	log := logger.New(cfg.Primary.Env, cfg.Primary.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Connect(ctx, cfg.Database, cfg.Primary.Env, log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize database")
	}
	defer store.Close()

	authManager := auth.NewManager(cfg.Auth)
	if cfg.Auth.Enabled() {
		log.Info().Msg("admin authentication enabled for mutations")
	}

	h := handlers.New(store, handlers.Options{
		Auth:           authManager,
		StrictNotFound: cfg.API.StrictNotFound,
	})
	router := handlers.NewRouter(h, handlers.RouterOptions{
		Logger:             log,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})

	srv := newServer(cfg.Server, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("driver", cfg.Database.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
}

func newServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
