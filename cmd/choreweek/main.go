package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/choreweek/internal/config"
	"github.com/dukerupert/choreweek/internal/database"
	"github.com/dukerupert/choreweek/internal/janitor"
	"github.com/dukerupert/choreweek/internal/logging"
	"github.com/dukerupert/choreweek/internal/planner"
	"github.com/dukerupert/choreweek/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "choreweek: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	srv := server.New(db, server.Options{FirstDay: cfg.FirstWeekday(), Location: loc, TrustProxy: cfg.TrustProxy}, logger)

	if _, err := server.EnsureAdmin(srv.UserStore(), cfg.Admin.Email, cfg.Admin.Password, logger.With("component", "bootstrap")); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := janitor.New(srv.SessionStore(), []janitor.LimiterPurger{srv.RateLimiter()}, time.Hour, logger.With("component", "janitor"))
	sweeper.Start(ctx)

	var auto *planner.AutoScheduler
	if cfg.AutoSchedule.Enabled {
		auto, err = planner.NewAutoScheduler(srv.Planner(), config.CronParser, cfg.AutoSchedule.Spec,
			cfg.AutoSchedule.MaxPerMember, cfg.FirstWeekday(), loc, logger.With("component", "auto_schedule"))
		if err != nil {
			return err
		}
		auto.Start()
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("choreweek running", "addr", "http://localhost:"+cfg.Port, "db", cfg.DBPath, "week_start", cfg.FirstWeekday().String())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if auto != nil {
		auto.Stop(shutdownCtx)
	}
	sweeper.Stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
		return err
	}
	slog.Info("stopped")
	return nil
}
