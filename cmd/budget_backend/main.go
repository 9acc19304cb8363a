package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/budget_tracker_app/internal/core/services"
	"github.com/SscSPs/budget_tracker_app/internal/handlers"
	"github.com/SscSPs/budget_tracker_app/internal/middleware"
	"github.com/SscSPs/budget_tracker_app/internal/platform/bootstrap"
	"github.com/SscSPs/budget_tracker_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

// @title Budget Tracker API
// @version 1.0
// @description Monthly budget, expenses and wishlist in two currencies.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := bootstrap.OpenRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	rateSource, closeRates := bootstrap.NewRateSource(cfg, logger)
	defer closeRates()

	publisher, posthogPublisher, err := bootstrap.NewEventPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Error closing event publisher", slog.String("error", err.Error()))
		}
	}()

	container := services.NewServiceContainer(cfg, repos, rateSource, publisher, logger)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	var tracker middleware.RequestTracker
	if posthogPublisher != nil {
		tracker = posthogPublisher
	}
	if err := handlers.RegisterRoutes(r, cfg, container, tracker); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("backend", cfg.DataBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			container.Sessions.Shutdown(context.Background())
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}
	container.Sessions.Shutdown(shutdownCtx)
	logger.Info("Server stopped")
	return nil
}
