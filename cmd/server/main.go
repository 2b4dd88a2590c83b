package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"github.com/inkwellhq/engagement/internal/router"
	"github.com/inkwellhq/engagement/pkg/config"
	"github.com/inkwellhq/engagement/pkg/firebase"
	"github.com/inkwellhq/engagement/pkg/logger"
	"github.com/inkwellhq/engagement/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logger.Init(logger.Options{Level: cfg.LogLevel, Path: cfg.LogPath}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.S.Fatalw("failed to initialize databases", "error", err)
	}
	defer db.CloseDB()

	// Initialize Firebase; without credentials the JWT fallback middleware
	// guards the API instead.
	var authClient *auth.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			logger.S.Fatalw("failed to initialize Firebase", "error", err)
		}
		authClient = firebaseApp.AuthClient
	} else {
		logger.S.Warn("FIREBASE_CREDENTIALS_PATH not set, using JWT fallback auth")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, cfg, db.Postgres, db.Mongo, db.Redis, authClient); err != nil {
		logger.S.Fatalw("failed to set up routes", "error", err)
	}

	// Start server; shut down cleanly on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.S.Infow("starting engagement service", "port", cfg.Port, "env", cfg.Env)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.S.Fatalw("server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	logger.S.Info("shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.S.Errorw("graceful shutdown failed", "error", err)
	}
}
