package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"swissprop/server/config"
	"swissprop/server/internal/api"
	"swissprop/server/internal/cantons"
	"swissprop/server/internal/database"
	"swissprop/server/internal/extraction"
	"swissprop/server/internal/geocoding"
	"swissprop/server/internal/narrative"
	"swissprop/server/internal/overview"
	"swissprop/server/internal/search"
	"swissprop/server/internal/telemetry"
	"swissprop/server/internal/trends"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithError(err).Warn("Invalid log level, keeping info")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to set up tracing")
	}

	logger.Infof("Using database at: %s", cfg.Database.Path)
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	registry := cantons.Default()
	extractor := extraction.NewFirecrawlClient(extraction.FirecrawlConfig{
		BaseURL:      cfg.Extraction.BaseURL,
		APIKey:       cfg.Extraction.APIKey,
		PollInterval: cfg.Extraction.PollInterval,
		Timeout:      cfg.Extraction.Timeout,
		MaxRetries:   cfg.Extraction.MaxRetries,
		RetryDelay:   cfg.Extraction.RetryDelay,
	}, logger)
	builder := overview.NewBuilder(registry, logger)
	if !cfg.Geocoding.Disabled {
		builder.SetLocator(geocoding.NewGeocoder(geocoding.Config{
			Endpoint:    cfg.Geocoding.Endpoint,
			CacheDir:    cfg.Geocoding.CacheDir,
			MinInterval: time.Second,
		}, logger))
	}
	narrator := narrative.NewAnthropicClient(cfg.Narrative.APIKey, cfg.Narrative.Model, cfg.Narrative.MaxTokens)
	logger.WithField("model", narrator.Model()).Info("Narrative service configured")

	handler := api.NewHandler(db, api.Services{
		Registry:     registry,
		Search:       search.NewService(extractor, registry, logger),
		Trends:       trends.NewSynthesizer(extractor, registry, logger),
		Overview:     builder,
		Analyst:      narrative.NewAnalyst(narrator, logger),
		DefaultLimit: cfg.Search.DefaultLimit,
		PageSize:     cfg.Search.PageSize,
	}, logger)

	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.WithError(err).Error("Tracing shutdown failed")
	}
}
