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

	"github.com/andresuchdata/inventory-bi/backend-go/internal/api"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/cache"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/config"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/export"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/service"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/storage"
	"github.com/andresuchdata/inventory-bi/backend-go/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := cfg.Validate(); err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid configuration")
	}

	catalog, err := service.LoadCatalog(cfg.Catalog)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load catalog")
	}
	logger.Log.Info().
		Str("version", catalog.Version).
		Int("items", len(catalog.Items)).
		Msg("Catalog loaded")

	policyCache, err := cache.NewPolicyCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Policy cache unavailable, continuing without cache")
		policyCache = cache.NewNoopPolicyCache()
	}

	ctx := context.Background()
	var exporter *export.Exporter
	store, err := storage.New(ctx, cfg.Export)
	if err != nil {
		logger.Log.Warn().Err(err).Str("backend", cfg.Export.Backend).Msg("Export storage unavailable, export disabled")
	} else {
		exporter = export.New(store, export.ConfigFrom(cfg.Export))
	}

	policyService := service.NewPolicyService(catalog, policyCache, exporter, cfg)
	router := api.NewRouter(&api.Services{PolicyService: policyService}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
