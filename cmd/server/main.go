package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/feedback-service/internal/auth"
	"github.com/SAP-F-2025/feedback-service/internal/cache"
	"github.com/SAP-F-2025/feedback-service/internal/config"
	"github.com/SAP-F-2025/feedback-service/internal/events"
	"github.com/SAP-F-2025/feedback-service/internal/graphql"
	"github.com/SAP-F-2025/feedback-service/internal/handlers"
	"github.com/SAP-F-2025/feedback-service/internal/metrics"
	"github.com/SAP-F-2025/feedback-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/feedback-service/internal/services"
	"github.com/SAP-F-2025/feedback-service/internal/utils"
	"github.com/SAP-F-2025/feedback-service/internal/validator"
	"github.com/SAP-F-2025/feedback-service/pkg"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.IsProduction())
	slogger := utils.ToSlogLogger(logger)

	if err := run(cfg, logger, slogger); err != nil {
		logger.LogError(err, "Server stopped")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger utils.Logger, slogger *slog.Logger) error {
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if err := pkg.AutoMigrate(db); err != nil {
		return err
	}

	registry := metrics.New()

	redisClient, cacheService := setupCache(cfg, registry, slogger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.LogError(err, "Failed to create event publisher, discarding events")
		publisher = nil
	}

	serviceManager := services.NewServiceManager(services.Dependencies{
		Repo:       postgres.NewRepository(db),
		Cache:      cacheService,
		Publisher:  publisher,
		Metrics:    registry,
		Logger:     slogger,
		Validator:  validator.New(),
		ResultsTTL: cfg.Cache.ResultsTTL,
	})
	defer closePublisher(publisher, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(
		serviceManager,
		graphql.NewSchema(serviceManager, slogger),
		auth.NewCasdoorAuthenticator(cfg.Casdoor, slogger),
		registry,
		logger,
	)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting feedback service", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down feedback service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// setupCache prefers Redis. Without it the report is uncached unless a
// process-local cache was asked for.
func setupCache(cfg *config.Config, registry *metrics.Metrics, logger *slog.Logger) (*redis.Client, cache.CacheService) {
	if !cfg.Cache.Enabled {
		logger.Info("Results cache disabled")
		return nil, cache.NewNoopCache()
	}

	client, err := pkg.NewRedisClient(cfg)
	if err != nil {
		if cfg.Cache.LocalFallback {
			logger.Warn("Redis unavailable, using in-memory cache", "error", err)
			return nil, cache.NewMemoryCache()
		}
		logger.Warn("Redis unavailable, results cache disabled", "error", err)
		return nil, cache.NewNoopCache()
	}

	registry.RegisterRedis(client)
	return client, cache.NewRedisCache(client, logger)
}

func closePublisher(publisher events.EventPublisher, logger utils.Logger) {
	if publisher == nil {
		return
	}
	if err := publisher.Close(); err != nil {
		logger.LogError(err, "Failed to close event publisher")
	}
}
