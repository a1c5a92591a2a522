package main

// @title GeoFusion Service API
// @version 1.0.0
// @description Сервис тематических слоев карты. Объединяет open-geodata (Overpass)
// @description и custom entities, фильтрует по радиусу вокруг позиции пользователя
// @description и отдает подсказки под курсором для каждой сессии.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/geofusion-service/docs"
	"github.com/geofusion-service/internal/config"
	httpDelivery "github.com/geofusion-service/internal/delivery/http"
	"github.com/geofusion-service/internal/delivery/http/handler"
	"github.com/geofusion-service/internal/domain/repository"
	"github.com/geofusion-service/internal/infrastructure/entitystore"
	"github.com/geofusion-service/internal/infrastructure/nominatim"
	"github.com/geofusion-service/internal/infrastructure/overpass"
	"github.com/geofusion-service/internal/pkg/logger"
	"github.com/geofusion-service/internal/repository/cache"
	"github.com/geofusion-service/internal/repository/memory"
	"github.com/geofusion-service/internal/repository/postgres"
	"github.com/geofusion-service/internal/usecase"
	"github.com/geofusion-service/internal/worker"
	"github.com/geofusion-service/internal/worker/session"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting GeoFusion Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("entity_source", cfg.EntityStore.Source),
	)

	checks := make(map[string]handler.HealthCheck)

	// 3. Query cache storage
	var queryStore repository.QueryCacheRepository
	var redisClient *cache.Redis
	if cfg.Cache.Backend == "redis" {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		queryStore = cache.NewRedisQueryCache(redisClient, cfg.Cache.TTL)
		checks["redis"] = redisClient.Health
		log.Info("Redis connected")
	} else {
		queryStore = cache.NewMemoryQueryCache(cfg.Cache.Size)
	}

	// 4. PostgreSQL (custom entities)
	var db *postgres.DB
	if cfg.UsesPostgres() {
		db, err = postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		checks["postgres"] = db.Health
		log.Info("PostgreSQL connected")
	}

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	for name, check := range checks {
		if err := check(ctx); err != nil {
			log.Fatal("Health check failed", zap.String("dependency", name), zap.Error(err))
		}
	}
	cancel()

	// 6. Initialize Repositories
	geoData := overpass.NewOverpassClient(&cfg.Overpass, log)
	places := nominatim.NewNominatimClient(&cfg.Nominatim, log)

	var entityStore repository.EntityStoreRepository
	if db != nil {
		entityStore = postgres.NewEntityRepository(db)
	}

	var entities repository.EntityRepository
	switch cfg.EntityStore.Source {
	case config.EntitySourceHTTP:
		entities = entitystore.NewEntityStoreClient(&cfg.EntityStore, log)
	case config.EntitySourcePostgres:
		entities = entityStore
	default:
		entities = memory.NewEntityRepository()
	}

	log.Info("Repositories initialized")

	// 7. Initialize Use Cases
	queryCache := usecase.NewGeoQueryCache(queryStore, geoData, log)

	fusionUC := usecase.NewFusionUseCase(queryCache, entities, usecase.FusionConfig{
		EntityTimeout: cfg.EntityStore.Timeout,
		FitPadding:    cfg.Fusion.FitPadding,
	}, log)

	sessionUC := usecase.NewSessionUseCase(fusionUC, places, usecase.RenderFactory{
		NewFeatureSource: memory.NewFeatureSource,
		NewClusterSource: memory.NewClusterSource,
		NewMapView:       memory.NewMapView,
	}, usecase.SessionConfig{
		FilterCooldown:   cfg.Fusion.FilterCooldown,
		DefaultRadiusKm:  cfg.Fusion.DefaultRadiusKm,
		MatchTolerance:   cfg.Fusion.MatchTolerance,
		TagMemorySize:    cfg.Fusion.TagMemorySize,
		HitToleranceM:    cfg.Fusion.HitToleranceM,
		ClusterDistanceM: cfg.Fusion.ClusterDistanceM,
	}, log)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP Handlers
	healthHandler := handler.NewHealthHandler(sessionUC, queryCache, checks, log)
	sessionHandler := handler.NewSessionHandler(sessionUC, log)
	layerHandler := handler.NewLayerHandler(sessionUC, log)

	var entityHandler *handler.EntityHandler
	if cfg.EntityStore.Serve && entityStore != nil {
		entityHandler = handler.NewEntityHandler(entityStore, log)
	}

	// 9. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, healthHandler, sessionHandler, layerHandler, entityHandler)

	// 10. Background workers
	workerManager := worker.NewWorkerManager(log, 10*time.Second)
	workerManager.Register(session.NewJanitorWorker(sessionUC, cfg.Session.IdleTTL, cfg.Session.SweepInterval, log))

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	if err := workerManager.Start(workerCtx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 11. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 12. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := workerManager.Stop(); err != nil {
		log.Error("Workers shutdown error", zap.Error(err))
	}

	if db != nil {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL", zap.Error(err))
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
