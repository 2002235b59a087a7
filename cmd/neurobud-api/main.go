package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/neurobud/neurobud-api/api/swagger"
	"github.com/neurobud/neurobud-api/internal/handler"
	"github.com/neurobud/neurobud-api/internal/middleware"
	"github.com/neurobud/neurobud-api/internal/repository"
	"github.com/neurobud/neurobud-api/internal/service"
	"github.com/neurobud/neurobud-api/pkg/cache"
	"github.com/neurobud/neurobud-api/pkg/config"
	"github.com/neurobud/neurobud-api/pkg/database"
	"github.com/neurobud/neurobud-api/pkg/logger"
	"github.com/neurobud/neurobud-api/pkg/middleware/cors"
	"github.com/neurobud/neurobud-api/pkg/middleware/requestid"
)

// @title NeuroBud Summary API
// @version 0.1.0
// @description Daily wellness summary generation and read API
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	// Redis is optional: the service degrades to uncached reads when it is
	// unreachable at boot.
	redisClient, err := cache.NewRedis(cfg.Redis)
	cacheEnabled := err == nil
	if err != nil {
		log.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}

	recordRepo := repository.NewRecordRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, log)
	defer func() { _ = cacheRepo.Close() }()

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Summary.CacheTTL, log, cacheEnabled)
	summarySvc := service.NewSummaryService(service.SummaryServiceParams{
		Records:   recordRepo,
		Summaries: summaryRepo,
		Cache:     cacheSvc,
		Metrics:   metricsSvc,
		Logger:    log,
		Config: service.SummaryServiceConfig{
			WorkerConcurrency: cfg.Summary.WorkerConcurrency,
			CacheTTL:          cfg.Summary.CacheTTL,
			ScheduleEnabled:   cfg.Summary.ScheduleEnabled,
			ScheduleInterval:  cfg.Summary.ScheduleInterval,
		},
	})

	summaryHandler := handler.NewSummaryHandler(summarySvc, validator.New())
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(cors.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		internal := api.Group("/internal")
		internal.Use(middleware.InternalAuth(cfg.Internal))
		// The trigger accepts any method so external schedulers with fixed
		// HTTP verbs can call it. OPTIONS is answered by the CORS layer.
		internal.Any("/daily-summaries/generate", summaryHandler.Generate)

		api.GET("/children/:childId/summaries", summaryHandler.ListByChild)
		api.GET("/children/:childId/summaries/:date", summaryHandler.GetByDate)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	summarySvc.StartSchedule(ctx)

	log.Sugar().Infow("server starting", "port", cfg.Port, "env", cfg.Env)
	if err := r.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
