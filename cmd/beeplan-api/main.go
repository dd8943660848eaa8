package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	internalhandler "github.com/noah-isme/beeplan-api/internal/handler"
	internalmiddleware "github.com/noah-isme/beeplan-api/internal/middleware"
	"github.com/noah-isme/beeplan-api/internal/service"
	"github.com/noah-isme/beeplan-api/pkg/cache"
	"github.com/noah-isme/beeplan-api/pkg/config"
	"github.com/noah-isme/beeplan-api/pkg/jobs"
	"github.com/noah-isme/beeplan-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/beeplan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/beeplan-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	store := service.NewMemoryProposalStore(cfg.Scheduler.ProposalTTL)
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to initialise redis proposal store", "error", err)
		}
		defer client.Close()
		store = service.NewRedisProposalStore(client, cfg.Scheduler.ProposalTTL)
	}

	timetableSvc := service.NewTimetableService(store, metricsSvc, nil, logr, service.TimetableConfig{
		StepLimit: cfg.Scheduler.StepLimit,
	})

	var jobSvc *service.GenerationJobService
	if cfg.Jobs.Enabled {
		jobSvc = service.NewGenerationJobService(timetableSvc, logr, jobs.QueueConfig{
			Workers:    cfg.Jobs.Workers,
			BufferSize: cfg.Jobs.BufferSize,
			MaxRetries: cfg.Jobs.MaxRetries,
			RetryDelay: cfg.Jobs.RetryDelay,
		})
		jobSvc.Start(context.Background())
		defer jobSvc.Stop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)

	timetableHandler := internalhandler.NewTimetableHandler(timetableSvc, jobSvc)
	timetables := api.Group("/timetables")
	timetables.POST("/generate", timetableHandler.Generate)
	timetables.GET("/proposals/:id", timetableHandler.GetProposal)
	timetables.DELETE("/proposals/:id", timetableHandler.DeleteProposal)
	timetables.GET("/proposals/:id/views", timetableHandler.Views)
	timetables.GET("/proposals/:id/export", timetableHandler.Export)
	timetables.POST("/jobs", timetableHandler.SubmitJob)
	timetables.GET("/jobs/:id", timetableHandler.JobStatus)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("starting beeplan-api", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server stopped", "error", err)
	}
}
