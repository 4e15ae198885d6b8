package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/clansdown/KingShotMinisterScheduler/api/swagger"
	"github.com/clansdown/KingShotMinisterScheduler/internal/handler"
	"github.com/clansdown/KingShotMinisterScheduler/internal/middleware"
	"github.com/clansdown/KingShotMinisterScheduler/internal/repository"
	"github.com/clansdown/KingShotMinisterScheduler/internal/service"
	"github.com/clansdown/KingShotMinisterScheduler/pkg/cache"
	"github.com/clansdown/KingShotMinisterScheduler/pkg/config"
	"github.com/clansdown/KingShotMinisterScheduler/pkg/database"
	"github.com/clansdown/KingShotMinisterScheduler/pkg/logger"
	corsmiddleware "github.com/clansdown/KingShotMinisterScheduler/pkg/middleware/cors"
	reqidmiddleware "github.com/clansdown/KingShotMinisterScheduler/pkg/middleware/requestid"
)

// @title KingShot Minister Scheduler API
// @version 1.0.0
// @description Buff appointment scheduling for alliance rosters
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	rosterRepo := repository.NewRosterRepository(db)
	runRepo := repository.NewRunRepository(db)
	userRepo := repository.NewUserRepository(db)

	metricsService := service.NewMetricsService()
	authService := service.NewAuthService(userRepo, logr, validate, cfg.JWT.Secret, cfg.JWT.Expiration)
	rosterService := service.NewRosterService(rosterRepo, logr, validate)
	runService := service.NewRunService(runRepo, rosterRepo, redisClient, metricsService, logr, validate, cfg.Scheduler)
	exportService := service.NewExportService(runService, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runService.Start(ctx)
	defer runService.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	healthHandler := handler.NewHealthHandler(db, redisClient)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metricsService.Registry(), promhttp.HandlerOpts{})))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(authService)
	rosterHandler := handler.NewRosterHandler(rosterService)
	runHandler := handler.NewRunHandler(runService)

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("", middleware.JWTAuth(authService))
	protected.GET("/roster", rosterHandler.List)
	protected.POST("/roster/members", middleware.RequireAdmin(), rosterHandler.Add)
	protected.POST("/roster/import", middleware.RequireAdmin(), rosterHandler.Import)
	protected.DELETE("/roster/members/:id", middleware.RequireAdmin(), rosterHandler.Delete)

	protected.GET("/runs", runHandler.List)
	protected.POST("/runs", middleware.RequireAdmin(), runHandler.Trigger)
	protected.GET("/runs/:id", runHandler.Get)
	protected.GET("/runs/:id/appointments", runHandler.Appointments)
	protected.GET("/runs/:id/waiting", runHandler.Waiting)

	if cfg.Exports.Enabled {
		exportHandler := handler.NewExportHandler(exportService)
		protected.GET("/runs/:id/export", exportHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
