package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/impulsa-uc/impulsa-api/api/swagger"
	"github.com/impulsa-uc/impulsa-api/internal/handler"
	"github.com/impulsa-uc/impulsa-api/internal/middleware"
	"github.com/impulsa-uc/impulsa-api/internal/models"
	"github.com/impulsa-uc/impulsa-api/internal/repository"
	"github.com/impulsa-uc/impulsa-api/internal/service"
	"github.com/impulsa-uc/impulsa-api/pkg/cache"
	"github.com/impulsa-uc/impulsa-api/pkg/config"
	"github.com/impulsa-uc/impulsa-api/pkg/database"
	"github.com/impulsa-uc/impulsa-api/pkg/logger"
	corsmiddleware "github.com/impulsa-uc/impulsa-api/pkg/middleware/cors"
	reqidmiddleware "github.com/impulsa-uc/impulsa-api/pkg/middleware/requestid"
)

// @title IMPULSA API
// @version 1.0.0
// @description University workshop marketplace
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Degraded mode: the OTP flow needs Redis, the rest does not.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	profileRepo := repository.NewProfileRepository(db)
	workshopRepo := repository.NewWorkshopRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	universityRepo := repository.NewUniversityRepository(db)
	otpRepo := repository.NewOTPRepository(redisClient)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()

	mailer := service.NewLogMailer(cfg.Mailer.FromAddress, logr)
	dispatcher := service.NewMailDispatcher(mailer, cfg.Mailer, metricsSvc, logr)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	authSvc := service.NewAuthService(profileRepo, otpRepo, dispatcher, cfg.JWT, cfg.OTP, logr)
	workshopSvc := service.NewWorkshopService(workshopRepo, profileRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, profileRepo, metricsSvc, logr)
	ratingSvc := service.NewRatingService(ratingRepo, workshopRepo, logr)
	profileSvc := service.NewProfileService(profileRepo, enrollmentRepo, workshopRepo, ratingRepo, logr)
	adminSvc := service.NewAdminService(service.AdminServiceParams{
		Workshops:    workshopRepo,
		Universities: universityRepo,
		Enrollments:  enrollmentRepo,
		Profiles:     profileRepo,
		Cache:        cacheRepo,
		Metrics:      metricsSvc,
		Validator:    validate,
		Logger:       logr,
		StatsTTL:     cfg.Dashboard.CacheTTL,
	})

	authHandler := handler.NewAuthHandler(authSvc)
	workshopHandler := handler.NewWorkshopHandler(workshopSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	ratingHandler := handler.NewRatingHandler(ratingSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	adminHandler := handler.NewAdminHandler(adminSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/verify", authHandler.Verify)

	workshops := api.Group("/workshops")
	workshops.GET("", workshopHandler.List)
	workshops.GET("/categories", workshopHandler.Categories)
	workshops.GET("/:id", workshopHandler.Get)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	authed.POST("/workshops", workshopHandler.Propose)
	authed.POST("/workshops/:id/enroll", enrollmentHandler.Enroll)
	authed.GET("/workshops/:id/rating", ratingHandler.Get)
	authed.PUT("/workshops/:id/rating", ratingHandler.Submit)
	authed.GET("/profile", profileHandler.Get)
	authed.GET("/profile/enrollments", profileHandler.Enrollments)
	authed.GET("/profile/proposals", profileHandler.Proposals)
	authed.GET("/profile/reputation", profileHandler.Reputation)

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/workshops", adminHandler.Workshops)
	admin.GET("/workshops/pending", adminHandler.Pending)
	admin.PUT("/workshops/:id/approve", adminHandler.Approve)
	admin.PUT("/workshops/:id/reject", adminHandler.Reject)
	admin.GET("/workshops/:id/enrollments/export", adminHandler.ExportParticipants)
	admin.GET("/universities", adminHandler.Universities)
	admin.GET("/stats", adminHandler.Stats)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
