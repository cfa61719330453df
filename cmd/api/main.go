package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectmetric-backend/config"
	_ "connectmetric-backend/docs" // Important for Swagger
	v1 "connectmetric-backend/internal/delivery/http/v1"
	"connectmetric-backend/internal/repository/postgres"
	"connectmetric-backend/internal/usecase"
	"connectmetric-backend/pkg/database"
	"connectmetric-backend/pkg/identity"
	"connectmetric-backend/pkg/logger"
	"connectmetric-backend/pkg/redis"

	"github.com/go-playground/validator/v10"
)

// @title           ConnectMetric API
// @version         1.0
// @description     Recruitment process tracking backend using Clean Architecture.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting connectmetric backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (login rate limiting falls back to memory without it)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting uses in-memory fallback", "error", err)
	}
	defer redis.Close()

	// 5. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	processRepo := postgres.NewProcessRepository(dbPool)
	assignmentRepo := postgres.NewAssignmentRepository(dbPool)
	feedbackRepo := postgres.NewFeedbackRepository(dbPool)
	metricsRepo := postgres.NewMetricsRepository(dbPool)
	announcementRepo := postgres.NewAnnouncementRepository(dbPool)

	// 6. Setup SSO Verifier (corporate IdP, JWKS)
	ssoVerifier := identity.NewVerifier(identity.NewProvider(cfg.SSOJWKSUrl), cfg.SSOIssuer)

	// 7. Setup UseCases
	validate := validator.New()
	tokenTTL := time.Duration(cfg.TokenTTLHours) * time.Hour
	authUC := usecase.NewAuthUsecase(userRepo, ssoVerifier, cfg.JWTSecret, tokenTTL)
	processUC := usecase.NewProcessUsecase(processRepo, assignmentRepo, validate)
	assignmentUC := usecase.NewAssignmentUsecase(assignmentRepo, processRepo, userRepo)
	feedbackUC := usecase.NewFeedbackUsecase(feedbackRepo, assignmentRepo, processRepo)
	metricsUC := usecase.NewMetricsUsecase(metricsRepo)
	announcementUC := usecase.NewAnnouncementUsecase(announcementRepo, validate)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:         authUC,
		ProcessUC:      processUC,
		AssignmentUC:   assignmentUC,
		FeedbackUC:     feedbackUC,
		MetricsUC:      metricsUC,
		AnnouncementUC: announcementUC,
		Config:         cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
