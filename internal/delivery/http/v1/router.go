package v1

import (
	"net/http"
	"time"

	"connectmetric-backend/config"
	"connectmetric-backend/internal/delivery/http/middleware"
	"connectmetric-backend/internal/delivery/http/response"
	"connectmetric-backend/internal/domain"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC         domain.AuthUsecase
	ProcessUC      domain.ProcessUsecase
	AssignmentUC   domain.AssignmentUsecase
	FeedbackUC     domain.FeedbackUsecase
	MetricsUC      domain.MetricsUsecase
	AnnouncementUC domain.AnnouncementUsecase
	Config         *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public auth routes carry a login rate limit
	public := v1.Group("")
	public.Use(middleware.RateLimit(middleware.LoginRateLimitConfig(
		deps.Config.RateLimitLoginThreshold,
		time.Duration(deps.Config.RateLimitWindowSeconds)*time.Second,
	)))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Config, deps.AuthUC))
	{
		NewAuthHandler(public, protected, deps.AuthUC)
		NewProcessHandler(protected, deps.ProcessUC)
		NewAssignmentHandler(protected, deps.AssignmentUC)
		NewFeedbackHandler(protected, deps.FeedbackUC)
		NewMetricsHandler(protected, deps.MetricsUC)
		NewAnnouncementHandler(protected, deps.AnnouncementUC)
	}

	return r
}
