package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kopdigital/koperasi-backend/internal/handlers"
	"github.com/kopdigital/koperasi-backend/internal/metrics"
	"github.com/kopdigital/koperasi-backend/internal/middleware"
	"github.com/kopdigital/koperasi-backend/internal/models"
	"github.com/kopdigital/koperasi-backend/internal/services"
	"github.com/kopdigital/koperasi-backend/pkg/jwt"
	"go.uber.org/zap"
)

// HandlerDependencies holds the handlers mounted by SetupRouter
type HandlerDependencies struct {
	AuthHandler         *handlers.AuthHandler
	MemberHandler       *handlers.MemberHandler
	ContributionHandler *handlers.ContributionHandler
	PickupHandler       *handlers.PickupHandler
	SummaryHandler      *handlers.SummaryHandler
	NotificationHandler *handlers.NotificationHandler
}

// RouterOptions carries the cross-cutting collaborators of the router
type RouterOptions struct {
	Logger         *zap.Logger
	Tokens         *jwt.TokenService
	MemberService  services.MemberService
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
	// HealthCheck reports whether the backing store is reachable.
	HealthCheck func(ctx context.Context) error
}

// SetupRouter sets up the router
func SetupRouter(opts RouterOptions, deps HandlerDependencies) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.L()
	}

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORSMiddleware(opts.AllowedOrigins))
	router.Use(middleware.ErrorHandler(logger))

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", healthHandler(opts.HealthCheck))

		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
		}
	}

	authenticated := router.Group("/api/v1")
	authenticated.Use(middleware.JWTAuthMiddleware(opts.Tokens))

	// Any member status may read its own profile
	profile := authenticated.Group("/members")
	profile.Use(middleware.MemberMiddleware(opts.MemberService, false))
	{
		profile.GET("/me", deps.MemberHandler.GetMe)
	}

	// Waste-bank routes require an active member
	protected := authenticated.Group("")
	protected.Use(middleware.MemberMiddleware(opts.MemberService, true))
	{
		contributions := protected.Group("/contributions")
		{
			contributions.GET("", deps.ContributionHandler.ListContributions)
			contributions.POST("", deps.ContributionHandler.CreateContribution)
		}

		pickups := protected.Group("/pickup-requests")
		{
			pickups.GET("", deps.PickupHandler.ListPickupRequests)
			pickups.POST("", deps.PickupHandler.CreatePickupRequest)
			pickups.PATCH("", deps.PickupHandler.UpdatePickupRequest)
		}

		protected.GET("/summary", deps.SummaryHandler.GetSummary)
		protected.GET("/points/transactions", deps.SummaryHandler.ListPointTransactions)
		protected.GET("/notifications", deps.NotificationHandler.ListNotifications)

		whatsapp := protected.Group("/whatsapp")
		if opts.RateLimiter != nil {
			whatsapp.Use(opts.RateLimiter.Handler())
		}
		{
			whatsapp.POST("/send", deps.NotificationHandler.SendWhatsApp)
		}
	}

	// Admin routes
	admin := authenticated.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/members", deps.MemberHandler.ListMembers)
		admin.PATCH("/members/:id/status", deps.MemberHandler.UpdateStatus)
	}

	return router
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				zap.L().Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	}
}
