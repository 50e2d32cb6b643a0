package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kopdigital/koperasi-backend/api/routes"
	"github.com/kopdigital/koperasi-backend/internal/config"
	"github.com/kopdigital/koperasi-backend/internal/handlers"
	"github.com/kopdigital/koperasi-backend/internal/middleware"
	mongorepo "github.com/kopdigital/koperasi-backend/internal/repositories/mongodb"
	"github.com/kopdigital/koperasi-backend/internal/services"
	"github.com/kopdigital/koperasi-backend/pkg/jwt"
	"github.com/kopdigital/koperasi-backend/pkg/logger"
	"github.com/kopdigital/koperasi-backend/pkg/mongodb"
	"github.com/kopdigital/koperasi-backend/pkg/whatsapp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(logger.Options{AppEnv: cfg.AppEnv, AppName: cfg.AppName, Level: cfg.LogLevel})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx := context.Background()
	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.ConnectTimeout)
	if err != nil {
		zlog.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			zlog.Error("error disconnecting from MongoDB", zap.Error(err))
		}
	}()

	db := mongoClient.Database()
	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		zlog.Fatal("failed to ensure indexes", zap.Error(err))
	}

	userRepo := mongorepo.NewUserRepository(db)
	memberRepo := mongorepo.NewMemberRepository(db)
	contributionRepo := mongorepo.NewWasteContributionRepository(db)
	pickupRepo := mongorepo.NewPickupRequestRepository(db)
	pointRepo := mongorepo.NewPointTransactionRepository(db)
	notificationRepo := mongorepo.NewNotificationRepository(db)

	var gateway whatsapp.Gateway
	if cfg.WhatsApp.MockGateway {
		zlog.Warn("using mock WhatsApp gateway, messages are not delivered")
		gateway = whatsapp.NewMockGateway("mock")
	} else {
		gateway = whatsapp.NewHTTPGateway(cfg.WhatsApp.BaseURL, cfg.WhatsApp.APIKey, cfg.WhatsApp.Sender, cfg.WhatsApp.Timeout)
	}

	loc := cfg.Location()
	tokens := jwt.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpiresIn)

	notificationService := services.NewNotificationService(gateway, notificationRepo, services.NotificationOptions{
		MaxAttempts:     cfg.WhatsApp.MaxAttempts,
		RetryDelay:      cfg.WhatsApp.RetryDelay,
		DispatchTimeout: cfg.WhatsApp.Timeout * time.Duration(cfg.WhatsApp.MaxAttempts+1),
	})
	authService := services.NewAuthService(userRepo, memberRepo, tokens, notificationService)
	memberService := services.NewMemberService(memberRepo, notificationService)
	contributionService := services.NewContributionService(contributionRepo, pickupRepo, pointRepo, notificationService)
	pickupService := services.NewPickupService(pickupRepo, contributionService, notificationService, loc)
	summaryService := services.NewSummaryService(contributionRepo, pointRepo, loc)

	handlerDeps := routes.HandlerDependencies{
		AuthHandler:         handlers.NewAuthHandler(authService),
		MemberHandler:       handlers.NewMemberHandler(memberService),
		ContributionHandler: handlers.NewContributionHandler(contributionService),
		PickupHandler:       handlers.NewPickupHandler(pickupService),
		SummaryHandler:      handlers.NewSummaryHandler(summaryService),
		NotificationHandler: handlers.NewNotificationHandler(notificationService),
	}

	stopCleanup := make(chan struct{})
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	limiter.StartCleanup(10*time.Minute, stopCleanup)

	router := routes.SetupRouter(routes.RouterOptions{
		Logger:         zlog,
		Tokens:         tokens,
		MemberService:  memberService,
		RateLimiter:    limiter,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		HealthCheck:    mongoClient.Ping,
	}, handlerDeps)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zlog.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down server")
	close(stopCleanup)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}
	if err := notificationService.Wait(shutdownCtx); err != nil {
		zlog.Warn("pending notifications abandoned", zap.Error(err))
	}

	zlog.Info("server exiting")
}
