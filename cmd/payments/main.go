package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/payments/internal/pkg/config"
	"github.com/piresc/payments/internal/pkg/database"
	"github.com/piresc/payments/internal/pkg/health"
	"github.com/piresc/payments/internal/pkg/logger"
	"github.com/piresc/payments/internal/pkg/middleware"
	"github.com/piresc/payments/internal/pkg/nsq"
	"github.com/piresc/payments/internal/pkg/retry"
	"github.com/piresc/payments/internal/pkg/server"
	"github.com/piresc/payments/services/payments"
	"github.com/piresc/payments/services/payments/gateway"
	"github.com/piresc/payments/services/payments/handler"
	"github.com/piresc/payments/services/payments/repository"
	"github.com/piresc/payments/services/payments/usecase"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/payments.env"
	}
	configs := config.InitConfig(configPath)

	appLogger, err := logger.InitAppLoggerFromConfig(configs)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Close()

	appLog := appLogger.Service()
	appLog.WithFields(logrus.Fields{
		"version":     configs.App.Version,
		"environment": configs.App.Environment,
	}).Info("Starting application")

	shutdown := server.NewShutdownManager(appLog)
	healthService := health.NewHealthService(appLog)

	// Initialize PostgreSQL database connection
	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to PostgreSQL")
	}
	shutdown.Register("postgres", func(context.Context) error { return postgresClient.Close() })
	healthService.AddChecker("postgres", health.NewPingChecker(postgresClient))

	// Initialize repository
	paymentRepo, err := repository.NewPaymentRepository(configs, postgresClient.GetDB(), appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create payments repository")
	}
	if configs.Payments.EnsureSchema {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := paymentRepo.EnsureSchema(ctx)
		cancel()
		if err != nil {
			appLog.WithError(err).Fatal("Failed to prepare payments table")
		}
	}

	var repo payments.PaymentRepo = paymentRepo
	if configs.Redis.Enabled {
		redisClient, err := database.NewRedisClient(configs.Redis)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to connect to Redis")
		}
		shutdown.Register("redis", func(context.Context) error { return redisClient.Close() })
		healthService.AddChecker("redis", health.NewPingChecker(redisClient))

		ttl := time.Duration(configs.Payments.CacheTTLSeconds) * time.Second
		repo = repository.NewCachedPaymentRepository(paymentRepo, redisClient, ttl, appLog)
	}

	// Initialize gateway
	var publisher gateway.Publisher
	if configs.NSQ.Enabled {
		producer, err := nsq.NewProducer(configs.NSQ.Address, appLog)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to connect to NSQ")
		}
		shutdown.Register("nsq", func(context.Context) error {
			producer.Stop()
			return nil
		})
		healthService.AddChecker("nsq", health.CheckerFunc(func(context.Context) error {
			return producer.Ping()
		}))
		publisher = producer
	}
	// publish retries must stay well inside the request timeout
	retryConfig := retry.DefaultConfig()
	retryConfig.MaxRetries = 2
	retryConfig.BaseDelay = 50 * time.Millisecond
	retryConfig.MaxDelay = 500 * time.Millisecond
	publishRetrier := retry.New(retryConfig, appLog)
	paymentGW := gateway.NewPaymentGW(publisher, configs.NSQ.Topic, gateway.WithRetrier(publishRetrier))

	// Initialize usecase and handlers
	paymentUC := usecase.NewPaymentUC(repo, paymentGW, appLog)
	paymentHandler := handler.NewHandler(paymentUC, appLog)

	e := echo.New()

	// Panic recovery must stay first
	e.Use(middleware.PanicRecoveryMiddleware(appLog))
	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.CORSMiddleware(configs.CORS))
	e.Use(logger.EchoMiddleware(appLog))

	health.RegisterHealthEndpoints(e, configs.App.Name, configs.App.Version, healthService)
	paymentHandler.RegisterRoutes(e, middleware.APIKeyMiddleware(configs.APIKey))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.NewGracefulServer(e, appLog, configs.Server)
	if err := srv.Run(ctx); err != nil {
		appLog.WithError(err).Error("HTTP server stopped with error")
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdown.Shutdown(closeCtx); err != nil {
		appLog.WithError(err).Error("Error closing connections")
	}

	appLog.Info("Server exiting gracefully")
}
