package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/social-service/internal/config"
	"github.com/SAP-F-2025/social-service/internal/events"
	"github.com/SAP-F-2025/social-service/internal/handlers"
	"github.com/SAP-F-2025/social-service/internal/realtime"
	"github.com/SAP-F-2025/social-service/internal/repositories/casdoor"
	"github.com/SAP-F-2025/social-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/social-service/internal/services"
	"github.com/SAP-F-2025/social-service/internal/utils"
	"github.com/SAP-F-2025/social-service/internal/validator"
	"github.com/SAP-F-2025/social-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Redis is optional: without it caching is skipped and realtime stays process-local
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, continuing without it", "error", err)
			redisClient = nil
		}
	}

	// Initialize repositories
	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
		CasdoorConfig: casdoor.CasdoorConfig{
			Endpoint:         cfg.Casdoor.Endpoint,
			ClientID:         cfg.Casdoor.ClientID,
			ClientSecret:     cfg.Casdoor.ClientSecret,
			Certificate:      cfg.Casdoor.Cert,
			OrganizationName: cfg.Casdoor.Organization,
			ApplicationName:  cfg.Casdoor.Application,
		},
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}
	repo := repoManager.GetRepository()

	// Domain events
	var publisher events.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := events.NewKafkaEventPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize Kafka publisher: %v", err)
		}
		publisher = kafkaPublisher
	} else {
		inProcess, _ := events.NewInProcessEventPublisher(cfg.Kafka.Topic, slogLogger)
		publisher = inProcess
		logger.Info("KAFKA_BROKERS not set, publishing domain events in process")
	}

	// Realtime change feed
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	hub := realtime.NewHub(slogLogger)
	if redisClient != nil {
		bus, err := realtime.NewRedisBus(redisClient, cfg.RealtimeChannel, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize realtime bus: %v", err)
		}
		if err := hub.AttachBus(appCtx, bus); err != nil {
			log.Fatalf("Failed to start realtime forwarder: %v", err)
		}
	}

	validator := validator.New()

	// Initialize services
	serviceManager := services.NewServiceManager(repo, slogLogger, validator,
		services.ServiceDependencies{
			RepositoryManager: repoManager,
			Events:            publisher,
			Realtime:          hub,
		},
		services.ServiceManagerConfig{
			PlatformOwnerEmail: cfg.PlatformOwnerEmail,
			DefaultCourseImage: cfg.DefaultCourseImage,
		},
	)
	if err := serviceManager.Initialize(appCtx); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(
		serviceManager,
		validator,
		logger,
		handlers.NewCasdoorProvider(cfg.Casdoor),
		repo.User(),
		hub,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger, cfg.CORSAllowedOrigins)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	server.RegisterOnShutdown(handlerManager.Close)

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	stopApp()

	// closes the event publisher and the database pool
	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown services", "error", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Failed to close Redis", "error", err)
		}
	}

	logger.Info("Server exited")
}
