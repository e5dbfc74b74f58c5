package main

import (
	"context"
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

	"github.com/SAP-F-2025/training-portal/internal/apiclient"
	"github.com/SAP-F-2025/training-portal/internal/cache"
	"github.com/SAP-F-2025/training-portal/internal/config"
	"github.com/SAP-F-2025/training-portal/internal/events"
	"github.com/SAP-F-2025/training-portal/internal/handlers"
	"github.com/SAP-F-2025/training-portal/internal/services"
	"github.com/SAP-F-2025/training-portal/internal/session"
	"github.com/SAP-F-2025/training-portal/internal/utils"
	"github.com/SAP-F-2025/training-portal/internal/validator"
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

	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	// Initialize session store (Redis if configured)
	var redisClient *redis.Client
	var store session.Store = session.NewMemoryStore()
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(rootCtx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Failed to initialize Redis, keeping sessions in memory", "error", err)
		} else {
			store = session.NewRedisStore(redisClient, cfg.SessionTTL)
			logger.Info("Sessions stored in Redis", "ttl", cfg.SessionTTL)
		}
	}

	// Initialize activity events
	publisher, activityDone, err := setupEvents(rootCtx, cfg, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize events: %v", err)
	}

	// Initialize API client
	api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout, slogLogger)
	logger.Info("Using training platform API", "url", cfg.APIBaseURL, "timeout", cfg.APITimeout)

	// Initialize services
	serviceManager := services.NewServiceManager(api, publisher, slogLogger, validator.NewBusinessValidator(), services.ServiceManagerConfig{
		DemoPassword: cfg.DemoPassword,
		NotebookURL:  cfg.NotebookURL,
	})
	if err := serviceManager.Initialize(rootCtx); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, store, logger, handlers.AuthConfig{
		CookieName:   cfg.SessionCookie,
		SecureCookie: cfg.IsProduction(),
	})
	if redisClient != nil {
		handlerManager.WithHealthCheck(cache.NewCacheHelper(redisClient, "").HealthCheck)
	}

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	templates, err := handlers.LoadTemplates()
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}
	router.SetHTMLTemplate(templates)

	// Setup middleware
	handlers.SetupMiddleware(router, logger)

	// Setup routes
	handlerManager.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Shutdown services (closes the event publisher)
	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	// Stop the activity logger
	stopBackground()
	if activityDone != nil {
		select {
		case <-activityDone:
		case <-ctx.Done():
			log.Printf("Activity logger did not stop in time")
		}
	}

	// Close Redis connection
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}

// setupEvents publishes to Kafka when brokers are configured, otherwise to an
// in-process channel drained by the activity logger.
func setupEvents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (events.EventPublisher, <-chan struct{}, error) {
	if len(cfg.KafkaBrokers) > 0 {
		pub, err := events.NewKafkaPublisher(cfg.KafkaBrokers, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Publishing activity events to Kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.ActivityTopic)
		return events.NewWatermillPublisher(pub, cfg.ActivityTopic), nil, nil
	}

	pubSub := events.NewGoChannel(logger)
	done, err := events.StartActivityLogger(ctx, pubSub, cfg.ActivityTopic, logger)
	if err != nil {
		return nil, nil, err
	}
	return events.NewWatermillPublisher(pubSub, cfg.ActivityTopic), done, nil
}
