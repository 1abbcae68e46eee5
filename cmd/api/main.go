package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/meetpilot-team/meetpilot/pkg/validator"

	"github.com/meetpilot-team/meetpilot/internal/adapter/handler"
	"github.com/meetpilot-team/meetpilot/internal/adapter/repository"
	"github.com/meetpilot-team/meetpilot/internal/infrastructure/cache"
	"github.com/meetpilot-team/meetpilot/internal/infrastructure/database"
	"github.com/meetpilot-team/meetpilot/internal/infrastructure/realtime"
	"github.com/meetpilot-team/meetpilot/internal/usecase/pipeline"
	"github.com/meetpilot-team/meetpilot/internal/usecase/simulation"
	"github.com/meetpilot-team/meetpilot/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize dependencies
	log.Println("Initializing dependencies...")

	// Initialize Database
	log.Println("Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run AutoMigrate only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("Running GORM AutoMigrate (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run AutoMigrate: %v", err)
		}
	} else {
		log.Println("Skipping GORM AutoMigrate; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize repositories
	log.Println("Initializing repositories...")
	meetingRepo := repository.NewMeetingRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	insightRepo := repository.NewInsightRepository(db)
	actionRepo := repository.NewActionRepository(db)
	decisionRepo := repository.NewDecisionRepository(db)

	// Initialize the realtime hub. With Redis fanout enabled, broadcasts
	// also reach clients connected to other instances.
	log.Println("Initializing realtime hub...")
	hub := realtime.NewHub(logger)

	var broadcaster pipeline.Broadcaster = hub
	bridgeCtx, stopBridge := context.WithCancel(context.Background())
	defer stopBridge()
	if cfg.Redis.FanoutEnabled {
		log.Println("Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		bridge := realtime.NewRedisBridge(hub, redisClient, logger)
		go bridge.Run(bridgeCtx)
		broadcaster = bridge
		log.Println("Redis fanout enabled")
	} else {
		log.Println("Redis fanout disabled; broadcasts stay in-process")
	}

	// Initialize simulation schedulers
	log.Println("Initializing simulation schedulers...")
	phaseLookup := cache.NewCachedPhaseLookup(meetingRepo, cfg.Simulation.PhaseCacheTTL)
	registry := simulation.NewRegistry(
		cfg.Simulation,
		phaseLookup,
		insightRepo,
		actionRepo,
		decisionRepo,
		broadcaster,
		logger,
	)

	// Initialize pipeline service
	log.Println("Initializing pipeline service...")
	pipelineService := pipeline.NewService(
		meetingRepo,
		transcriptRepo,
		insightRepo,
		actionRepo,
		decisionRepo,
		broadcaster,
		registry,
		phaseLookup,
		logger,
	)

	// Initialize handlers
	log.Println("Initializing handlers...")
	webhookHandler := handler.NewWebhookHandler(pipelineService, cfg.Recall.WebhookSecret, logger)
	realtimeHandler := handler.NewRealtimeHandler(hub, pipelineService, cfg.Server.AllowedOrigins, logger)

	// Setup router with handlers
	log.Println("Setting up routes...")
	router := handler.NewRouter(cfg, webhookHandler, realtimeHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Starting server on %s", addr)
		log.Printf("Environment: %s", cfg.Server.Environment)
		log.Printf("Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Stop all meeting schedulers before closing client connections so no
	// broadcast races a closing hub.
	registry.StopAll()
	stopBridge()
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}
