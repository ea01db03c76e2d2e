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

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/meetflow-app/meetflow/pkg/validator"

	"github.com/meetflow-app/meetflow/internal/adapter/handler"
	"github.com/meetflow-app/meetflow/internal/infrastructure/cache"
	"github.com/meetflow-app/meetflow/internal/infrastructure/database"
	"github.com/meetflow-app/meetflow/internal/infrastructure/external/oauth"
	"github.com/meetflow-app/meetflow/internal/infrastructure/kv"
	"github.com/meetflow-app/meetflow/internal/infrastructure/storage"
	"github.com/meetflow-app/meetflow/internal/session"
	"github.com/meetflow-app/meetflow/internal/store"
	"github.com/meetflow-app/meetflow/internal/usecase/analysis"
	"github.com/meetflow-app/meetflow/internal/usecase/auth"
	"github.com/meetflow-app/meetflow/pkg/config"
	"github.com/meetflow-app/meetflow/pkg/jwt"
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

	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	clk := clock.New()

	// Select the persistence backend for the meeting store
	var backend store.Backend
	switch cfg.Persistence.Backend {
	case "redis":
		log.Println("Connecting to Redis...")
		redisClient, err := kv.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		backend = kv.NewRedisStore(redisClient)

	case "postgres":
		log.Println("Connecting to database...")
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.CloseDB(db)

		// Production deployments manage schema via sql-migrate in CI/CD.
		if cfg.Database.AutoMigrate {
			if cfg.Server.Environment == "production" {
				log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
			}
			if err := database.AutoMigrate(db); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}
		backend = kv.NewPostgresStore(db)

	default:
		backend = kv.NewMemoryStore()
	}

	// Initialize meeting store and load the persisted collection
	meetingStore := store.NewMeetingStore(backend, cfg.Persistence.MeetingsKey, clk, logger)
	if err := meetingStore.Load(context.Background()); err != nil {
		log.Fatalf("Failed to load meetings: %v", err)
	}

	// Initialize analysis engine
	generator := analysis.NewSimulatedGenerator(clk, cfg.Analysis.Latency)
	engine := analysis.NewService(meetingStore, generator, clk, analysis.Options{
		ScheduleDelay: cfg.Analysis.ScheduleDelay,
		MaxRetries:    cfg.Analysis.MaxRetries,
	}, logger)

	// Initialize recording session
	recorder := session.NewRecorder(meetingStore, engine, clk, session.Options{
		SpeakingInterval:    cfg.Recorder.SpeakingInterval,
		SpeakingProbability: cfg.Recorder.SpeakingProbability,
		DefaultParticipants: cfg.Recorder.DefaultParticipants,
	}, logger)

	// Initialize JWT manager
	jwtManager := jwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize auth service
	authService := auth.NewService(jwtManager, clk, auth.Options{
		SimulatedLatency: cfg.Auth.SimulatedLatency,
	}, logger)

	// Initialize Google OAuth provider when configured
	var googleProvider *oauth.GoogleProvider
	var stateManager *oauth.StateManager
	if cfg.OAuth.Google.ClientID != "" {
		googleProvider = oauth.NewGoogleProvider(
			cfg.OAuth.Google.ClientID,
			cfg.OAuth.Google.ClientSecret,
			cfg.OAuth.Google.RedirectURL,
		)
		stateManager = oauth.NewStateManager(cache.NewMemoryStore())
	}

	// Initialize object storage for transcript exports when enabled
	var exporter *storage.MinIOClient
	if cfg.Storage.Enabled {
		log.Println("Connecting to object storage...")
		exporter, err = storage.NewMinIOClient(&cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
	}

	// Setup router with handlers
	recorderHandler := handler.NewRecorder(recorder, logger)
	meetingHandler := handler.NewMeeting(meetingStore, engine, exporter, logger)
	authHandler := handler.NewAuth(authService, googleProvider, stateManager, jwtManager, logger)

	router := handler.NewRouter(cfg, recorderHandler, meetingHandler, authHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Starting server on %s (environment: %s)", addr, cfg.Server.Environment)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Let pending analysis runs finish before exiting
	engine.Wait()

	log.Println("Server stopped gracefully")
}
