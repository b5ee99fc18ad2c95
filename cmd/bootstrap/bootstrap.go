package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wrenchway-api/config"
	deliveryHttp "wrenchway-api/internal/delivery/http"
	"wrenchway-api/internal/delivery/http/handler"
	"wrenchway-api/internal/delivery/http/middleware"
	"wrenchway-api/internal/infrastructure/cache"
	"wrenchway-api/internal/infrastructure/database"
	"wrenchway-api/internal/infrastructure/lock"
	"wrenchway-api/internal/infrastructure/messaging"
	"wrenchway-api/internal/repository"
	"wrenchway-api/internal/service"
	"wrenchway-api/internal/usecase"
	"wrenchway-api/pkg/clock"
	"wrenchway-api/pkg/jwt"
	"wrenchway-api/pkg/keylock"
	"wrenchway-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config       *config.Config
	Log          *logrus.Logger
	DB           *gorm.DB
	RedisClient  *redis.Client
	Publisher    service.EventPublisher
	BookingLocks *keylock.KeyedMutex
	Server       *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log := setupLogger(cfg.App.LogLevel)
	app.Log = log
	log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	if cfg.DB.Migrate {
		if err := database.RunMigrations(db, log); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	// Initialize event publisher
	publisher, err := messaging.NewPublisher(cfg.Events, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	app.Publisher = publisher
	log.Infof("Event publisher ready: driver=%s", cfg.Events.Driver)

	app.BookingLocks = keylock.New(log, keylock.DefaultCleanupInterval, keylock.DefaultStaleThreshold)

	// Initialize all layers
	server, err := app.initializeServer()
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() (*http.Server, error) {
	cfg, log, db := app.Config, app.Log, app.DB

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	clk := clock.New()
	tx := database.NewTransactor(db)
	tokenStore := cache.NewRedisTokenStore(app.RedisClient)
	slotLocks := lock.NewRedisLocker(app.RedisClient, log, cfg.Booking.LockTTL)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	auditService := service.NewAuditService(log, auditLogRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, tx, userRepo, auditService, jwtService, tokenStore, clk)
	catalogUsecase := usecase.NewCatalogUsecase(log, serviceRepo, cfg.App.QueryTimeout)
	assignmentUsecase := usecase.NewAssignmentUsecase(
		log, tx, bookingRepo, userRepo, serviceRepo, auditService, app.Publisher,
		app.BookingLocks, slotLocks, clk, cfg.App.QueryTimeout,
	)
	bookingUsecase := usecase.NewBookingUsecase(
		log, tx, bookingRepo, userRepo, serviceRepo, auditService, app.Publisher,
		app.BookingLocks, slotLocks, clk, cfg.App.QueryTimeout, cfg.Booking.DefaultPageSize,
	)
	technicianUsecase := usecase.NewTechnicianUsecase(
		log, tx, userRepo, bookingRepo, auditService, app.Publisher, clk, cfg.App.QueryTimeout,
	)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, auditLogRepo, cfg.App.QueryTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := authUsecase.EnsureAdmin(ctx, cfg.Admin); err != nil {
		return nil, fmt.Errorf("failed to seed admin account: %w", err)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	serviceHandler := handler.NewServiceHandler(catalogUsecase)
	bookingHandler := handler.NewBookingHandler(bookingUsecase, customValidator, cfg.Booking.DefaultPageSize)
	technicianHandler := handler.NewTechnicianHandler(technicianUsecase, assignmentUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(log, jwtService, tokenStore)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler, serviceHandler, bookingHandler, technicianHandler, auditLogHandler,
		authMiddleware, corsMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close releases everything New opened. Safe on a partially built App.
func (app *App) Close() {
	if app.BookingLocks != nil {
		app.BookingLocks.Stop()
	}

	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			app.Log.Warnf("Failed to close event publisher: %+v", err)
		}
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
