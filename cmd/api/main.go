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

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/mithilesh-08/ride-hailing/internal/api/handlers"
	"github.com/mithilesh-08/ride-hailing/internal/api/routes"
	"github.com/mithilesh-08/ride-hailing/internal/auth"
	"github.com/mithilesh-08/ride-hailing/internal/config"
	"github.com/mithilesh-08/ride-hailing/internal/repository/postgres"
	paymentsvc "github.com/mithilesh-08/ride-hailing/internal/service/payment"
	pricingsvc "github.com/mithilesh-08/ride-hailing/internal/service/pricing"
	ratingsvc "github.com/mithilesh-08/ride-hailing/internal/service/rating"
	tripsvc "github.com/mithilesh-08/ride-hailing/internal/service/trip"
	triprequestsvc "github.com/mithilesh-08/ride-hailing/internal/service/triprequest"
	usersvc "github.com/mithilesh-08/ride-hailing/internal/service/user"
	"github.com/mithilesh-08/ride-hailing/pkg/cache"
	"github.com/mithilesh-08/ride-hailing/pkg/database"
	"github.com/mithilesh-08/ride-hailing/pkg/logger"
	"github.com/mithilesh-08/ride-hailing/pkg/monitoring"
	"github.com/mithilesh-08/ride-hailing/pkg/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting ride-hailing API",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
	)

	// Initialize New Relic
	nrApp, err := monitoring.New(monitoring.Config{
		LicenseKey: cfg.NewRelic.LicenseKey,
		AppName:    cfg.NewRelic.AppName,
		Enabled:    cfg.NewRelic.Enabled,
	})
	if err != nil {
		appLogger.Warn("Failed to initialize New Relic", logger.Err(err))
		nrApp, _ = monitoring.New(monitoring.Config{})
	} else if nrApp.IsEnabled() {
		appLogger.Info("New Relic APM initialized", logger.String("app_name", cfg.NewRelic.AppName))
	}
	defer nrApp.Shutdown(10 * time.Second)

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cache.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
		DialTimeout: cfg.Redis.DialTimeout,
		ReadTimeout: cfg.Redis.ReadTimeout,
	})
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", logger.Err(err))
	}
	defer cache.Close(redisClient)

	appLogger.Info("Connected to Redis")

	// Initialize PostgreSQL
	dbCfg := database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.MaxConnections,
		MaxIdle:  cfg.Database.MaxIdleConns,
	}
	postgresDB, err := database.NewPostgresDB(dbCfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}
	defer postgresDB.Close()

	appLogger.Info("Connected to PostgreSQL")

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(dbCfg, cfg.Database.MigrationsPath); err != nil {
			appLogger.Fatal("Failed to run migrations", logger.Err(err))
		}
		appLogger.Info("Database migrations applied")
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub(appLogger)
	go wsHub.Run()

	// Repositories
	userRepo := postgres.NewUserRepository(postgresDB)
	locationRepo := postgres.NewDriverLocationRepository(postgresDB)
	vehicleRepo := postgres.NewVehicleRepository(postgresDB)
	tripRepo := postgres.NewTripRepository(postgresDB)
	paymentRepo := postgres.NewPaymentRepository(postgresDB)
	pricingRepo := postgres.NewPricingConfigRepository(postgresDB)
	ratingRepo := postgres.NewRatingRepository(postgresDB)
	tripLocationRepo := postgres.NewTripLocationRepository(postgresDB)

	// Services
	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiry)
	userService := usersvc.NewService(userRepo, tokens, appLogger)
	requestStore := triprequestsvc.NewStore(redisClient, appLogger, cfg.TripRequest.TTL)
	estimator := pricingsvc.NewEstimator(pricingRepo)
	tripService := tripsvc.NewService(postgresDB, requestStore, estimator, tripRepo, locationRepo, appLogger)
	paymentService := paymentsvc.NewService(paymentRepo, tripRepo, redisClient, appLogger)
	ratingService := ratingsvc.NewService(ratingRepo, appLogger)

	// Handlers
	h := handlers.NewHandlers(
		userService, tripService, requestStore, paymentService, ratingService, estimator,
		locationRepo, vehicleRepo, pricingRepo, tripLocationRepo,
		wsHub, appLogger, nrApp, cfg,
	)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	var nrApplication *newrelic.Application
	if nrApp.IsEnabled() {
		nrApplication = nrApp.Application
	}
	routes.SetupRoutes(router, h, tokens, nrApplication)

	appLogger.Info("Routes configured")

	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		appLogger.Info("Server starting", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", logger.Err(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.Err(err))
	}

	appLogger.Info("Server stopped gracefully")
}
