package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"chaloride/internal/app"
	"chaloride/internal/config"
	"chaloride/internal/genai"
	"chaloride/internal/handler"
	"chaloride/internal/logger"
	internalRedis "chaloride/internal/redis"
	"chaloride/internal/repository/postgres"
	"chaloride/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()
	log := logger.New("chaloride", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so the database can be instrumented.
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		var err error
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Warn("failed to initialize New Relic", logger.Error(err))
		} else {
			log.Info("New Relic enabled", logger.String("app", cfg.NewRelic.AppName))
		}
	}

	// Ride history store.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Error("failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Error("failed to ensure schema", logger.Error(err))
		os.Exit(1)
	}
	log.Info("connected to PostgreSQL")

	// Redis for idempotency and the suggestion cache.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Error("failed to connect to redis", logger.Error(err))
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info("connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg, log)

	// Start server in goroutine.
	go func() {
		log.Info("starting server", logger.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", logger.Error(err))
		os.Exit(1)
	}

	log.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, log logger.Logger) *http.Server {
	// AI ride-generation client behind the retry policy.
	retry := genai.Retryer{
		MaxAttempts: cfg.GenAI.MaxAttempts,
		BaseDelay:   cfg.GenAI.BackoffBase,
		JitterMax:   cfg.GenAI.JitterMax,
	}
	generator := genai.NewClient(cfg.GenAI.BaseURL, cfg.GenAI.APIKey, cfg.GenAI.Timeout, retry)

	// Collaborators.
	historyRepo := postgres.NewHistoryRepository(db)
	suggestionCache := internalRedis.NewSuggestionCache(redisClient)
	notifier := service.NewNotificationService(log)

	// Orchestrator components.
	estimator := service.NewFareEstimator(generator, cfg.Simulation.DebounceWindow, log)
	tracker := service.NewTrackingSimulator(cfg.Simulation.DriftInterval, cfg.Simulation.EtaInterval, notifier, log)
	lifecycle := service.NewLifecycleService(
		generator,
		estimator,
		tracker,
		notifier,
		historyRepo,
		cfg.Simulation,
		service.DefaultPaymentMethods(),
		log,
	)
	suggestions := service.NewSuggestionService(generator, suggestionCache, log)
	shareService := service.NewShareService(nil, notifier, log)

	// Initialize handlers.
	rideHandler := handler.NewRideHandler(lifecycle, shareService)
	paymentHandler := handler.NewPaymentHandler(lifecycle)
	historyHandler := handler.NewHistoryHandler(historyRepo)
	suggestionHandler := handler.NewSuggestionHandler(suggestions, lifecycle, historyRepo)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		RideHandler:       rideHandler,
		PaymentHandler:    paymentHandler,
		HistoryHandler:    historyHandler,
		SuggestionHandler: suggestionHandler,
		RedisClient:       redisClient,
		NewRelicApp:       nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
