package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/iho/ledgergen/internal/adapter/http"
	"github.com/iho/ledgergen/internal/adapter/http/handler"
	"github.com/iho/ledgergen/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/ledgergen/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/ledgergen/internal/adapter/repository/redis"
	"github.com/iho/ledgergen/internal/infrastructure/config"
	"github.com/iho/ledgergen/internal/infrastructure/logger"
	"github.com/iho/ledgergen/internal/infrastructure/metrics"
	"github.com/iho/ledgergen/internal/infrastructure/postgres"
	"github.com/iho/ledgergen/internal/infrastructure/redis"
	"github.com/iho/ledgergen/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, migrationsPath()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier(log)
	chargeRepo := postgresRepo.NewChargeRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	documentRepo := postgresRepo.NewDocumentRepository(pool)
	dividendRepo := postgresRepo.NewDividendRepository(pool)
	tripRepo := postgresRepo.NewTripRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool, retrier)
	rateRepo := postgresRepo.NewRateRepository(pool)
	resolver := postgresRepo.NewAccountResolver(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Historical rates never change, so the cache sits in front of the
	// repository for every lookup.
	rateCache := redisRepo.NewRateCache(redisClient, rateRepo, cfg.RateCacheTTL)
	converter := usecase.NewConverter(rateCache, cfg.ReportingCurrency)

	// Use cases
	generationUC := usecase.NewGenerationUseCase(
		chargeRepo,
		transactionRepo,
		documentRepo,
		dividendRepo,
		tripRepo,
		ledgerRepo,
		converter,
		resolver,
		metrics.New(),
		log,
	)
	tripUC := usecase.NewTripExpenseUseCase(
		txManager,
		tripRepo,
		postgresRepo.NewTripCategoryProviders(pool),
		idGen,
	)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	go func() {
		for range time.Tick(time.Hour) {
			rateLimiter.Reset()
		}
	}()

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		GenerationHandler: handler.NewGenerationHandler(generationUC),
		TripHandler:       handler.NewTripHandler(tripUC),
		HealthHandler:     handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:  idempotencyStore,
		RateLimiter:       rateLimiter,
		Logger:            log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func migrationsPath() string {
	if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
		return path
	}
	return "migrations"
}
