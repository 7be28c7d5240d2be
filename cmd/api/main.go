package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spending-wallet/config"
	httpHandler "spending-wallet/internal/adapter/http/handler"
	memStorage "spending-wallet/internal/adapter/storage/memory"
	pgStorage "spending-wallet/internal/adapter/storage/postgres"
	redisStorage "spending-wallet/internal/adapter/storage/redis"
	"spending-wallet/internal/catalog"
	"spending-wallet/internal/core/ports"
	"spending-wallet/internal/service"
	"spending-wallet/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Str("backend", cfg.Storage.Backend).
		Int("port", cfg.Server.Port).
		Msg("Starting Spending Wallet")

	ctx := context.Background()

	// Initialize the key-value backend
	var (
		store          ports.KeyValueStore
		healthCheckers []ports.HealthChecker
	)
	switch cfg.Storage.Backend {
	case "memory":
		mem := memStorage.NewKVStore()
		store = mem
		healthCheckers = append(healthCheckers, mem)
		log.Info().Msg("Using in-memory storage (state is lost on restart)")

	case "redis":
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		store = redisStorage.NewKVStore(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))

	case "postgres":
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		if err := pgStorage.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure database schema")
		}
		store = pgStorage.NewKVStore(pool)
		healthCheckers = append(healthCheckers, pgStorage.NewHealthCheck(pool))

	default:
		log.Fatal().Str("backend", cfg.Storage.Backend).Msg("Unknown storage backend")
	}

	// Initialize catalog and wallet engine
	cat := catalog.New()
	engine := service.NewWalletService(cat, store, log)

	// Rehydrate persisted state before serving any request. Read failures are
	// absorbed inside Initialize and the wallet starts empty.
	engine.Initialize(ctx)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Engine:         engine,
		Catalog:        cat,
		HealthCheckers: healthCheckers,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
