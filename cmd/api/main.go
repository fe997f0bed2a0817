package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/washline-backend/api/routes"
	"github.com/angelmondragon/washline-backend/internal/catalog"
	"github.com/angelmondragon/washline-backend/internal/pricing"
	"github.com/angelmondragon/washline-backend/internal/quote"
	"github.com/angelmondragon/washline-backend/pkg/config"
	"github.com/angelmondragon/washline-backend/pkg/db"
	"github.com/angelmondragon/washline-backend/pkg/logger"
	"github.com/angelmondragon/washline-backend/pkg/metrics"
	"github.com/angelmondragon/washline-backend/pkg/migrate"
	"github.com/angelmondragon/washline-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(context.Background(), logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		requireResource(context.Background(), logg, "redis", err)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured; idempotency replay and rate limiting disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pricingMetrics := metrics.NewPricingMetrics(registry)

	var locker pricing.DimensionLocker
	if redisClient != nil {
		locker, err = pricing.NewLocker(cfg.Pricing, redisClient)
	} else {
		locker, err = pricing.NewLocker(cfg.Pricing, nil)
	}
	requireResource(context.Background(), logg, "pricing locker", err)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	priceRepo := pricing.NewRepository(dbClient.DB())

	pricingService, err := pricing.NewService(priceRepo, catalogRepo, dbClient, locker, logg, pricingMetrics)
	requireResource(context.Background(), logg, "pricing service", err)

	quoteService, err := quote.NewService(catalogRepo, priceRepo, quote.Config{
		UnknownAddonPolicy: cfg.Quote.AddonPolicy(),
		MaxLines:           cfg.Quote.MaxLines,
		Location:           cfg.Quote.Location(),
	}, logg, pricingMetrics)
	requireResource(context.Background(), logg, "quote service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"addr":      addr,
		"lock_mode": cfg.Pricing.NormalizedLockMode(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, registry, pricingService, quoteService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "api server shutdown failed", err)
		}
		logg.Info(shutdownCtx, "api server stopped")
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
