package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/washline-backend/api/controllers"
	pricingcontrollers "github.com/angelmondragon/washline-backend/api/controllers/pricing"
	quotecontrollers "github.com/angelmondragon/washline-backend/api/controllers/quotes"
	"github.com/angelmondragon/washline-backend/api/middleware"
	"github.com/angelmondragon/washline-backend/internal/pricing"
	"github.com/angelmondragon/washline-backend/internal/quote"
	"github.com/angelmondragon/washline-backend/pkg/config"
	"github.com/angelmondragon/washline-backend/pkg/db"
	"github.com/angelmondragon/washline-backend/pkg/enums"
	"github.com/angelmondragon/washline-backend/pkg/logger"
	"github.com/angelmondragon/washline-backend/pkg/metrics"
	"github.com/angelmondragon/washline-backend/pkg/redis"
)

// NewRouter wires every HTTP route. redisClient may be nil, which disables
// idempotency replay and rate limiting. A nil registry disables /metrics.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	pricingService pricing.Service,
	quoteService quote.Service,
) http.Handler {
	var registerer prometheus.Registerer
	if registry != nil {
		registerer = registry
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Logging(logg, metrics.NewHTTPMetrics(registerer)),
		middleware.Recoverer(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	var (
		redisPinger    interface{ Ping(context.Context) error }
		idempotencyKV  redis.IdempotencyStore
		rateLimitStore middleware.RateLimitStore
	)
	if redisClient != nil {
		redisPinger = redisClient
		idempotencyKV = redisClient
		rateLimitStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	publicPolicy := middleware.NewRateLimitPolicy("public", cfg.RateLimit.Window, cfg.RateLimit.QuotePerIP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(publicPolicy, rateLimitStore, logg))
		r.Get("/prices/resolve", pricingcontrollers.PriceResolve(pricingService, logg))
		r.Post("/quotes", quotecontrollers.QuoteCreate(quoteService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))

		// Idempotency matches on the full route pattern, which is only known
		// once the endpoint is selected.
		idem := r.With(middleware.Idempotency(idempotencyKV, cfg.Redis.IdempotencyTTL, logg))

		r.Get("/price-records", pricingcontrollers.PriceRecordList(pricingService, logg))
		idem.Post("/price-records", pricingcontrollers.PriceRecordCreate(pricingService, logg))
		r.Get("/price-records/{id}", pricingcontrollers.PriceRecordFetch(pricingService, logg))
		idem.Put("/price-records/{id}", pricingcontrollers.PriceRecordUpdate(pricingService, logg))
		idem.Delete("/price-records/{id}", pricingcontrollers.PriceRecordDelete(pricingService, logg))
	})

	return r
}
