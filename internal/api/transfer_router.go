package api

import (
	"context"

	"github.com/debanjo/microledger/internal/api/handler"
	"github.com/debanjo/microledger/internal/api/middleware"
	"github.com/debanjo/microledger/internal/api/spec"
	"github.com/debanjo/microledger/internal/config"
	"github.com/debanjo/microledger/internal/idempotency"
	"github.com/debanjo/microledger/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// TransferRouter assembles the orchestrator service: transfers executed
// against the remote account store plus the recent-transfer feed.
type TransferRouter struct {
	cfg       *config.Config
	logger    *zap.Logger
	pool      *pgxpool.Pool
	redis     *redis.Client
	svc       *service.TransferService
	idemStore *idempotency.Store
}

func NewTransferRouter(cfg *config.Config, logger *zap.Logger, pool *pgxpool.Pool, redisClient *redis.Client, svc *service.TransferService, idemStore *idempotency.Store) *TransferRouter {
	return &TransferRouter{cfg: cfg, logger: logger, pool: pool, redis: redisClient, svc: svc, idemStore: idemStore}
}

func (api *TransferRouter) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.RecoverMiddleware(api.logger))
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.PublicRateLimiter(api.cfg.PublicRateLimitRPS))

	transferHandler := handler.NewTransferHandler(api.svc)
	healthHandler := handler.NewHealthHandler(api.healthChecks())

	r.With(middleware.IdempotencyMiddleware(api.idemStore, api.logger)).
		Post("/v1/transfers", transferHandler.CreateTransfer)
	r.Get("/v1/transfers/recent/{email}", transferHandler.RecentTransfers)

	r.Get("/healthz", healthHandler.Live)
	r.Get("/readyz", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", spec.OpenAPIHandler())
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))

	return r
}

func (api *TransferRouter) healthChecks() map[string]handler.CheckFunc {
	checks := map[string]handler.CheckFunc{
		"database": func(ctx context.Context) error { return api.pool.Ping(ctx) },
	}
	if api.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return api.redis.Ping(ctx).Err() }
	}
	return checks
}
