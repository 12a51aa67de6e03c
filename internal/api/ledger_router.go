package api

import (
	"context"

	"github.com/debanjo/microledger/internal/api/handler"
	"github.com/debanjo/microledger/internal/api/middleware"
	"github.com/debanjo/microledger/internal/api/spec"
	"github.com/debanjo/microledger/internal/config"
	"github.com/debanjo/microledger/internal/events"
	"github.com/debanjo/microledger/internal/repository"
	"github.com/debanjo/microledger/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// LedgerRouter assembles the account-store service: user registration and
// login plus the account balance endpoints the orchestrator calls.
type LedgerRouter struct {
	cfg    *config.Config
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redis.Client
	sink   events.Sink
}

func NewLedgerRouter(cfg *config.Config, logger *zap.Logger, pool *pgxpool.Pool, redisClient *redis.Client, sink events.Sink) *LedgerRouter {
	return &LedgerRouter{cfg: cfg, logger: logger, pool: pool, redis: redisClient, sink: sink}
}

func (api *LedgerRouter) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.RecoverMiddleware(api.logger))
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.PublicRateLimiter(api.cfg.PublicRateLimitRPS))

	accountRepo := repository.NewAccountRepository(api.pool)
	userRepo := repository.NewUserRepository(api.pool)

	ledgerSvc := service.NewLedgerService(accountRepo, api.sink, api.logger)
	userSvc := service.NewUserService(userRepo, api.logger)

	accountHandler := handler.NewAccountHandler(ledgerSvc)
	userHandler := handler.NewUserHandler(userSvc)
	healthHandler := handler.NewHealthHandler(api.healthChecks())

	r.Post("/v1/users", userHandler.Register)
	r.Post("/v1/auth/login", userHandler.Login)

	r.Post("/v1/accounts", accountHandler.CreateAccount)
	r.Get("/v1/accounts/{email}/balance", accountHandler.GetBalance)
	r.Post("/v1/accounts/credit", accountHandler.Deposit)
	r.Post("/v1/accounts/debit", accountHandler.Withdraw)

	r.Get("/healthz", healthHandler.Live)
	r.Get("/readyz", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", spec.OpenAPIHandler())
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))

	return r
}

func (api *LedgerRouter) healthChecks() map[string]handler.CheckFunc {
	checks := map[string]handler.CheckFunc{
		"database": func(ctx context.Context) error { return api.pool.Ping(ctx) },
	}
	if api.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return api.redis.Ping(ctx).Err() }
	}
	return checks
}
