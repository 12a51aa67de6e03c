package app

import (
	"context"
	"fmt"

	"github.com/debanjo/microledger/internal/api"
	"github.com/debanjo/microledger/internal/config"
	"github.com/debanjo/microledger/internal/db"
	"github.com/debanjo/microledger/internal/idempotency"
	"github.com/debanjo/microledger/internal/ledgerclient"
	"github.com/debanjo/microledger/internal/observability"
	"github.com/debanjo/microledger/internal/repository"
	"github.com/debanjo/microledger/internal/service"
	"go.uber.org/zap"
)

// RunTransfer bootstraps the orchestrator service.
func RunTransfer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	observability.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	redisClient, err := newRedisClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var idemStore *idempotency.Store
	if redisClient != nil {
		idemStore = idempotency.NewStore(redisClient, cfg.IdempotencyTTL)
	} else {
		logger.Warn("no redis configured, idempotency keys will not be honored")
	}

	sink, emitter := newSink(ctx, cfg, logger)

	ledger := ledgerclient.New(cfg.LedgerURL, nil, cfg.LedgerCallTimeout)
	records := repository.NewTransactionRepository(pool)
	transferSvc := service.NewTransferService(ledger, records, sink, logger).
		WithRecentLimit(cfg.RecentLimit)

	router := api.NewTransferRouter(cfg, logger, pool, redisClient, transferSvc, idemStore)
	if err := serve(logger, cfg.HTTPPort, router.Routes()); err != nil {
		return err
	}

	stopEmitter(cancel, emitter, logger)
	return nil
}
