package app

import (
	"context"
	"fmt"
	"time"

	"github.com/debanjo/microledger/internal/api"
	"github.com/debanjo/microledger/internal/config"
	"github.com/debanjo/microledger/internal/db"
	"github.com/debanjo/microledger/internal/events"
	"github.com/debanjo/microledger/internal/observability"
	"go.uber.org/zap"
)

// RunLedger bootstraps the account-store service.
func RunLedger() error {
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

	sink, emitter := newSink(ctx, cfg, logger)

	router := api.NewLedgerRouter(cfg, logger, pool, redisClient, sink)
	if err := serve(logger, cfg.HTTPPort, router.Routes()); err != nil {
		return err
	}

	stopEmitter(cancel, emitter, logger)
	return nil
}

// newSink builds the analytics sink. Without an endpoint events are discarded.
func newSink(ctx context.Context, cfg *config.Config, logger *zap.Logger) (events.Sink, *events.Emitter) {
	if cfg.AnalyticsURL == "" {
		return events.Nop{}, nil
	}
	emitter := events.NewEmitter(cfg.AnalyticsURL, cfg.AnalyticsTimeout, cfg.EventQueueSize, logger)
	emitter.Start(ctx)
	return emitter, emitter
}

func stopEmitter(cancel context.CancelFunc, emitter *events.Emitter, logger *zap.Logger) {
	if emitter == nil {
		return
	}
	cancel()
	select {
	case <-emitter.Done():
	case <-time.After(5 * time.Second):
		logger.Warn("analytics emitter did not stop in time")
	}
}
