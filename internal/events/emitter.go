// Package events delivers best-effort analytics notifications. Producers
// enqueue and move on; a single consumer goroutine posts to the analytics
// endpoint. Failures here are logged and counted but
// otherwise swallowed; analytics must never break production.
package events

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/debanjo/microledger/internal/observability"
	"go.uber.org/zap"
)

// Event is the schema-light payload the analytics sink accepts. Metadata is
// deliberately an open map; the sink does not type individual event shapes.
type Event struct {
	Service   string         `json:"service"`
	EventType string         `json:"event_type"`
	Metadata  map[string]any `json:"metadata"`
}

// Sink is what mutating services see: a non-blocking notification channel.
type Sink interface {
	Emit(event Event)
}

// Emitter is the HTTP-backed Sink. Emit never blocks: a full queue drops the
// event rather than slowing down the mutation that produced it.
type Emitter struct {
	endpoint string
	client   *http.Client
	queue    chan Event
	logger   *zap.Logger
	done     chan struct{}
}

func NewEmitter(endpoint string, timeout time.Duration, queueSize int, logger *zap.Logger) *Emitter {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Emitter{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		queue:    make(chan Event, queueSize),
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start launches the consumer goroutine. It drains until ctx is canceled.
func (e *Emitter) Start(ctx context.Context) {
	go func() {
		defer close(e.done)
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-e.queue:
				e.deliver(ctx, event)
			}
		}
	}()
}

// Done is closed once the consumer goroutine has exited.
func (e *Emitter) Done() <-chan struct{} {
	return e.done
}

// Emit enqueues an event without blocking the caller.
func (e *Emitter) Emit(event Event) {
	select {
	case e.queue <- event:
		observability.IncrementEvent("enqueued")
	default:
		observability.IncrementEvent("dropped")
		e.logger.Warn("analytics queue full, dropping event",
			zap.String("event_type", event.EventType),
			zap.String("service", event.Service),
		)
	}
}

func (e *Emitter) deliver(ctx context.Context, event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		observability.IncrementEvent("failed")
		e.logger.Warn("analytics event marshal failed", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		observability.IncrementEvent("failed")
		e.logger.Warn("analytics request build failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		observability.IncrementEvent("failed")
		e.logger.Warn("analytics delivery failed",
			zap.Error(err),
			zap.String("event_type", event.EventType),
		)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		observability.IncrementEvent("rejected")
		e.logger.Warn("analytics endpoint rejected event",
			zap.Int("status", resp.StatusCode),
			zap.String("event_type", event.EventType),
		)
		return
	}
	observability.IncrementEvent("delivered")
}

// Nop is a Sink that discards everything. Used when no analytics endpoint is
// configured, and in tests.
type Nop struct{}

func (Nop) Emit(Event) {}
