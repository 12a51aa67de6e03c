package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpDurationHistogram *prometheus.HistogramVec
	transferCounter       *prometheus.CounterVec
	compensationCounter   *prometheus.CounterVec
	ledgerOpCounter       *prometheus.CounterVec
	eventCounter          *prometheus.CounterVec
	idempotencyCounter    *prometheus.CounterVec
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		transferCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transfers_total",
			Help: "Transfer saga outcomes",
		}, []string{"outcome"})

		compensationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transfer_compensations_total",
			Help: "Compensating credits issued after a failed credit leg",
		}, []string{"result"})

		ledgerOpCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Ledger store mutation outcomes",
		}, []string{"op", "outcome"})

		eventCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analytics_events_total",
			Help: "Analytics event sink outcomes",
		}, []string{"outcome"})

		idempotencyCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "idempotency_events_total",
			Help: "Idempotency middleware outcomes",
		}, []string{"outcome"})

		prometheus.MustRegister(
			httpDurationHistogram,
			transferCounter,
			compensationCounter,
			ledgerOpCounter,
			eventCounter,
			idempotencyCounter,
		)
	})
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func IncrementTransfer(outcome string) {
	if transferCounter == nil {
		return
	}
	transferCounter.WithLabelValues(outcome).Inc()
}

func IncrementCompensation(result string) {
	if compensationCounter == nil {
		return
	}
	compensationCounter.WithLabelValues(result).Inc()
}

func IncrementLedgerOp(op, outcome string) {
	if ledgerOpCounter == nil {
		return
	}
	ledgerOpCounter.WithLabelValues(op, outcome).Inc()
}

func IncrementEvent(outcome string) {
	if eventCounter == nil {
		return
	}
	eventCounter.WithLabelValues(outcome).Inc()
}

func IncrementIdempotencyEvent(outcome string) {
	if idempotencyCounter == nil {
		return
	}
	idempotencyCounter.WithLabelValues(outcome).Inc()
}
