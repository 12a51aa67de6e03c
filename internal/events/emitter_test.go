package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEmitter_DeliversEvents(t *testing.T) {
	var mu sync.Mutex
	var received []Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ev))
		mu.Lock()
		received = append(received, ev)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	emitter := NewEmitter(srv.URL, time.Second, 8, zap.NewNop())
	emitter.Start(ctx)

	emitter.Emit(Event{
		Service:   "account-service",
		EventType: "deposit",
		Metadata:  map[string]any{"email": "ayo@example.com", "amount": "40.00"},
	})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "deposit", received[0].EventType)
	assert.Equal(t, "account-service", received[0].Service)
	assert.Equal(t, "ayo@example.com", received[0].Metadata["email"])
}

func TestEmitter_EmitNeverBlocks(t *testing.T) {
	// No consumer running and a tiny queue: extra events must be dropped,
	// not block the producer.
	emitter := NewEmitter("http://127.0.0.1:1", time.Second, 1, zap.NewNop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			emitter.Emit(Event{Service: "account-service", EventType: "withdraw"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked with a full queue")
	}
}

func TestEmitter_SinkFailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	emitter := NewEmitter(srv.URL, time.Second, 8, zap.NewNop())
	emitter.Start(ctx)

	// Neither a rejecting endpoint nor shutdown may surface an error.
	emitter.Emit(Event{Service: "account-service", EventType: "account_created"})
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case <-emitter.Done():
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop on context cancellation")
	}
}
