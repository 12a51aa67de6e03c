package idempotency_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/debanjo/microledger/internal/idempotency"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *idempotency.Store {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set, skipping redis integration test")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	t.Cleanup(func() { client.Close() })
	return idempotency.NewStore(client, time.Minute)
}

func TestStoreRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	key := uuid.NewString()

	_, err := store.Lookup(ctx, key, "hash-1")
	assert.ErrorIs(t, err, idempotency.ErrNotFound)

	require.NoError(t, store.Save(ctx, idempotency.Record{
		Key:         key,
		RequestHash: "hash-1",
		Status:      201,
		Body:        []byte(`{"id":1}`),
		ContentType: "application/json",
	}))

	rec, err := store.Lookup(ctx, key, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, 201, rec.Status)
	assert.JSONEq(t, `{"id":1}`, string(rec.Body))
	assert.Equal(t, "application/json", rec.ContentType)
}

func TestStoreDetectsKeyReuse(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	key := uuid.NewString()

	require.NoError(t, store.Save(ctx, idempotency.Record{
		Key:         key,
		RequestHash: "hash-1",
		Status:      201,
		Body:        []byte(`{}`),
		ContentType: "application/json",
	}))

	_, err := store.Lookup(ctx, key, "different-hash")
	assert.ErrorIs(t, err, idempotency.ErrHashMismatch)
}
