package worker

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires a reachable redis, e.g. ENGAGE_REDIS_ADDR=localhost:6379.
func TestRedisLease_Exclusive(t *testing.T) {
	addr := os.Getenv("ENGAGE_REDIS_ADDR")
	if addr == "" {
		t.Skip("ENGAGE_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, addr)
	require.NoError(t, err)
	defer client.Close()

	first := NewRedisLease(client, time.Minute)
	second := NewRedisLease(client, time.Minute)
	key := "engage:test:" + uuid.NewString()

	release, err := first.Acquire(ctx, key)
	require.NoError(t, err)

	_, err = second.Acquire(ctx, key)
	assert.ErrorIs(t, err, ErrLeaseHeld)

	release()
	releaseAgain, err := second.Acquire(ctx, key)
	require.NoError(t, err)
	releaseAgain()
}

func TestRedisLease_RefreshedWhileHeld(t *testing.T) {
	addr := os.Getenv("ENGAGE_REDIS_ADDR")
	if addr == "" {
		t.Skip("ENGAGE_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, addr)
	require.NoError(t, err)
	defer client.Close()

	ttl := 300 * time.Millisecond
	first := NewRedisLease(client, ttl)
	second := NewRedisLease(client, ttl)
	key := "engage:test:" + uuid.NewString()

	release, err := first.Acquire(ctx, key)
	require.NoError(t, err)

	time.Sleep(3 * ttl)
	_, err = second.Acquire(ctx, key)
	assert.ErrorIs(t, err, ErrLeaseHeld)

	release()
	release()
	again, err := second.Acquire(ctx, key)
	require.NoError(t, err)
	again()
}
