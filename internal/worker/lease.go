package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrLeaseHeld is returned by Acquire when another holder owns the lease.
var ErrLeaseHeld = errors.New("lease held by another worker")

// Lease guarantees a single active runner per key.
type Lease interface {
	// Acquire returns a release func, or ErrLeaseHeld.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// RedisLease holds the lease in redis so only one instance across the fleet
// drains at a time.
type RedisLease struct {
	locker *redislock.Client
	ttl    time.Duration
}

func NewRedisLease(client redis.UniversalClient, ttl time.Duration) *RedisLease {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisLease{locker: redislock.New(client), ttl: ttl}
}

// Acquire obtains the lease and keeps refreshing it every third of the TTL
// until released, so a drain longer than the TTL keeps its lease.
func (l *RedisLease) Acquire(ctx context.Context, key string) (func(), error) {
	lock, err := l.locker.Obtain(ctx, key, l.ttl, nil)
	if err == redislock.ErrNotObtained {
		return nil, ErrLeaseHeld
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lease %s: %w", key, err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.keepAlive(lock, stop)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			// Release uses its own context: the job's ctx may already be cancelled.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = lock.Release(releaseCtx)
		})
	}, nil
}

func (l *RedisLease) keepAlive(lock *redislock.Lock, stop <-chan struct{}) {
	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := lock.Refresh(ctx, l.ttl, nil)
			cancel()
			if errors.Is(err, redislock.ErrNotObtained) {
				return
			}
		}
	}
}

// LocalLease is an in-process lease for single-instance deployments.
type LocalLease struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewLocalLease() *LocalLease {
	return &LocalLease{held: make(map[string]bool)}
}

func (l *LocalLease) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, ErrLeaseHeld
	}
	l.held[key] = true
	return func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}, nil
}

// NewRedisClient connects to addr and checks it with a ping.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis %s: %w", addr, err)
	}
	return client, nil
}
