package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_RunsImmediatelyAndOnInterval(t *testing.T) {
	var runs atomic.Int32
	r := NewRunner("test", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, nil, nil)

	r.Start(context.Background())
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	r.Stop()

	stopped := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestRunner_ErrorsDoNotStopLoop(t *testing.T) {
	var runs atomic.Int32
	r := NewRunner("failing", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	}, nil, nil)

	r.Start(context.Background())
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	r.Stop()
}

func TestRunner_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunner("ctx", time.Hour, func(ctx context.Context) error { return nil }, nil, nil)
	r.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after context cancel")
	}
}

func TestRunner_SkipsWhenLeaseHeld(t *testing.T) {
	lease := NewLocalLease()
	release, err := lease.Acquire(context.Background(), "engage:runner:drain")
	require.NoError(t, err)

	var runs atomic.Int32
	r := NewRunner("drain", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, lease, nil)

	assert.ErrorIs(t, r.RunOnce(context.Background()), ErrLeaseHeld)
	assert.Zero(t, runs.Load())

	release()
	require.NoError(t, r.RunOnce(context.Background()))
	assert.Equal(t, int32(1), runs.Load())

	// The runner released its lease after the run.
	again, err := lease.Acquire(context.Background(), "engage:runner:drain")
	require.NoError(t, err)
	again()
}

func TestLocalLease_Exclusive(t *testing.T) {
	lease := NewLocalLease()
	ctx := context.Background()

	release, err := lease.Acquire(ctx, "k")
	require.NoError(t, err)
	_, err = lease.Acquire(ctx, "k")
	assert.ErrorIs(t, err, ErrLeaseHeld)

	other, err := lease.Acquire(ctx, "other")
	require.NoError(t, err)
	other()
	release()

	release, err = lease.Acquire(ctx, "k")
	require.NoError(t, err)
	release()
}

func TestRunner_StopWithoutStart(t *testing.T) {
	var runs atomic.Int32
	r := NewRunner("idle", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, nil, nil)

	done := make(chan struct{})
	go func() {
		r.Stop()
		r.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on a runner that never started")
	}

	r.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, runs.Load())
}
