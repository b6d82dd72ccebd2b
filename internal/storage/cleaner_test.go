package storage

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingSweeper struct {
	calls atomic.Int64
}

func (c *countingSweeper) CleanupExpired() int {
	c.calls.Add(1)
	return 1
}

func TestCleanerSweepsOnInterval(t *testing.T) {
	sweeper := &countingSweeper{}
	cleaner := NewCleaner(sweeper, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cleaner.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return sweeper.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleaner did not stop on context cancellation")
	}
}

func TestCleanerRemovesExpiredEntries(t *testing.T) {
	backend := NewMemoryBackend(0)
	s := New(Options{Backend: backend})
	s.Set("short", "v", SetOptions{ExpiresIn: time.Millisecond})

	cleaner := NewCleaner(s, 10*time.Millisecond, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	go cleaner.Start(ctx)

	assert.Eventually(t, func() bool {
		keys, _ := backend.Keys()
		return len(keys) == 0
	}, time.Second, 5*time.Millisecond)
}
