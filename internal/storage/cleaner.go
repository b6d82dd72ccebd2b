package storage

import (
	"context"
	"time"

	"github.com/gpslab/clientcore/internal/logging"
)

// Sweeper is the minimal contract the Cleaner needs, satisfied by Store.
type Sweeper interface {
	CleanupExpired() int
}

// Cleaner periodically sweeps expired entries. The store already sweeps
// lazily on read and at construction; the cleaner bounds how long a
// never-read expired entry can linger.
type Cleaner struct {
	store    Sweeper
	interval time.Duration
	logger   logging.Logger
}

// NewCleaner creates a cleaner. Interval of zero defaults to a minute.
func NewCleaner(store Sweeper, interval time.Duration, logger logging.Logger) *Cleaner {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Cleaner{
		store:    store,
		interval: interval,
		logger:   logger.WithComponent("cleaner"),
	}
}

// Start runs the sweep loop until the context is cancelled. It blocks
// and should typically run in its own goroutine.
func (c *Cleaner) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if swept := c.store.CleanupExpired(); swept > 0 {
				c.logger.Info(ctx, "swept expired entries", "count", swept)
			}
		case <-ctx.Done():
			c.logger.Debug(ctx, "cleaner stopped")
			return
		}
	}
}
