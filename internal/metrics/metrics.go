// Package metrics provides a small typed-key counter registry for the
// storage and validation layers.
package metrics

import (
	"sync"
	"sync/atomic"
)

// Key is a strongly typed metric identifier.
type Key string

const (
	// Storage
	StorageGetsTotal    Key = "storage_gets_total"
	StorageSetsTotal    Key = "storage_sets_total"
	StorageMissesTotal  Key = "storage_misses_total"
	StorageExpiredTotal Key = "storage_expired_total"
	StorageRemovesTotal Key = "storage_removes_total"
	StorageQuotaTotal   Key = "storage_quota_events_total"

	// Cache helper
	CacheHitsTotal   Key = "cache_hits_total"
	CacheMissesTotal Key = "cache_misses_total"
	CacheStaleTotal  Key = "cache_stale_total"

	// Cleanup
	CleanupRunsTotal   Key = "cleanup_runs_total"
	CleanupSweptTotal  Key = "cleanup_swept_total"

	// Validation
	ValidationPassTotal Key = "validation_pass_total"
	ValidationFailTotal Key = "validation_fail_total"

	// Change feed
	EventsPublishedTotal Key = "events_published_total"
)

// Registry stores all counters. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	counters map[Key]*int64
}

// NewRegistry creates a metrics registry.
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[Key]*int64),
	}
}

// Inc increments a metric by 1.
func (r *Registry) Inc(key Key) {
	r.Add(key, 1)
}

// Add increments a metric by delta.
func (r *Registry) Add(key Key, delta int64) {
	r.mu.RLock()
	ptr, ok := r.counters[key]
	r.mu.RUnlock()

	if ok {
		atomic.AddInt64(ptr, delta)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring the write lock.
	if ptr, ok = r.counters[key]; ok {
		atomic.AddInt64(ptr, delta)
		return
	}

	var val int64
	r.counters[key] = &val
	atomic.AddInt64(&val, delta)
}

// Get returns the current value of a metric, zero if never touched.
func (r *Registry) Get(key Key) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ptr, ok := r.counters[key]; ok {
		return atomic.LoadInt64(ptr)
	}
	return 0
}

// Snapshot returns a copy of all counters, for the /healthz endpoint and
// the CLI's metrics output.
func (r *Registry) Snapshot() map[Key]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[Key]int64, len(r.counters))
	for k, ptr := range r.counters {
		out[k] = atomic.LoadInt64(ptr)
	}
	return out
}
