package storage

import (
	"time"

	"github.com/gpslab/clientcore/internal/metrics"
)

// CacheEntry is the envelope stored under cache_-prefixed keys. Age is
// evaluated at read time against the caller's max age; nothing expires a
// cache entry at write time.
type CacheEntry struct {
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"` // unix millis
}

// GetCache returns the cached data for key, or nil once the entry is
// older than maxAge. A stale entry is removed as a side effect, so
// subsequent reads stay nil without re-deleting.
func (s *Store) GetCache(key string, maxAge time.Duration) interface{} {
	if !s.available {
		return nil
	}

	var entry CacheEntry
	if !s.GetJSON(CachePrefix+key, &entry) {
		s.metrics.Inc(metrics.CacheMissesTotal)
		return nil
	}

	age := time.Since(time.UnixMilli(entry.Timestamp))
	if age > maxAge {
		s.metrics.Inc(metrics.CacheStaleTotal)
		s.Remove(CachePrefix + key)
		return nil
	}

	s.metrics.Inc(metrics.CacheHitsTotal)
	return entry.Data
}

// SetCache stores data under the cache prefix stamped with the current
// time. No expiry option: staleness is the reader's decision.
func (s *Store) SetCache(key string, data interface{}) bool {
	return s.Set(CachePrefix+key, CacheEntry{
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}, SetOptions{})
}
