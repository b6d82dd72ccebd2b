// Package storage provides the GPS Lab client persistence layer: a
// namespaced, expiry-aware key/value store over pluggable backends, with
// a read-side cache helper and a change subscription hub. The public
// surface never panics and never returns errors for expected failure
// modes; unavailable backends degrade every operation to a safe default.
package storage

import (
	"sync"

	laberrors "github.com/gpslab/clientcore/internal/errors"
)

// Backend is the raw key/value surface the Store drives. Keys arriving
// here are already prefixed. Implementations must be safe for concurrent
// use.
type Backend interface {
	// Get returns the raw stored string, or ErrKeyNotFound.
	Get(key string) (string, error)

	// Set writes a raw string. Returns ErrQuotaExceeded when the write
	// would push the backend past its capacity.
	Set(key, value string) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(key string) error

	// Keys returns a snapshot of all stored keys.
	Keys() ([]string, error)
}

// Watchable is implemented by backends that can observe external
// modification (another process writing the same file). The store uses
// it to deliver cross-process change events, mirroring how browsers
// deliver storage events to other tabs.
type Watchable interface {
	OnExternalChange(handler func(key, oldValue, newValue string))
}

// MemoryBackend is a map-backed Backend with an optional byte quota.
// It backs the session store and all tests.
type MemoryBackend struct {
	mu       sync.RWMutex
	data     map[string]string
	maxBytes int64
	used     int64
}

// NewMemoryBackend creates an in-memory backend. maxBytes of zero means
// no quota.
func NewMemoryBackend(maxBytes int64) *MemoryBackend {
	return &MemoryBackend{
		data:     make(map[string]string),
		maxBytes: maxBytes,
	}
}

// Get implements Backend.
func (b *MemoryBackend) Get(key string) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.data[key]
	if !ok {
		return "", laberrors.ErrKeyNotFound
	}
	return value, nil
}

// Set implements Backend, enforcing the byte quota across keys plus
// values.
func (b *MemoryBackend) Set(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delta := int64(len(key) + len(value))
	if existing, ok := b.data[key]; ok {
		delta -= int64(len(key) + len(existing))
	}

	if b.maxBytes > 0 && b.used+delta > b.maxBytes {
		return laberrors.ErrQuotaExceeded
	}

	b.data[key] = value
	b.used += delta
	return nil
}

// Delete implements Backend.
func (b *MemoryBackend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if existing, ok := b.data[key]; ok {
		b.used -= int64(len(key) + len(existing))
		delete(b.data, key)
	}
	return nil
}

// Keys implements Backend.
func (b *MemoryBackend) Keys() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	return keys, nil
}

// UsedBytes reports current occupancy. Exposed for the quota tests and
// the healthz endpoint.
func (b *MemoryBackend) UsedBytes() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.used
}
