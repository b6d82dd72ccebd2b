package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	laberrors "github.com/gpslab/clientcore/internal/errors"
	"github.com/gpslab/clientcore/internal/logging"
	"github.com/gpslab/clientcore/internal/metrics"
)

// probeKey is written and deleted once at construction to detect an
// unusable backend.
const probeKey = "__storage_probe__"

// Options configures a Store. Zero-value fields get safe defaults; only
// Backend is mandatory.
type Options struct {
	// Prefix namespaces every key this store touches. Defaults to
	// LocalPrefix.
	Prefix string

	// Backend holds the raw records.
	Backend Backend

	// DisableExpiry turns off expiry companions, for the session store
	// whose contract has no TTL support.
	DisableExpiry bool

	Logger  logging.Logger
	Metrics *metrics.Registry
}

// SetOptions carries the optional expiry for Set. ExpiresAt wins when
// both are given.
type SetOptions struct {
	ExpiresIn time.Duration
	ExpiresAt time.Time
}

// Store is the namespaced, expiry-aware façade over a Backend. All
// methods are safe for concurrent use and none of them panic or return
// errors: expected failures degrade to the caller-supplied default.
type Store struct {
	prefix    string
	backend   Backend
	noExpiry  bool
	available bool
	logger    logging.Logger
	metrics   *metrics.Registry
	events    *hub
}

// New constructs a Store and probes the backend once. A failed probe
// leaves the store in degraded mode: every operation becomes a no-op
// returning its default.
func New(opts Options) *Store {
	if opts.Prefix == "" {
		opts.Prefix = LocalPrefix
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRegistry()
	}

	s := &Store{
		prefix:   opts.Prefix,
		backend:  opts.Backend,
		noExpiry: opts.DisableExpiry,
		logger:   opts.Logger.WithComponent("storage"),
		metrics:  opts.Metrics,
		events:   newHub(),
	}

	s.available = s.probe()
	if !s.available {
		s.logger.Warn(context.Background(), laberrors.ErrStorageUnavailable,
			"backend probe failed, storage degraded to no-op", "prefix", s.prefix)
		return s
	}

	if watchable, ok := opts.Backend.(Watchable); ok {
		watchable.OnExternalChange(s.handleExternalChange)
	}

	// Initialization sweep removes anything that expired while the
	// process was down.
	s.CleanupExpired()

	return s
}

// NewSession constructs the ephemeral session-namespace store: separate
// prefix, no expiry support, same serialize/deserialize contract.
func NewSession(backend Backend, logger logging.Logger, registry *metrics.Registry) *Store {
	return New(Options{
		Prefix:        SessionPrefix,
		Backend:       backend,
		DisableExpiry: true,
		Logger:        logger,
		Metrics:       registry,
	})
}

func (s *Store) probe() bool {
	if s.backend == nil {
		return false
	}
	key := s.prefix + probeKey
	if err := s.backend.Set(key, "1"); err != nil {
		return false
	}
	if err := s.backend.Delete(key); err != nil {
		return false
	}
	return true
}

// Available reports whether the backend probe succeeded.
func (s *Store) Available() bool {
	return s.available
}

// Get returns the decoded value for key, or def when the key is absent,
// expired, or the backend is unavailable. A value that is not valid JSON
// is returned as its raw string.
func (s *Store) Get(key string, def interface{}) interface{} {
	if !s.available {
		return def
	}
	s.metrics.Inc(metrics.StorageGetsTotal)

	if s.sweepIfExpired(key) {
		return def
	}

	raw, err := s.backend.Get(s.prefix + key)
	if err != nil {
		s.metrics.Inc(metrics.StorageMissesTotal)
		return def
	}

	return decode(raw)
}

// GetJSON decodes the stored value into dest, returning false on any
// miss or decode failure. Used by typed wrappers like the token vault.
func (s *Store) GetJSON(key string, dest interface{}) bool {
	if !s.available {
		return false
	}
	if s.sweepIfExpired(key) {
		return false
	}

	raw, err := s.backend.Get(s.prefix + key)
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

// Set serializes value to JSON and writes it, with an optional expiry
// companion record. Values that cannot be serialized are stored by their
// printed string form rather than dropped. It publishes a synthetic
// change event so same-process subscribers observe the write. Returns
// false on any write failure; quota failures additionally trigger the
// recovery routine.
func (s *Store) Set(key string, value interface{}, opts SetOptions) bool {
	if !s.available {
		return false
	}
	s.metrics.Inc(metrics.StorageSetsTotal)

	encoded, err := encode(value)
	if err != nil {
		s.logger.Warn(context.Background(), err, "value not serializable, storing printed form", "key", key)
		encoded = fmt.Sprint(value)
	}

	old := s.peek(key)

	if err := s.backend.Set(s.prefix+key, encoded); err != nil {
		if laberrors.IsQuotaError(err) {
			s.recoverQuota(key)
		} else {
			s.logger.Warn(context.Background(), err, "set failed", "key", key)
		}
		return false
	}

	if expiry, ok := expiryTime(opts); ok && !s.noExpiry {
		// Companion write is best-effort and non-atomic with the value
		// write; CleanupExpired heals a torn pair.
		if err := s.backend.Set(s.prefix+key+ExpirySuffix, expiry.Format(time.RFC3339Nano)); err != nil {
			s.logger.Warn(context.Background(), err, "expiry companion write failed", "key", key)
		}
	}

	s.events.publish(Event{
		Type:     EventSet,
		Key:      key,
		OldValue: old,
		NewValue: decode(encoded),
	})
	return true
}

// Remove deletes the value and its expiry companion, publishing a
// removal event. Returns false only when the backend is unavailable.
func (s *Store) Remove(key string) bool {
	if !s.available {
		return false
	}
	s.metrics.Inc(metrics.StorageRemovesTotal)

	old := s.peek(key)

	if err := s.backend.Delete(s.prefix + key); err != nil {
		s.logger.Warn(context.Background(), err, "remove failed", "key", key)
		return false
	}
	_ = s.backend.Delete(s.prefix + key + ExpirySuffix)

	s.events.publish(Event{
		Type:     EventRemove,
		Key:      key,
		OldValue: old,
		NewValue: nil,
	})
	return true
}

// Has reports whether key exists and is not expired, without decoding.
func (s *Store) Has(key string) bool {
	if !s.available {
		return false
	}
	if s.sweepIfExpired(key) {
		return false
	}
	_, err := s.backend.Get(s.prefix + key)
	return err == nil
}

// Clear deletes every record under this store's prefix, values and
// expiry companions both.
func (s *Store) Clear() {
	if !s.available {
		return
	}
	keys, err := s.backend.Keys()
	if err != nil {
		return
	}
	for _, k := range keys {
		if strings.HasPrefix(k, s.prefix) {
			_ = s.backend.Delete(k)
		}
	}
}

// GetAll returns a map of every live, non-expiry-companion key under the
// prefix, with Get semantics: expired entries are swept and excluded.
func (s *Store) GetAll() map[string]interface{} {
	result := make(map[string]interface{})
	if !s.available {
		return result
	}

	keys, err := s.backend.Keys()
	if err != nil {
		return result
	}

	sentinel := &struct{}{}
	for _, k := range keys {
		if !strings.HasPrefix(k, s.prefix) || strings.HasSuffix(k, ExpirySuffix) {
			continue
		}
		key := strings.TrimPrefix(k, s.prefix)
		if value := s.Get(key, interface{}(sentinel)); value != interface{}(sentinel) {
			result[key] = value
		}
	}
	return result
}

// Subscribe registers a change listener and returns its unsubscribe
// func. Listeners see this process's writes (synthetic events), external
// file modifications, and quota broadcasts.
func (s *Store) Subscribe(fn func(Event)) func() {
	return s.events.subscribe(fn)
}

// CleanupExpired scans every expiry companion under the prefix and
// removes expired pairs, including companions whose value is already
// gone. Returns the number of entries swept.
func (s *Store) CleanupExpired() int {
	if !s.available || s.noExpiry {
		return 0
	}
	s.metrics.Inc(metrics.CleanupRunsTotal)

	keys, err := s.backend.Keys()
	if err != nil {
		return 0
	}

	now := time.Now()
	swept := 0
	for _, k := range keys {
		if !strings.HasPrefix(k, s.prefix) || !strings.HasSuffix(k, ExpirySuffix) {
			continue
		}

		raw, err := s.backend.Get(k)
		if err != nil {
			continue
		}

		expiry, parseErr := time.Parse(time.RFC3339Nano, raw)
		valueKey := strings.TrimSuffix(k, ExpirySuffix)

		_, valueErr := s.backend.Get(valueKey)
		orphaned := valueErr != nil

		if parseErr != nil || orphaned || now.After(expiry) {
			_ = s.backend.Delete(valueKey)
			_ = s.backend.Delete(k)
			swept++
		}
	}

	if swept > 0 {
		s.metrics.Add(metrics.CleanupSweptTotal, int64(swept))
		s.logger.Debug(context.Background(), "cleanup removed expired entries", "count", swept)
	}
	return swept
}

// peek reads and decodes without expiry handling or metrics, for event
// old-value capture.
func (s *Store) peek(key string) interface{} {
	raw, err := s.backend.Get(s.prefix + key)
	if err != nil {
		return nil
	}
	return decode(raw)
}

// sweepIfExpired deletes the pair when key has a past-due expiry
// companion, reporting whether the key should be treated as absent.
func (s *Store) sweepIfExpired(key string) bool {
	if s.noExpiry {
		return false
	}

	raw, err := s.backend.Get(s.prefix + key + ExpirySuffix)
	if err != nil {
		return false
	}

	expiry, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil || time.Now().After(expiry) {
		_ = s.backend.Delete(s.prefix + key)
		_ = s.backend.Delete(s.prefix + key + ExpirySuffix)
		s.metrics.Inc(metrics.StorageExpiredTotal)
		return true
	}
	return false
}

// recoverQuota is the §quota routine: purge cache entries, sweep expired
// records, broadcast the signal. The original write is not retried.
func (s *Store) recoverQuota(key string) {
	s.metrics.Inc(metrics.StorageQuotaTotal)
	s.logger.Warn(context.Background(), laberrors.ErrQuotaExceeded,
		"quota exceeded, purging caches and expired entries", "key", key)

	s.purgeCaches()
	s.CleanupExpired()

	s.events.publish(Event{Type: EventQuotaExceeded, Key: key})
}

// purgeCaches deletes every cache_-prefixed entry under the namespace.
func (s *Store) purgeCaches() {
	keys, err := s.backend.Keys()
	if err != nil {
		return
	}
	for _, k := range keys {
		if strings.HasPrefix(k, s.prefix+CachePrefix) {
			_ = s.backend.Delete(k)
		}
	}
}

// handleExternalChange converts a backend-level external modification
// into a subscriber event. Expiry companions and foreign prefixes are
// filtered out; nothing observes expiry records as data.
func (s *Store) handleExternalChange(key, oldValue, newValue string) {
	if !strings.HasPrefix(key, s.prefix) || strings.HasSuffix(key, ExpirySuffix) {
		return
	}

	event := Event{
		Type: EventExternal,
		Key:  strings.TrimPrefix(key, s.prefix),
	}
	if oldValue != "" {
		event.OldValue = decode(oldValue)
	}
	if newValue != "" {
		event.NewValue = decode(newValue)
	}
	s.events.publish(event)
}

func expiryTime(opts SetOptions) (time.Time, bool) {
	if !opts.ExpiresAt.IsZero() {
		return opts.ExpiresAt, true
	}
	if opts.ExpiresIn > 0 {
		return time.Now().Add(opts.ExpiresIn), true
	}
	return time.Time{}, false
}

// encode serializes any JSON-marshalable value; a plain string that is
// not itself JSON round-trips through Marshal just fine.
func encode(value interface{}) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", laberrors.NewSerializationError("value not JSON-serializable", err)
	}
	return string(data), nil
}

// decode parses stored JSON, falling back to the raw string for records
// written by older clients that stored bare strings.
func decode(raw string) interface{} {
	var value interface{}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return raw
	}
	return value
}
