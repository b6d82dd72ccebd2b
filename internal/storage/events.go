package storage

import (
	"sort"
	"sync"
)

// EventType distinguishes how a change was observed.
type EventType string

const (
	// EventSet and EventRemove are synthetic events published by this
	// process's own writes, so same-process subscribers observe them.
	// Browsers only deliver storage events to other tabs; the store
	// fills that gap itself.
	EventSet    EventType = "set"
	EventRemove EventType = "remove"

	// EventExternal marks a change detected in the backing file made by
	// another process.
	EventExternal EventType = "external"

	// EventQuotaExceeded is broadcast when a write failed for capacity
	// so callers can surface a warning.
	EventQuotaExceeded EventType = "quota_exceeded"
)

// Event describes one observed change. Key is namespace-stripped and
// values are JSON-decoded (raw string fallback); absent values are nil.
type Event struct {
	Type     EventType   `json:"type"`
	Key      string      `json:"key"`
	OldValue interface{} `json:"oldValue"`
	NewValue interface{} `json:"newValue"`
}

// hub fans events out to subscribers. Delivery is synchronous and in
// registration order; only listeners registered before a publish see it.
type hub struct {
	mu   sync.Mutex
	subs map[int]func(Event)
	next int
}

func newHub() *hub {
	return &hub{subs: make(map[int]func(Event))}
}

// subscribe registers a listener and returns its deregistration func.
// The returned func is idempotent.
func (h *hub) subscribe(fn func(Event)) func() {
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

func (h *hub) publish(event Event) {
	h.mu.Lock()
	listeners := make([]func(Event), 0, len(h.subs))
	ids := make([]int, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	// Registration order keeps delivery deterministic.
	sort.Ints(ids)
	for _, id := range ids {
		listeners = append(listeners, h.subs[id])
	}
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(event)
	}
}
