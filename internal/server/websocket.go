package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/gpslab/clientcore/internal/metrics"
	"github.com/gpslab/clientcore/internal/storage"
)

const (
	// Time allowed to write an event to the peer.
	writeWait = 10 * time.Second

	// Buffered events per connection. A peer that falls further behind
	// loses events rather than blocking the store's publish path.
	feedBuffer = 64
)

// handleChangeFeed streams store change events to the peer as JSON
// messages, one event per message, until the connection drops.
func (s *Server) handleChangeFeed(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(r) {
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), err, "websocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()
	events := make(chan storage.Event, feedBuffer)
	unsubscribe := s.store.Subscribe(func(event storage.Event) {
		select {
		case events <- event:
		default:
		}
	})
	defer unsubscribe()

	s.logger.Debug(ctx, "change feed connected", "remote", r.RemoteAddr)

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err = conn.Write(writeCtx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				return
			}
			s.registry.Inc(metrics.EventsPublishedTotal)
		}
	}
}
