// Package hub implements the broadcast hub: the session table that
// multiplexes market-data snapshots out to every connected client.
package hub

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/kestrelmarkets/matchengine/internal/wire"
)

// Sender is the subset of a session the hub needs: a non-blocking write
// and an identity for the session table.
type Sender interface {
	ID() string
	TrySend(frame []byte) bool
}

// Hub holds the session table under a single mutex, which also serializes
// session add/remove against broadcast iteration.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]Sender
}

// New constructs an empty hub.
func New() *Hub {
	return &Hub{sessions: make(map[string]Sender)}
}

// Add registers a session for future broadcasts.
func (h *Hub) Add(s Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s.ID()] = s
}

// Remove drops a session from the table (on disconnect).
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

// Broadcast serializes update once and writes it to every currently
// connected session. A slow or disconnected session's failed non-blocking
// write is logged and otherwise ignored — it must never stall the other
// sessions or the caller (the simulation driver).
func (h *Hub) Broadcast(update wire.MarketData) {
	frame, err := wire.Encode(update)
	if err != nil {
		log.Error().Err(err).Str("ticker", update.Ticker).Msg("failed to encode market data")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, s := range h.sessions {
		if !s.TrySend(frame) {
			log.Debug().Str("session", id).Msg("dropped market data frame: session busy")
		}
	}
}

// Len reports the number of connected sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}
