package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	SessionKey() string
	Send(data []byte) error
	Close() error
}

// Hub tracks WebSocket connections per session. Safe for concurrent use.
type Hub struct {
	// sessions maps session key to client ID to client
	sessions map[string]map[string]ClientInterface
	mu       sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]map[string]ClientInterface),
	}
}

// Register adds a client under its session
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessionKey := client.SessionKey()
	clientID := client.ID()

	if h.sessions[sessionKey] == nil {
		h.sessions[sessionKey] = make(map[string]ClientInterface)
	}

	h.sessions[sessionKey][clientID] = client

	log.Debug().
		Str("session", sessionKey).
		Str("client_id", clientID).
		Msg("WebSocket client registered")
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessionKey := client.SessionKey()
	clientID := client.ID()

	if clients, ok := h.sessions[sessionKey]; ok {
		if _, exists := clients[clientID]; exists {
			delete(clients, clientID)

			if len(clients) == 0 {
				delete(h.sessions, sessionKey)
			}

			log.Debug().
				Str("session", sessionKey).
				Str("client_id", clientID).
				Msg("WebSocket client unregistered")
		}
	}
}

// Broadcast sends an event to every client of a session
func (h *Hub) Broadcast(sessionKey string, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Str("session", sessionKey).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	clients, ok := h.sessions[sessionKey]
	if !ok || len(clients) == 0 {
		h.mu.RUnlock()
		return
	}

	clientsCopy := make([]ClientInterface, 0, len(clients))
	for _, client := range clients {
		clientsCopy = append(clientsCopy, client)
	}
	h.mu.RUnlock()

	for _, client := range clientsCopy {
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				log.Warn().
					Err(err).
					Str("session", sessionKey).
					Str("client_id", c.ID()).
					Msg("Failed to send to client")
			}
		}(client)
	}

	log.Debug().
		Str("session", sessionKey).
		Str("event_type", event.Type).
		Int("client_count", len(clientsCopy)).
		Msg("Broadcast event")
}

// CloseSession sends final to every client of a session, closes them and
// forgets the session. Each client's queue is flushed before its close frame.
// Returns how many clients were closed.
func (h *Hub) CloseSession(sessionKey string, final Event) int {
	data, err := final.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("session", sessionKey).Msg("Failed to serialize final event")
	}

	h.mu.Lock()
	clients := h.sessions[sessionKey]
	delete(h.sessions, sessionKey)
	h.mu.Unlock()

	for _, client := range clients {
		if err == nil {
			// best effort; a full queue just closes without the notice
			_ = client.Send(data)
		}
		client.Close()
	}

	if len(clients) > 0 {
		log.Debug().
			Str("session", sessionKey).
			Str("event_type", final.Type).
			Int("client_count", len(clients)).
			Msg("Closed session listeners")
	}
	return len(clients)
}

// ClientCount returns the number of clients of a session
func (h *Hub) ClientCount(sessionKey string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.sessions[sessionKey]; ok {
		return len(clients)
	}
	return 0
}

// TotalClientCount returns the number of clients across all sessions
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.sessions {
		total += len(clients)
	}
	return total
}
