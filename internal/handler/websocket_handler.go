package handler

import (
	"net/http"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// SessionResolver turns a bearer token into the session key events are published under
type SessionResolver interface {
	ResolveSession(token string) (sessionKey string, err error)
}

// SnapshotSource reports the snapshot a session currently holds, without fetching
type SnapshotSource interface {
	Peek(sessionKey string) (*domain.Snapshot, bool)
}

// WebSocketHandler upgrades /ws connections into listeners of one session's
// snapshot and transaction events
type WebSocketHandler struct {
	hub            *websocket.Hub
	resolver       SessionResolver
	snapshots      SnapshotSource
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler. snapshots may be nil.
func NewWebSocketHandler(hub *websocket.Hub, resolver SessionResolver, snapshots SnapshotSource, allowedOrigins []string) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:            hub,
		resolver:       resolver,
		snapshots:      snapshots,
		allowedOrigins: make(map[string]bool, len(allowedOrigins)),
	}
	for _, origin := range allowedOrigins {
		h.allowedOrigins[origin] = true
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin accepts non-browser clients (no Origin) and the configured CORS origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigins[origin] {
		return true
	}

	log.Warn().Str("origin", origin).Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS upgrades GET /ws?token= (browsers cannot set headers on the upgrade).
// The stream carries snapshot.replaced, snapshot.evicted, transaction.created
// and transaction.deleted events. When the session already holds a snapshot,
// the first message is a snapshot.replaced describing it.
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return NewUnauthorizedError(c, "Missing token query parameter")
	}

	sessionKey, err := h.resolver.ResolveSession(token)
	if err != nil {
		log.Debug().Err(err).Msg("WebSocket connection rejected")
		return NewUnauthorizedError(c, "Invalid or expired token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader already wrote the error response
		log.Debug().Err(err).Str("session", sessionKey).Msg("WebSocket upgrade failed")
		return nil
	}

	client := websocket.NewClient(conn, sessionKey, h.hub)
	h.hub.Register(client)
	h.greet(client)

	log.Info().
		Str("session", sessionKey).
		Str("client_id", client.ID()).
		Int("session_clients", h.hub.ClientCount(sessionKey)).
		Msg("WebSocket client connected")

	go client.WritePump()
	go client.ReadPump()

	return nil
}

// greet tells a new listener which snapshot the server holds for its session,
// so it can tell whether figures it rendered earlier are still current
func (h *WebSocketHandler) greet(client *websocket.Client) {
	if h.snapshots == nil {
		return
	}
	snap, ok := h.snapshots.Peek(client.SessionKey())
	if !ok {
		return
	}

	data, err := websocket.SnapshotReplaced(websocket.SnapshotReplacedPayload{
		Transactions: len(snap.Transactions),
		Investments:  len(snap.Investments),
		FetchedAt:    snap.FetchedAt,
	}).ToJSON()
	if err != nil {
		return
	}
	if err := client.Send(data); err != nil {
		log.Debug().Err(err).Str("client_id", client.ID()).Msg("Failed to greet WebSocket client")
	}
}
