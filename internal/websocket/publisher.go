package websocket

// EventPublisher publishes events to the clients of one session
type EventPublisher interface {
	Publish(sessionKey string, event Event)
}

// SessionCloser ends every connection of a session after sending it a final event
type SessionCloser interface {
	CloseSession(sessionKey string, final Event) int
}

var (
	_ EventPublisher = (*Hub)(nil)
	_ SessionCloser  = (*Hub)(nil)
)

// Publish implements EventPublisher by broadcasting to the session
func (h *Hub) Publish(sessionKey string, event Event) {
	h.Broadcast(sessionKey, event)
}

// NoOpPublisher drops every event (tests, or websockets disabled)
type NoOpPublisher struct{}

func (n *NoOpPublisher) Publish(sessionKey string, event Event) {}
