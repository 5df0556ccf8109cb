package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Conn is the minimal surface the registry needs from a live connection.
// *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Event is the JSON payload pushed over a live connection.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// EventNewNotification is pushed when a notification is created for an
// online recipient.
const EventNewNotification = "NEW_NOTIFICATION"

// Registry maps an online user's identity to its single active connection.
// It is process-scoped, rebuilt empty on restart, and injected into both
// the websocket handler and the notification service. At most one
// connection per identity is tracked; a newer connection replaces the
// previous one.
type Registry struct {
	mu     sync.Mutex
	conns  map[string]Conn
	logger *zap.Logger
}

// NewRegistry builds an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		conns:  make(map[string]Conn),
		logger: logger,
	}
}

// Register tracks the connection for the identity, closing any previous one.
func (r *Registry) Register(userID string, conn Conn) {
	r.mu.Lock()
	prev := r.conns[userID]
	r.conns[userID] = conn
	r.mu.Unlock()

	if prev != nil && prev != conn {
		_ = prev.Close()
	}
}

// Unregister removes the connection only if it is still the current one
// for the identity, so a replaced connection's teardown cannot evict its
// successor.
func (r *Registry) Unregister(userID string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.conns[userID]; ok && current == conn {
		delete(r.conns, userID)
	}
}

// Push delivers the event to the identity's connection if one is live.
// Returns false when the identity is offline; this is never an error.
func (r *Registry) Push(userID string, event Event) bool {
	r.mu.Lock()
	conn, ok := r.conns[userID]
	r.mu.Unlock()
	if !ok {
		return false
	}

	if err := conn.WriteJSON(event); err != nil {
		r.logger.Debug("live push failed", zap.String("user_id", userID), zap.Error(err))
		r.Unregister(userID, conn)
		_ = conn.Close()
		return false
	}
	return true
}

// Online reports whether the identity currently has a live connection.
func (r *Registry) Online(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.conns[userID]
	return ok
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}
