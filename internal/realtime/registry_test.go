package realtime

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeConn struct {
	written  []Event
	writeErr error
	closed   bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.written = append(c.written, v.(Event))
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func TestPushDeliversToRegisteredConn(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	conn := &fakeConn{}
	registry.Register("user-1", conn)

	delivered := registry.Push("user-1", Event{Type: EventNewNotification, Data: "hello"})

	assert.True(t, delivered)
	assert.Len(t, conn.written, 1)
	assert.Equal(t, EventNewNotification, conn.written[0].Type)
}

func TestPushToOfflineUserReturnsFalse(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	delivered := registry.Push("nobody", Event{Type: EventNewNotification})

	assert.False(t, delivered)
}

func TestRegisterReplacesAndClosesPrevious(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	first := &fakeConn{}
	second := &fakeConn{}

	registry.Register("user-1", first)
	registry.Register("user-1", second)

	assert.True(t, first.closed, "replaced connection must be closed")
	assert.False(t, second.closed)
	assert.Equal(t, 1, registry.Len())

	registry.Push("user-1", Event{Type: EventNewNotification})
	assert.Empty(t, first.written)
	assert.Len(t, second.written, 1)
}

func TestUnregisterOnlyEvictsCurrentConn(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	first := &fakeConn{}
	second := &fakeConn{}

	registry.Register("user-1", first)
	registry.Register("user-1", second)

	// the replaced connection's teardown must not evict its successor
	registry.Unregister("user-1", first)
	assert.True(t, registry.Online("user-1"))

	registry.Unregister("user-1", second)
	assert.False(t, registry.Online("user-1"))
}

func TestPushEvictsConnOnWriteError(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	conn := &fakeConn{writeErr: errors.New("broken pipe")}
	registry.Register("user-1", conn)

	delivered := registry.Push("user-1", Event{Type: EventNewNotification})

	assert.False(t, delivered)
	assert.True(t, conn.closed)
	assert.False(t, registry.Online("user-1"))
}
