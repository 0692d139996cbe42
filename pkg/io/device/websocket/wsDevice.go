package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xpanvictor/voxqa/pkg/io/device"
	"github.com/xpanvictor/voxqa/pkg/io/events"
)

const writeWait = 10 * time.Second

type wsEndpoint struct {
	id     device.EndpointID
	client *websocket.Conn
	caps   device.Capabilities

	// gorilla allows one concurrent writer
	writeMu    sync.Mutex
	mu         sync.RWMutex
	lastActive time.Time
	closed     bool
}

// Caps implements device.Endpoint.
func (w *wsEndpoint) Caps() device.Capabilities {
	return w.caps
}

// Close implements device.Endpoint.
func (w *wsEndpoint) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()
	return w.client.Close()
}

// ID implements device.Endpoint.
func (w *wsEndpoint) ID() device.EndpointID {
	return w.id
}

func (w *wsEndpoint) Touch() {
	w.mu.Lock()
	w.lastActive = time.Now()
	w.mu.Unlock()
}

// IsAlive implements device.Endpoint.
func (w *wsEndpoint) IsAlive() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return !w.closed
}

// Ping sends a control ping; a failed ping marks the endpoint dead.
func (w *wsEndpoint) Ping() error {
	w.writeMu.Lock()
	err := w.client.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait))
	w.writeMu.Unlock()
	if err != nil {
		_ = w.Close()
	}
	return err
}

// LastActive implements device.Endpoint.
func (w *wsEndpoint) LastActive() time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastActive
}

// SendEvent implements device.Endpoint.
func (w *wsEndpoint) SendEvent(env events.Envelope) error {
	return w.WriteJSON(env)
}

// WriteJSON serializes writes for callers outside the event path.
func (w *wsEndpoint) WriteJSON(v any) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	_ = w.client.SetWriteDeadline(time.Now().Add(writeWait))
	return w.client.WriteJSON(v)
}

// Transport implements device.Endpoint.
func (w *wsEndpoint) Transport() device.Transport {
	return device.TransportWS
}

// Endpoint is a websocket device endpoint with direct write access.
type Endpoint interface {
	device.Endpoint
	WriteJSON(v any) error
	Ping() error
}

func New(client *websocket.Conn, caps device.Capabilities) Endpoint {
	return &wsEndpoint{
		id:         device.NewEndpointID(),
		client:     client,
		caps:       caps,
		lastActive: time.Now(),
	}
}
