package websocket

import (
	"sync"
	"time"

	"github.com/xpanvictor/voxqa/pkg/Logger"
	"github.com/xpanvictor/voxqa/pkg/io/device"
	wsdevice "github.com/xpanvictor/voxqa/pkg/io/device/websocket"
	"github.com/xpanvictor/voxqa/pkg/io/registry"
)

const defaultCleanupInterval = 5 * time.Minute

// ConnectionManager owns websocket endpoints in the shared registry and
// expires the idle ones.
type ConnectionManager struct {
	logger          *Logger.Logger
	registry        registry.Registry
	sessionTimeout  time.Duration
	cleanupInterval time.Duration

	stopOnce    sync.Once
	stopCleanup chan struct{}
}

// NewConnectionManager creates a connection manager and starts its cleanup loop
func NewConnectionManager(reg registry.Registry, sessionTimeout time.Duration, logger *Logger.Logger) *ConnectionManager {
	if sessionTimeout <= 0 {
		sessionTimeout = 30 * time.Minute
	}
	cm := &ConnectionManager{
		logger:          logger,
		registry:        reg,
		sessionTimeout:  sessionTimeout,
		cleanupInterval: defaultCleanupInterval,
		stopCleanup:     make(chan struct{}),
	}
	if sessionTimeout < cm.cleanupInterval {
		cm.cleanupInterval = sessionTimeout
	}

	cm.startCleanupRoutine()
	return cm
}

// RegisterConnection attaches the endpoint so it receives task events
func (cm *ConnectionManager) RegisterConnection(ep wsdevice.Endpoint) error {
	if err := cm.registry.Attach(ep); err != nil {
		return err
	}
	cm.logger.Infof("Registered websocket endpoint %s", ep.ID())
	return nil
}

// UnregisterConnection detaches and closes the endpoint
func (cm *ConnectionManager) UnregisterConnection(ep wsdevice.Endpoint) {
	if cm.registry.Detach(ep.ID()) {
		cm.logger.Infof("Unregistered websocket endpoint %s", ep.ID())
	}
	if err := ep.Close(); err != nil {
		cm.logger.Debugf("close endpoint %s: %v", ep.ID(), err)
	}
}

// GetConnectionCount returns the number of websocket endpoints
func (cm *ConnectionManager) GetConnectionCount() int {
	n := 0
	for _, ep := range cm.registry.List() {
		if ep.Transport() == device.TransportWS {
			n++
		}
	}
	return n
}

func (cm *ConnectionManager) startCleanupRoutine() {
	ticker := time.NewTicker(cm.cleanupInterval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cm.cleanupExpiredSessions()
			case <-cm.stopCleanup:
				return
			}
		}
	}()
}

type pinger interface {
	Ping() error
}

// cleanupExpiredSessions closes websocket endpoints idle past the timeout
// and pings the rest so half-open sockets are dropped. Closing the socket
// also ends the endpoint's read loop.
func (cm *ConnectionManager) cleanupExpiredSessions() {
	expired := cm.registry.Prune(device.TransportWS, cm.sessionTimeout)
	if len(expired) > 0 {
		cm.logger.Infof("Cleaned up %d expired websocket sessions", len(expired))
	}

	for _, ep := range cm.registry.List() {
		p, ok := ep.(pinger)
		if !ok || ep.Transport() != device.TransportWS {
			continue
		}
		if err := p.Ping(); err != nil {
			cm.logger.Infof("Dropping unresponsive endpoint %s: %v", ep.ID(), err)
			cm.registry.Detach(ep.ID())
		}
	}
}

// Close stops the cleanup loop and closes every websocket endpoint
func (cm *ConnectionManager) Close() error {
	cm.stopOnce.Do(func() { close(cm.stopCleanup) })

	for _, ep := range cm.registry.List() {
		if ep.Transport() != device.TransportWS {
			continue
		}
		cm.registry.Detach(ep.ID())
		if err := ep.Close(); err != nil {
			cm.logger.Errorf("Error closing endpoint %s: %v", ep.ID(), err)
		}
	}
	cm.logger.Infof("Connection manager closed")
	return nil
}

// GetStats returns connection manager statistics
func (cm *ConnectionManager) GetStats() map[string]interface{} {
	eps := make([]map[string]interface{}, 0)
	for _, ep := range cm.registry.List() {
		eps = append(eps, map[string]interface{}{
			"endpoint_id": ep.ID().String(),
			"transport":   ep.Transport(),
			"last_active": ep.LastActive(),
			"is_alive":    ep.IsAlive(),
		})
	}
	return map[string]interface{}{
		"active_connections": cm.GetConnectionCount(),
		"session_timeout":    cm.sessionTimeout.String(),
		"endpoints":          eps,
	}
}
