package memoryregistry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/xpanvictor/voxqa/pkg/io/device"
	"github.com/xpanvictor/voxqa/pkg/io/registry"
)

type mmrRegistry struct {
	mu  sync.RWMutex
	eps map[device.EndpointID]device.Endpoint
	now func() time.Time
}

// Attach implements registry.Registry.
func (m *mmrRegistry) Attach(ep device.Endpoint) error {
	if ep == nil {
		return fmt.Errorf("couldn't attach nil endpoint")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// can reinstantiate anyways
	m.eps[ep.ID()] = ep
	return nil
}

// Detach implements registry.Registry.
func (m *mmrRegistry) Detach(id device.EndpointID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.eps[id]; !ok {
		return false
	}
	delete(m.eps, id)
	return true
}

// Get implements registry.Registry.
func (m *mmrRegistry) Get(id device.EndpointID) (device.Endpoint, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ep, ok := m.eps[id]
	return ep, ok
}

// List implements registry.Registry. Most recently active first.
func (m *mmrRegistry) List() []device.Endpoint {
	m.mu.RLock()
	out := make([]device.Endpoint, 0, len(m.eps))
	for _, ep := range m.eps {
		out = append(out, ep)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActive().After(out[j].LastActive())
	})
	return out
}

func (m *mmrRegistry) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.eps)
}

// Prune implements registry.Registry.
func (m *mmrRegistry) Prune(t device.Transport, maxIdle time.Duration) []device.EndpointID {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	var stale []device.Endpoint
	for id, ep := range m.eps {
		if ep.Transport() == t && ep.LastActive().Before(cutoff) {
			stale = append(stale, ep)
			delete(m.eps, id)
		}
	}
	m.mu.Unlock()

	ids := make([]device.EndpointID, 0, len(stale))
	for _, ep := range stale {
		_ = ep.Close()
		ids = append(ids, ep.ID())
	}
	return ids
}

func New() registry.Registry {
	return &mmrRegistry{
		eps: make(map[device.EndpointID]device.Endpoint),
		now: time.Now,
	}
}
