package memoryregistry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpanvictor/voxqa/pkg/io/device"
	"github.com/xpanvictor/voxqa/pkg/io/events"
)

type fakeEndpoint struct {
	id        device.EndpointID
	last      time.Time
	closed    bool
	transport device.Transport
}

func (f *fakeEndpoint) ID() device.EndpointID     { return f.id }
func (f *fakeEndpoint) Caps() device.Capabilities { return device.Capabilities{EventSink: true} }
func (f *fakeEndpoint) Transport() device.Transport {
	if f.transport == "" {
		return device.TransportWS
	}
	return f.transport
}
func (f *fakeEndpoint) SendEvent(events.Envelope) error { return nil }
func (f *fakeEndpoint) Touch()                          { f.last = time.Now() }
func (f *fakeEndpoint) IsAlive() bool                   { return !f.closed }
func (f *fakeEndpoint) Close() error {
	f.closed = true
	return nil
}
func (f *fakeEndpoint) LastActive() time.Time { return f.last }

func TestAttachDetach(t *testing.T) {
	r := New()
	ep := &fakeEndpoint{id: device.NewEndpointID(), last: time.Now()}

	require.NoError(t, r.Attach(ep))
	assert.Equal(t, 1, r.Len())
	got, ok := r.Get(ep.ID())
	assert.True(t, ok)
	assert.Same(t, ep, got)

	assert.True(t, r.Detach(ep.ID()))
	assert.False(t, r.Detach(ep.ID()))
	assert.Equal(t, 0, r.Len())
	assert.Error(t, r.Attach(nil))
}

func TestListMostRecentFirst(t *testing.T) {
	r := New()
	now := time.Now()
	old := &fakeEndpoint{id: device.NewEndpointID(), last: now.Add(-time.Minute)}
	fresh := &fakeEndpoint{id: device.NewEndpointID(), last: now}
	require.NoError(t, r.Attach(old))
	require.NoError(t, r.Attach(fresh))

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, fresh.ID(), list[0].ID())
}

func TestPrune(t *testing.T) {
	r := New()
	now := time.Now()
	idle := &fakeEndpoint{id: device.NewEndpointID(), last: now.Add(-31 * time.Minute)}
	active := &fakeEndpoint{id: device.NewEndpointID(), last: now}
	sink := &fakeEndpoint{id: device.NewEndpointID(), last: now.Add(-time.Hour), transport: device.TransportRedis}
	require.NoError(t, r.Attach(idle))
	require.NoError(t, r.Attach(active))
	require.NoError(t, r.Attach(sink))

	pruned := r.Prune(device.TransportWS, 30*time.Minute)
	assert.Equal(t, []device.EndpointID{idle.ID()}, pruned)
	assert.True(t, idle.closed)
	assert.False(t, active.closed)
	assert.False(t, sink.closed, "other transports are left alone")
	assert.Equal(t, 2, r.Len())
}
