package device

import (
	"time"

	"github.com/google/uuid"

	"github.com/xpanvictor/voxqa/pkg/io/events"
)

type Transport string

const (
	TransportWS    Transport = "ws"
	TransportRedis Transport = "redis"
)

type Capabilities struct {
	EventSink bool // receives task events
	Control   bool // may send cancel/status requests
}

type EndpointID uuid.UUID

func (id EndpointID) String() string {
	return uuid.UUID(id).String()
}

func NewEndpointID() EndpointID {
	return EndpointID(uuid.New())
}

type Endpoint interface {
	// Identity
	ID() EndpointID
	Caps() Capabilities
	Transport() Transport
	// abstraction for publisher
	SendEvent(env events.Envelope) error
	Touch()
	// lifecyle
	IsAlive() bool
	Close() error
	LastActive() time.Time
}
