package registry

import (
	"time"

	"github.com/xpanvictor/voxqa/pkg/io/device"
)

// Registry tracks the endpoints events are fanned out to.
type Registry interface {
	// endpoint lifecycle
	Attach(ep device.Endpoint) error
	Detach(id device.EndpointID) bool
	// queries
	Get(id device.EndpointID) (device.Endpoint, bool)
	List() []device.Endpoint
	Len() int
	// Prune detaches and closes endpoints of transport t idle longer than maxIdle.
	Prune(t device.Transport, maxIdle time.Duration) []device.EndpointID
}
