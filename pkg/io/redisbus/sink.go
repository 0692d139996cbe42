package redisbus

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis"

	"github.com/xpanvictor/voxqa/pkg/io/device"
	"github.com/xpanvictor/voxqa/pkg/io/events"
)

// publisher is the part of *redis.Client the sink needs.
type publisher interface {
	Publish(channel string, message interface{}) *redis.IntCmd
}

// Sink republishes task events on a Redis channel so other processes
// (dashboards, a second API replica) can follow them.
type Sink struct {
	id      device.EndpointID
	client  publisher
	channel string

	mu         sync.RWMutex
	lastActive time.Time
	closed     bool
}

func New(client publisher, channel string) *Sink {
	return &Sink{
		id:         device.NewEndpointID(),
		client:     client,
		channel:    channel,
		lastActive: time.Now(),
	}
}

func (s *Sink) ID() device.EndpointID { return s.id }

func (s *Sink) Caps() device.Capabilities {
	return device.Capabilities{EventSink: true}
}

func (s *Sink) Transport() device.Transport { return device.TransportRedis }

func (s *Sink) SendEvent(env events.Envelope) error {
	msg, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("redisbus: encode %s: %w", env.Name, err)
	}
	if err := s.client.Publish(s.channel, msg).Err(); err != nil {
		return fmt.Errorf("redisbus: publish %s: %w", env.Name, err)
	}
	s.Touch()
	return nil
}

// Touch keeps the sink out of idle pruning.
func (s *Sink) Touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

func (s *Sink) IsAlive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed
}

func (s *Sink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *Sink) LastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}
