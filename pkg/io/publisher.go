package io

import (
	"sync/atomic"
	"time"

	"github.com/xpanvictor/voxqa/pkg/Logger"
	"github.com/xpanvictor/voxqa/pkg/io/events"
	"github.com/xpanvictor/voxqa/pkg/io/registry"
)

// Publisher wraps task events in envelopes and fans them out to every
// registered endpoint.
type Publisher struct {
	reg    registry.Registry
	logger *Logger.Logger
	seq    atomic.Uint64
	now    func() time.Time
}

func New(reg registry.Registry, logger *Logger.Logger) *Publisher {
	return &Publisher{
		reg:    reg,
		logger: logger.With("component", "publisher"),
		now:    time.Now,
	}
}

func (p *Publisher) SendEvent(taskID, name string, payload any) events.Envelope {
	env := events.Envelope{
		Seq:       p.seq.Add(1),
		TaskID:    taskID,
		Name:      name,
		Payload:   payload,
		Timestamp: p.now(),
	}

	for _, ep := range p.reg.List() {
		if !ep.Caps().EventSink || !ep.IsAlive() {
			continue
		}
		if err := ep.SendEvent(env); err != nil {
			p.logger.Warnf("event %s to %s endpoint %s failed: %v", name, ep.Transport(), ep.ID(), err)
		}
	}
	return env
}

func (p *Publisher) OnProcessing(taskID string) {
	p.SendEvent(taskID, events.Processing, events.ProcessingPayload{})
}

func (p *Publisher) OnTranscript(taskID string, payload events.TranscriptPayload) {
	p.SendEvent(taskID, events.Transcript, payload)
}

func (p *Publisher) OnStreamChunk(taskID, chunk string) {
	p.SendEvent(taskID, events.StreamChunk, events.StreamChunkPayload{Chunk: chunk})
}

func (p *Publisher) OnStreamEnd(taskID string, payload events.StreamEndPayload) {
	p.SendEvent(taskID, events.StreamEnd, payload)
}

func (p *Publisher) OnUpdate(taskID string, payload events.UpdatePayload) {
	p.SendEvent(taskID, events.Update, payload)
}

func (p *Publisher) OnStreamError(taskID, message string) {
	p.SendEvent(taskID, events.StreamError, events.StreamErrorPayload{Error: message})
}

func (p *Publisher) OnError(taskID, message string) {
	p.SendEvent(taskID, events.Error, events.ErrorPayload{Message: message})
}

func (p *Publisher) OnCancelled(taskID, message string) {
	p.SendEvent(taskID, events.ProcessingCancelled, events.CancelledPayload{Message: message})
}
