package redisbus

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpanvictor/voxqa/pkg/io/device"
	"github.com/xpanvictor/voxqa/pkg/io/events"
)

type fakePublisher struct {
	channel string
	msgs    [][]byte
	err     error
}

func (f *fakePublisher) Publish(channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	if b, ok := message.([]byte); ok {
		f.msgs = append(f.msgs, b)
	}
	return redis.NewIntResult(1, f.err)
}

func TestSinkPublishesEnvelope(t *testing.T) {
	pub := &fakePublisher{}
	s := New(pub, "voxqa:events")
	assert.Equal(t, device.TransportRedis, s.Transport())
	assert.True(t, s.Caps().EventSink)

	require.NoError(t, s.SendEvent(events.Envelope{
		Seq: 3, TaskID: "t", Name: events.Update, Timestamp: time.Now(),
		Payload: events.UpdatePayload{Transcript: "q", Answer: "a", AudioFile: "f.webm"},
	}))

	assert.Equal(t, "voxqa:events", pub.channel)
	require.Len(t, pub.msgs, 1)
	var got map[string]any
	require.NoError(t, json.Unmarshal(pub.msgs[0], &got))
	assert.Equal(t, "update", got["name"])
	payload := got["payload"].(map[string]any)
	assert.Equal(t, "a", payload["answer"])
	assert.NotContains(t, payload, "emptyTranscript")
}

func TestSinkPublishError(t *testing.T) {
	s := New(&fakePublisher{err: errors.New("connection refused")}, "c")
	err := s.SendEvent(events.Envelope{Name: events.Error})
	assert.ErrorContains(t, err, "connection refused")
}

func TestSinkClose(t *testing.T) {
	s := New(&fakePublisher{}, "c")
	require.NoError(t, s.Close())
	assert.False(t, s.IsAlive())
}
