package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpanvictor/voxqa/pkg/io/device"
	"github.com/xpanvictor/voxqa/pkg/io/events"
)

func TestSendEventWritesEnvelope(t *testing.T) {
	upgrader := websocket.Upgrader{}
	epCh := make(chan Endpoint, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		epCh <- New(conn, device.Capabilities{EventSink: true})
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	ep := <-epCh
	assert.Equal(t, device.TransportWS, ep.Transport())
	assert.True(t, ep.IsAlive())

	require.NoError(t, ep.SendEvent(events.Envelope{Seq: 7, TaskID: "t", Name: events.StreamChunk,
		Payload: events.StreamChunkPayload{Chunk: "abc"}, Timestamp: time.Now()}))

	var got struct {
		Seq     uint64         `json:"seq"`
		TaskID  string         `json:"taskId"`
		Name    string         `json:"name"`
		Payload map[string]any `json:"payload"`
	}
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, uint64(7), got.Seq)
	assert.Equal(t, "streamChunk", got.Name)
	assert.Equal(t, "abc", got.Payload["chunk"])

	before := ep.LastActive()
	time.Sleep(time.Millisecond)
	ep.Touch()
	assert.True(t, ep.LastActive().After(before))

	assert.NoError(t, ep.Ping())

	require.NoError(t, ep.Close())
	require.NoError(t, ep.Close())
	assert.False(t, ep.IsAlive())
	assert.Error(t, ep.Ping())
}
