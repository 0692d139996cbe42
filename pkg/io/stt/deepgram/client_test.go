package deepgram

import (
	"context"
	"errors"
	"io"
	"testing"

	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpanvictor/voxqa/pkg/Logger"
	"github.com/xpanvictor/voxqa/pkg/io/stt"
)

func TestTranscribe(t *testing.T) {
	var got *interfaces.PreRecordedTranscriptionOptions
	var body []byte
	p := &Provider{
		logger: Logger.NewNop(),
		call: func(ctx context.Context, src io.Reader, opts *interfaces.PreRecordedTranscriptionOptions) (any, error) {
			got = opts
			body, _ = io.ReadAll(src)
			return map[string]any{
				"results": map[string]any{
					"channels": []any{
						map[string]any{"alternatives": []any{
							map[string]any{"transcript": "explain the event loop", "confidence": 0.93},
						}},
					},
				},
			}, nil
		},
	}

	text, err := p.Transcribe(context.Background(), stt.Request{
		Audio: []byte("abc"), LanguageCode: "en-US", Model: "nova-2", Alternate: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "explain the event loop", text)
	assert.Equal(t, "nova-2", got.Model)
	assert.False(t, got.SmartFormat)
	assert.Equal(t, []byte("abc"), body)
}

func TestTranscribeEmptyResult(t *testing.T) {
	text, err := transcriptFrom(map[string]any{"results": map[string]any{"channels": []any{}}})
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestTranscribeError(t *testing.T) {
	p := &Provider{
		logger: Logger.NewNop(),
		call: func(context.Context, io.Reader, *interfaces.PreRecordedTranscriptionOptions) (any, error) {
			return nil, errors.New("401 unauthorized")
		},
	}
	_, err := p.Transcribe(context.Background(), stt.Request{})
	assert.ErrorContains(t, err, "401")
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New("", Logger.NewNop())
	assert.Error(t, err)
}
