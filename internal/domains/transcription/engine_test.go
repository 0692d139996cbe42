package transcription

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpanvictor/voxqa/internal/config"
	"github.com/xpanvictor/voxqa/internal/types"
	"github.com/xpanvictor/voxqa/pkg/Logger"
	"github.com/xpanvictor/voxqa/pkg/io/stt"
)

type fakeProvider struct {
	mu       sync.Mutex
	requests []stt.Request
	replies  []reply
}

type reply struct {
	text string
	err  error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Transcribe(ctx context.Context, req stt.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if len(f.replies) == 0 {
		return "", nil
	}
	r := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return r.text, r.err
}

func modelsFixture() config.SpeechModels {
	return config.SpeechModels{Best: "m-best", Universal: "m-universal", Nano: "m-nano"}
}

func pipelineFixture() config.PipelineConfig {
	return config.PipelineConfig{
		MaxRetries:     3,
		RetryBackoff:   time.Millisecond,
		AttemptTimeout: time.Second,
		MinAudioBytes:  1024,
	}
}

func writeAudio(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.webm")
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func newTestEngine(p stt.Provider) *Engine {
	return NewEngine(func(context.Context) (stt.Provider, error) { return p, nil },
		modelsFixture(), pipelineFixture(), Logger.NewNop())
}

func TestTranscribeFirstAttempt(t *testing.T) {
	p := &fakeProvider{replies: []reply{{text: "what is a goroutine"}}}
	e := newTestEngine(p)

	res, err := e.Transcribe(context.Background(), writeAudio(t, 2048), types.LangEnglish, 0)
	require.NoError(t, err)
	assert.Equal(t, "what is a goroutine", res.Text)
	require.Len(t, p.requests, 1)
	assert.Equal(t, "m-universal", p.requests[0].Model)
	assert.Equal(t, "en-US", p.requests[0].LanguageCode)
	assert.Equal(t, "clip.webm", p.requests[0].FileName)
	assert.Equal(t, 0, res.LastAttempt)
}

func TestTranscribeExhaustsRetriesInRotation(t *testing.T) {
	p := &fakeProvider{}
	e := newTestEngine(p)

	res, err := e.Transcribe(context.Background(), writeAudio(t, 2048), types.LangEnglish, 0)
	require.NoError(t, err)
	assert.Empty(t, res.Text)
	require.Len(t, res.Attempts, 4)

	var retryTiers []types.Tier
	for _, a := range res.Attempts[1:] {
		retryTiers = append(retryTiers, a.Tier)
	}
	assert.Equal(t, []types.Tier{types.TierBest, types.TierUniversal, types.TierNano}, retryTiers)
	assert.Equal(t, []string{"m-universal", "m-best", "m-universal", "m-nano"},
		[]string{p.requests[0].Model, p.requests[1].Model, p.requests[2].Model, p.requests[3].Model})
	assert.True(t, p.requests[2].Alternate)
	assert.Equal(t, 3, res.LastAttempt)
}

func TestTranscribeRecoversAfterErrors(t *testing.T) {
	p := &fakeProvider{replies: []reply{
		{err: errors.New("timeout")},
		{text: ""},
		{text: "recovered"},
	}}
	e := newTestEngine(p)

	res, err := e.Transcribe(context.Background(), writeAudio(t, 2048), types.LangVietnamese, 0)
	require.NoError(t, err)
	assert.Equal(t, "recovered", res.Text)
	assert.Len(t, res.Attempts, 3)
	assert.Error(t, res.Attempts[0].Err)
	assert.Equal(t, "vi-VN", p.requests[0].LanguageCode)
}

func TestTranscribeContinuesRotationFromStart(t *testing.T) {
	p := &fakeProvider{replies: []reply{{text: "ok"}}}
	e := newTestEngine(p)

	res, err := e.Transcribe(context.Background(), writeAudio(t, 2048), types.LangEnglish, 3)
	require.NoError(t, err)
	assert.Equal(t, types.TierNano, res.Attempts[0].Tier)
	assert.Equal(t, 3, res.LastAttempt)
}

func TestTranscribeProviderInitRetriedOnce(t *testing.T) {
	calls := 0
	e := NewEngine(func(context.Context) (stt.Provider, error) {
		calls++
		return nil, errors.New("no credentials")
	}, modelsFixture(), pipelineFixture(), Logger.NewNop())

	_, err := e.Transcribe(context.Background(), writeAudio(t, 2048), types.LangEnglish, 0)
	assert.ErrorIs(t, err, ErrProviderInit)
	assert.Equal(t, 2, calls)
}

func TestTranscribeProviderInitSecondTrySucceeds(t *testing.T) {
	calls := 0
	p := &fakeProvider{replies: []reply{{text: "hi"}}}
	e := NewEngine(func(context.Context) (stt.Provider, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("flaky")
		}
		return p, nil
	}, modelsFixture(), pipelineFixture(), Logger.NewNop())

	res, err := e.Transcribe(context.Background(), writeAudio(t, 2048), types.LangEnglish, 0)
	require.NoError(t, err)
	assert.Equal(t, "hi", res.Text)
}

func TestTranscribeInvalidAudio(t *testing.T) {
	e := newTestEngine(&fakeProvider{})

	_, err := e.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.webm"), types.LangEnglish, 0)
	assert.ErrorIs(t, err, ErrInvalidAudio)

	_, err = e.Transcribe(context.Background(), writeAudio(t, 0), types.LangEnglish, 0)
	assert.ErrorIs(t, err, ErrInvalidAudio)
}

func TestTranscribeSmallFileStillAttempted(t *testing.T) {
	p := &fakeProvider{replies: []reply{{text: "tiny"}}}
	res, err := newTestEngine(p).Transcribe(context.Background(), writeAudio(t, 10), types.LangEnglish, 0)
	require.NoError(t, err)
	assert.Equal(t, "tiny", res.Text)
}

func TestTranscribeStopsOnCancel(t *testing.T) {
	p := &fakeProvider{}
	cfg := pipelineFixture()
	cfg.RetryBackoff = time.Hour
	e := NewEngine(func(context.Context) (stt.Provider, error) { return p, nil }, modelsFixture(), cfg, Logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := e.Transcribe(ctx, writeAudio(t, 2048), types.LangEnglish, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, p.requests, 1)
}
