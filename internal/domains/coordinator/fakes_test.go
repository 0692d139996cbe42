package coordinator

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xpanvictor/voxqa/internal/domains/session"
	"github.com/xpanvictor/voxqa/internal/domains/transcription"
	"github.com/xpanvictor/voxqa/internal/types"
	"github.com/xpanvictor/voxqa/pkg/Logger"
	"github.com/xpanvictor/voxqa/pkg/io/events"
)

type recorded struct {
	taskID  string
	name    string
	payload any
}

type recordingNotifier struct {
	mu      sync.Mutex
	events  []recorded
	onChunk func(n int)
	chunks  int
}

func (r *recordingNotifier) add(id, name string, p any) {
	r.mu.Lock()
	r.events = append(r.events, recorded{id, name, p})
	r.mu.Unlock()
}

func (r *recordingNotifier) OnProcessing(id string) { r.add(id, events.Processing, nil) }
func (r *recordingNotifier) OnTranscript(id string, p events.TranscriptPayload) {
	r.add(id, events.Transcript, p)
}
func (r *recordingNotifier) OnStreamChunk(id, chunk string) {
	r.add(id, events.StreamChunk, events.StreamChunkPayload{Chunk: chunk})
	r.mu.Lock()
	r.chunks++
	n, hook := r.chunks, r.onChunk
	r.mu.Unlock()
	if hook != nil {
		hook(n)
	}
}
func (r *recordingNotifier) OnStreamEnd(id string, p events.StreamEndPayload) {
	r.add(id, events.StreamEnd, p)
}
func (r *recordingNotifier) OnUpdate(id string, p events.UpdatePayload) { r.add(id, events.Update, p) }
func (r *recordingNotifier) OnStreamError(id, msg string) {
	r.add(id, events.StreamError, events.StreamErrorPayload{Error: msg})
}
func (r *recordingNotifier) OnError(id, msg string) {
	r.add(id, events.Error, events.ErrorPayload{Message: msg})
}
func (r *recordingNotifier) OnCancelled(id, msg string) {
	r.add(id, events.ProcessingCancelled, events.CancelledPayload{Message: msg})
}

func (r *recordingNotifier) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.name)
	}
	return out
}

func (r *recordingNotifier) last() recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func (r *recordingNotifier) all(name string) []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recorded
	for _, e := range r.events {
		if e.name == name {
			out = append(out, e)
		}
	}
	return out
}

type fakeTranscriber struct {
	mu     sync.Mutex
	text   string
	err    error
	starts []int
	// block until ctx is done when set
	block bool
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, file string, lang types.Language, start int) (transcription.Result, error) {
	f.mu.Lock()
	f.starts = append(f.starts, start)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return transcription.Result{LastAttempt: start}, ctx.Err()
	}
	res := transcription.Result{Text: f.text, LastAttempt: start, Attempts: []types.TranscriptionAttempt{{Attempt: start, ResultText: f.text}}}
	return res, f.err
}

type fakeGenerator struct {
	mu        sync.Mutex
	answer    string
	err       error
	chunks    []string
	streamErr error
	questions []types.Question
}

func (f *fakeGenerator) record(q types.Question) {
	f.mu.Lock()
	f.questions = append(f.questions, q)
	f.mu.Unlock()
}

func (f *fakeGenerator) calls() []types.Question {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Question(nil), f.questions...)
}

func (f *fakeGenerator) GenerateAnswer(ctx context.Context, q types.Question) (string, error) {
	f.record(q)
	return f.answer, f.err
}

func (f *fakeGenerator) GenerateAnswerStream(ctx context.Context, q types.Question) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		f.record(q)
		for _, c := range f.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if f.streamErr != nil {
			yield("", f.streamErr)
		}
	}
}

type fakeDirect struct {
	result types.DirectResult
	err    error
}

func (f *fakeDirect) ProcessAudioDirect(ctx context.Context, file string, lang types.Language, topic, custom, model string) (types.DirectResult, error) {
	return f.result, f.err
}

type harness struct {
	c        *Coordinator
	session  *session.Store
	notifier *recordingNotifier
	stt      *fakeTranscriber
	gen      *fakeGenerator
	direct   *fakeDirect
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		session:  session.New(),
		notifier: &recordingNotifier{},
		stt:      &fakeTranscriber{text: "what is a closure"},
		gen:      &fakeGenerator{answer: "A closure captures its scope."},
		direct:   &fakeDirect{},
	}
	h.c = New(Deps{
		Session:           h.session,
		Transcriber:       h.stt,
		Generator:         h.gen,
		Direct:            h.direct,
		Notifier:          h.notifier,
		Logger:            Logger.NewNop(),
		GenerationTimeout: time.Second,
	})
	return h
}

func audioFile(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.webm")
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func wait(t *testing.T, task *Task) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("task %s did not finish (state %s)", task.ID, task.State())
	}
}
