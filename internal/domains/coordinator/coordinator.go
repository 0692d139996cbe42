package coordinator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/xpanvictor/voxqa/internal/constants/prompts"
	"github.com/xpanvictor/voxqa/internal/domains/answer"
	"github.com/xpanvictor/voxqa/internal/domains/session"
	"github.com/xpanvictor/voxqa/internal/domains/transcription"
	"github.com/xpanvictor/voxqa/internal/types"
	"github.com/xpanvictor/voxqa/pkg/Logger"
	"github.com/xpanvictor/voxqa/pkg/io/events"
	"github.com/xpanvictor/voxqa/pkg/utils"
)

var (
	ErrTaskInFlight   = session.ErrTaskInFlight
	ErrInvalidAudio   = transcription.ErrInvalidAudio
	ErrInvalidRequest = errors.New("invalid task request")
	ErrNoLastFile     = errors.New("no previously processed audio file")
)

// Notifier receives task events in causal order from the task goroutine.
type Notifier interface {
	OnProcessing(taskID string)
	OnTranscript(taskID string, p events.TranscriptPayload)
	OnStreamChunk(taskID, chunk string)
	OnStreamEnd(taskID string, p events.StreamEndPayload)
	OnUpdate(taskID string, p events.UpdatePayload)
	OnStreamError(taskID, message string)
	OnError(taskID, message string)
	OnCancelled(taskID, message string)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audioFile string, lang types.Language, startAttempt int) (transcription.Result, error)
}

type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, q types.Question) (string, error)
	GenerateAnswerStream(ctx context.Context, q types.Question) iter.Seq2[string, error]
}

type DirectProcessor interface {
	ProcessAudioDirect(ctx context.Context, audioFile string, lang types.Language, topicContext, customContext, modelOverride string) (types.DirectResult, error)
}

type Deps struct {
	Session           *session.Store
	Transcriber       Transcriber
	Generator         AnswerGenerator
	Direct            DirectProcessor
	Notifier          Notifier
	Logger            *Logger.Logger
	GenerationTimeout time.Duration
}

// Coordinator owns the lifecycle of one audio-to-answer task at a time.
type Coordinator struct {
	session           *session.Store
	transcriber       Transcriber
	generator         AnswerGenerator
	direct            DirectProcessor
	notifier          Notifier
	logger            *Logger.Logger
	generationTimeout time.Duration

	mu      sync.Mutex
	current *Task
	cancel  context.CancelFunc
}

func New(d Deps) *Coordinator {
	return &Coordinator{
		session:           d.Session,
		transcriber:       d.Transcriber,
		generator:         d.Generator,
		direct:            d.Direct,
		notifier:          d.Notifier,
		logger:            d.Logger.With("component", "coordinator"),
		generationTimeout: d.GenerationTimeout,
	}
}

// Task is a handle on an accepted request.
type Task struct {
	ID      string
	Request types.TaskRequest

	machine          *fsm.FSM
	previousQuestion string
	hadPrevious      bool
	done             chan struct{}

	mu      sync.Mutex
	outcome Outcome
}

func (t *Task) Done() <-chan struct{} { return t.done }

// Outcome is OutcomePending until Done is closed.
func (t *Task) Outcome() Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outcome
}

func (t *Task) State() string { return t.machine.Current() }

// AcceptTask validates the request, claims the session and starts the task
// on its own goroutine. Validation failures never emit events.
func (c *Coordinator) AcceptTask(req types.TaskRequest) (*Task, error) {
	req.Normalize()
	if req.Reprocess && req.AudioFile == "" {
		req.AudioFile = c.session.LastProcessedFile()
		if req.AudioFile == "" {
			return nil, ErrNoLastFile
		}
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := transcription.ValidateAudioFile(req.AudioFile); err != nil {
		return nil, err
	}
	if req.Mode == types.ModeDirect && c.direct == nil {
		return nil, fmt.Errorf("%w: direct processing is not configured", ErrInvalidRequest)
	}
	// claims the session and clears a stale cancel flag in one step
	if err := c.session.Acquire(req.AudioFile, req.Reprocess); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	task := &Task{
		ID:      id,
		Request: req,
		machine: newTaskFSM(id, c.logger),
		done:    make(chan struct{}),
	}
	task.previousQuestion, task.hadPrevious = c.session.LastQuestion()

	ctx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.current = task
	c.cancel = cancel
	c.mu.Unlock()

	c.transition(task, evAccept)
	c.logger.Infof("task %s accepted (file=%s mode=%s streaming=%v followUp=%v)",
		id, req.AudioFile, req.Mode, req.UseStreaming, req.IsFollowUp)
	c.notifier.OnProcessing(id)

	go c.run(ctx, task)
	return task, nil
}

// RequestCancel flags the active task for cancellation and aborts its
// in-flight provider call. Repeated calls are no-ops.
func (c *Coordinator) RequestCancel() bool {
	already := c.session.Cancel()
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()
	if !already {
		c.logger.Infof("cancel requested")
	}
	return !already
}

func (c *Coordinator) Status() types.Status {
	return c.session.Snapshot()
}

// Current returns the active task, if any.
func (c *Coordinator) Current() (*Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.current != nil
}

// Shutdown cancels the active task and waits for it to settle.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	task, ok := c.Current()
	if !ok {
		return nil
	}
	c.RequestCancel()
	select {
	case <-task.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) run(ctx context.Context, t *Task) {
	defer c.finish(t)
	defer func() {
		if r := recover(); r != nil {
			c.logger.Errorf("task %s panicked: %v", t.ID, r)
			c.fail(t, prompts.FailureInternal, fmt.Errorf("internal error: %v", r))
		}
	}()

	if c.checkpoint(t, BeforeTranscription) {
		return
	}
	if t.Request.Mode == types.ModeDirect {
		c.runDirect(ctx, t)
		return
	}
	c.runTranscribed(ctx, t)
}

func (c *Coordinator) runTranscribed(ctx context.Context, t *Task) {
	req := t.Request
	c.transition(t, evTranscribe)

	start := 0
	if req.Reprocess {
		start = c.session.RetryCount() + 1
	}
	res, err := c.transcriber.Transcribe(ctx, req.AudioFile, req.Language, start)
	if len(res.Attempts) > 0 {
		c.session.SetRetryCount(res.LastAttempt)
	}
	if err != nil {
		c.fail(t, prompts.FailureTranscription, err)
		return
	}
	if c.checkpoint(t, BeforeGeneration) {
		return
	}

	if res.Text == "" {
		c.logger.Warnf("task %s: empty transcript after %d attempts", t.ID, len(res.Attempts))
		c.transition(t, evComplete)
		c.notifier.OnUpdate(t.ID, events.UpdatePayload{
			Answer:          prompts.EmptyTranscriptApology(req.Language),
			AudioFile:       req.AudioFile,
			EmptyTranscript: true,
		})
		c.settle(t, OutcomeComplete)
		return
	}

	q := types.Question{
		Text:          res.Text,
		Language:      req.Language,
		TopicContext:  req.TopicContext,
		CustomContext: req.CustomContext,
		ModelOverride: req.ModelOverride,
	}
	if req.IsFollowUp {
		if t.hadPrevious {
			q.PreviousQuestion = t.previousQuestion
		} else {
			c.logger.Warnf("task %s: follow-up requested but no previous question is stored", t.ID)
		}
	} else {
		c.session.SetLastQuestion(res.Text)
	}

	c.transition(t, evGenerate)
	gctx, cancel := c.generationContext(ctx)
	defer cancel()

	if req.UseStreaming {
		c.stream(gctx, t, res.Text, c.generator.GenerateAnswerStream(gctx, q), false)
		return
	}

	ans, err := c.generator.GenerateAnswer(gctx, q)
	if err != nil {
		c.fail(t, prompts.FailureGeneration, err)
		return
	}
	if c.checkpoint(t, BeforeComplete) {
		return
	}
	c.transition(t, evComplete)
	c.notifier.OnUpdate(t.ID, events.UpdatePayload{
		Transcript: res.Text,
		Answer:     ans,
		AudioFile:  req.AudioFile,
	})
	c.settle(t, OutcomeComplete)
}

func (c *Coordinator) runDirect(ctx context.Context, t *Task) {
	req := t.Request
	c.transition(t, evDirect)

	gctx, cancel := c.generationContext(ctx)
	defer cancel()

	res, err := c.direct.ProcessAudioDirect(gctx, req.AudioFile, req.Language, req.TopicContext, req.CustomContext, req.ModelOverride)
	if err != nil {
		c.fail(t, prompts.FailureDirect, err)
		return
	}
	if c.checkpoint(t, BeforeGeneration) {
		return
	}
	if !req.IsFollowUp && res.Transcript != answer.UnextractedQuestion {
		c.session.SetLastQuestion(res.Transcript)
	}

	if req.UseStreaming {
		c.stream(gctx, t, res.Transcript, func(yield func(string, error) bool) {
			yield(res.Answer, nil)
		}, true)
		return
	}

	c.transition(t, evComplete)
	c.notifier.OnUpdate(t.ID, events.UpdatePayload{
		Transcript:          res.Transcript,
		Answer:              res.Answer,
		AudioFile:           req.AudioFile,
		ProcessedWithGemini: true,
	})
	c.settle(t, OutcomeComplete)
}

// stream emits the transcript, then each chunk with cancel checks on both
// sides, then streamEnd carrying the concatenation of every chunk sent.
func (c *Coordinator) stream(ctx context.Context, t *Task, transcript string, chunks iter.Seq2[string, error], viaGemini bool) {
	req := t.Request
	c.transition(t, evStream)
	c.notifier.OnTranscript(t.ID, events.TranscriptPayload{
		Transcript:          transcript,
		ProcessedWithGemini: viaGemini,
	})

	var full strings.Builder
	for chunk, err := range chunks {
		if err != nil {
			c.fail(t, prompts.FailureGeneration, err)
			return
		}
		if chunk == "" {
			continue
		}
		if c.checkpoint(t, BeforeChunk) {
			return
		}
		c.notifier.OnStreamChunk(t.ID, chunk)
		full.WriteString(chunk)
		if c.checkpoint(t, AfterChunk) {
			return
		}
	}
	if c.checkpoint(t, BeforeComplete) {
		return
	}

	c.transition(t, evComplete)
	c.notifier.OnStreamEnd(t.ID, events.StreamEndPayload{
		FullAnswer:          full.String(),
		Transcript:          transcript,
		AudioFile:           req.AudioFile,
		IsFollowUp:          req.IsFollowUp,
		ProcessedWithGemini: viaGemini,
	})
	c.settle(t, OutcomeComplete)
}

// checkpoint reports true, after emitting the cancellation, when a cancel
// is pending. Callers must return immediately.
func (c *Coordinator) checkpoint(t *Task, at Checkpoint) bool {
	if !c.session.Cancelled() {
		return false
	}
	c.logger.Infof("task %s cancelled at %s", t.ID, at)
	c.transition(t, evCancel)
	c.notifier.OnCancelled(t.ID, prompts.CancelledMessage(t.Request.Language))
	c.settle(t, OutcomeCancelled)
	return true
}

// fail reports err unless the task was cancelled, in which case the error
// is the cancel surfacing through a provider and becomes a cancellation.
// Streaming requests get streamError whatever step failed.
func (c *Coordinator) fail(t *Task, stage prompts.FailureStage, err error) {
	if c.session.Cancelled() {
		c.checkpoint(t, BeforeComplete)
		return
	}
	c.logger.Errorf("task %s failed during %s: %v", t.ID, stage, err)
	msg := failureText(t.Request.Language, stage, err)
	c.transition(t, evFail)
	if t.Request.UseStreaming {
		c.notifier.OnStreamError(t.ID, msg)
	} else {
		c.notifier.OnError(t.ID, msg)
	}
	c.settle(t, OutcomeErrored)
}

// failureText is the localized stage message followed by the raw provider
// error, without the English reason XError carries for logs.
func failureText(lang types.Language, stage prompts.FailureStage, err error) string {
	raw := err.Error()
	var xe utils.XError
	if errors.As(err, &xe) {
		if m := xe.RawMessage(); m != "" {
			raw = m
		}
	}
	return prompts.FailureMessage(lang, stage) + ": " + raw
}

func (c *Coordinator) settle(t *Task, o Outcome) {
	t.mu.Lock()
	if t.outcome == OutcomePending {
		t.outcome = o
	}
	t.mu.Unlock()
}

func (c *Coordinator) finish(t *Task) {
	if t.Outcome() == OutcomePending {
		// a path returned without settling
		c.fail(t, prompts.FailureInternal, errors.New("task ended without a result"))
	}
	c.transition(t, evReset)

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.current = nil
	c.cancel = nil
	c.mu.Unlock()

	c.session.Release()
	c.logger.Infof("task %s finished: %s", t.ID, t.Outcome())
	close(t.done)
}

func (c *Coordinator) generationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.generationTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.generationTimeout)
}

func (c *Coordinator) transition(t *Task, event string) {
	if err := t.machine.Event(context.Background(), event); err != nil {
		c.logger.Warnf("task %s: transition %s from %s rejected: %v", t.ID, event, t.machine.Current(), err)
	}
}
