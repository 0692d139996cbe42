package coordinator

import (
	"context"

	"github.com/looplab/fsm"

	"github.com/xpanvictor/voxqa/pkg/Logger"
)

// Task phases.
const (
	StateIdle         = "idle"
	StateAccepted     = "accepted"
	StateTranscribing = "transcribing"
	StateGenerating   = "generating"
	StateStreaming    = "streaming"
	StateComplete     = "complete"
	StateCancelled    = "cancelled"
	StateErrored      = "errored"
)

const (
	evAccept     = "accept"
	evTranscribe = "transcribe"
	evDirect     = "direct"
	evGenerate   = "generate"
	evStream     = "stream"
	evComplete   = "complete"
	evCancel     = "cancel"
	evFail       = "fail"
	evReset      = "reset"
)

// Checkpoint names a point where a pending cancel is honoured.
type Checkpoint string

const (
	BeforeTranscription Checkpoint = "beforeTranscription"
	BeforeGeneration    Checkpoint = "beforeGeneration"
	BeforeChunk         Checkpoint = "beforeChunk"
	AfterChunk          Checkpoint = "afterChunk"
	BeforeComplete      Checkpoint = "beforeComplete"
)

type Outcome string

const (
	OutcomePending   Outcome = ""
	OutcomeComplete  Outcome = "complete"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeErrored   Outcome = "errored"
)

var active = []string{StateAccepted, StateTranscribing, StateGenerating, StateStreaming}

func newTaskFSM(taskID string, logger *Logger.Logger) *fsm.FSM {
	return fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: evAccept, Src: []string{StateIdle}, Dst: StateAccepted},
			{Name: evTranscribe, Src: []string{StateAccepted}, Dst: StateTranscribing},
			{Name: evDirect, Src: []string{StateAccepted}, Dst: StateGenerating},
			{Name: evGenerate, Src: []string{StateTranscribing}, Dst: StateGenerating},
			{Name: evStream, Src: []string{StateGenerating}, Dst: StateStreaming},
			{Name: evComplete, Src: []string{StateTranscribing, StateGenerating, StateStreaming}, Dst: StateComplete},
			{Name: evCancel, Src: active, Dst: StateCancelled},
			{Name: evFail, Src: active, Dst: StateErrored},
			{Name: evReset, Src: []string{StateComplete, StateCancelled, StateErrored}, Dst: StateIdle},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				logger.Debugf("task %s: %s -> %s", taskID, e.Src, e.Dst)
			},
		},
	)
}
