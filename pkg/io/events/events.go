package events

import "time"

// Event names are part of the client wire contract.
const (
	Processing          = "processing"
	Transcript          = "transcript"
	StreamChunk         = "streamChunk"
	StreamEnd           = "streamEnd"
	StreamError         = "streamError"
	Update              = "update"
	Error               = "error"
	ProcessingCancelled = "processingCancelled"
)

// Envelope wraps every event pushed to a transport.
type Envelope struct {
	Seq       uint64    `json:"seq"`
	TaskID    string    `json:"taskId"`
	Name      string    `json:"name"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// Terminal reports whether no further events follow for the task.
func (e Envelope) Terminal() bool {
	switch e.Name {
	case StreamEnd, StreamError, Update, Error, ProcessingCancelled:
		return true
	}
	return false
}

type ProcessingPayload struct{}

type TranscriptPayload struct {
	Transcript          string `json:"transcript"`
	ProcessedWithGemini bool   `json:"processedWithGemini"`
}

type StreamChunkPayload struct {
	Chunk string `json:"chunk"`
}

type StreamEndPayload struct {
	FullAnswer          string `json:"fullAnswer"`
	Transcript          string `json:"transcript"`
	AudioFile           string `json:"audioFile"`
	IsFollowUp          bool   `json:"isFollowUp"`
	ProcessedWithGemini bool   `json:"processedWithGemini"`
}

type StreamErrorPayload struct {
	Error string `json:"error"`
}

type UpdatePayload struct {
	Transcript          string `json:"transcript"`
	Answer              string `json:"answer"`
	AudioFile           string `json:"audioFile"`
	ProcessedWithGemini bool   `json:"processedWithGemini"`
	EmptyTranscript     bool   `json:"emptyTranscript,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type CancelledPayload struct {
	Message string `json:"message"`
}
