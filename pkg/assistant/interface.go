package assistant

import (
	"context"
	"errors"
	"iter"
)

var ErrAudioUnsupported = errors.New("assistant provider cannot take audio input")

type Role string

const (
	USER      Role = "user"
	ASSISTANT Role = "assistant"
	SYSTEM    Role = "system"
)

// Prompt is a single-turn request. Model overrides the provider default
// when set.
type Prompt struct {
	System    string
	User      string
	Model     string
	Audio     []byte
	AudioMIME string
}

// Provider is the narrow capability the answer generator depends on.
type Provider interface {
	Name() string
	Generate(ctx context.Context, p Prompt) (string, error)
	// Stream yields text deltas. A non-nil error ends the sequence.
	Stream(ctx context.Context, p Prompt) iter.Seq2[string, error]
	GenerateFromAudio(ctx context.Context, p Prompt) (string, error)
}
