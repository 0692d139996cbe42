package stt

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

var ErrAudioUnsupported = errors.New("audio format not supported by provider")

// Request is one transcription call over a complete audio file.
type Request struct {
	Audio        []byte
	FileName     string
	LanguageCode string // BCP-47, e.g. en-US
	Model        string
	// Alternate flips provider tuning (punctuation, enhanced models) for
	// the retry pass that reuses the universal tier.
	Alternate bool
}

// Ext returns the lower case file extension without the dot.
func (r Request) Ext() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(r.FileName)), ".")
}

// Provider turns audio into text. An empty string with a nil error means
// the provider heard nothing.
type Provider interface {
	Name() string
	Transcribe(ctx context.Context, req Request) (string, error)
}

// Factory builds a provider; the engine calls it lazily and retries once.
type Factory func(ctx context.Context) (Provider, error)

// Closer is implemented by providers holding network clients.
type Closer interface {
	Close() error
}
