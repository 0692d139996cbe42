package transcription

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xpanvictor/voxqa/internal/config"
	"github.com/xpanvictor/voxqa/internal/types"
	"github.com/xpanvictor/voxqa/pkg/Logger"
	"github.com/xpanvictor/voxqa/pkg/io/stt"
)

var (
	ErrProviderInit = errors.New("transcription provider failed to initialize")
	ErrInvalidAudio = errors.New("audio file is missing or empty")
)

type Result struct {
	Text     string
	Attempts []types.TranscriptionAttempt
	// LastAttempt is the attempt number of the final call made.
	LastAttempt int
}

type Engine struct {
	factory  stt.Factory
	models   config.SpeechModels
	pipeline config.PipelineConfig
	logger   *Logger.Logger

	mu       sync.Mutex
	provider stt.Provider
}

func NewEngine(factory stt.Factory, models config.SpeechModels, pipeline config.PipelineConfig, logger *Logger.Logger) *Engine {
	return &Engine{
		factory:  factory,
		models:   models,
		pipeline: pipeline,
		logger:   logger.With("component", "transcription"),
	}
}

// Transcribe runs attempts startAttempt..startAttempt+max_retries until one
// yields text. Exhausting every attempt returns an empty Text and no error.
func (e *Engine) Transcribe(ctx context.Context, audioFile string, lang types.Language, startAttempt int) (Result, error) {
	res := Result{LastAttempt: startAttempt}

	audio, err := e.readAudio(audioFile)
	if err != nil {
		return res, err
	}

	provider, err := e.ensureProvider(ctx)
	if err != nil {
		return res, err
	}

	if startAttempt < 0 {
		startAttempt = 0
	}
	last := startAttempt + e.pipeline.MaxRetries
	for attempt := startAttempt; attempt <= last; attempt++ {
		if attempt > startAttempt {
			if err := sleepCtx(ctx, e.pipeline.RetryBackoff); err != nil {
				return res, err
			}
		}

		a := e.attempt(ctx, provider, stt.Request{
			Audio:        audio,
			FileName:     filepath.Base(audioFile),
			LanguageCode: lang.SpeechCode(),
		}, attempt)
		res.Attempts = append(res.Attempts, a)
		res.LastAttempt = attempt

		if a.Succeeded() {
			res.Text = a.ResultText
			return res, nil
		}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		if a.Err != nil {
			e.logger.Warnf("transcription attempt %d (%s/%s) failed: %v", attempt, provider.Name(), a.Model, a.Err)
		} else {
			e.logger.Warnf("transcription attempt %d (%s/%s) returned no text", attempt, provider.Name(), a.Model)
		}
	}

	e.logger.Warnf("transcription exhausted after %d attempts for %s", len(res.Attempts), audioFile)
	return res, nil
}

func (e *Engine) attempt(ctx context.Context, p stt.Provider, req stt.Request, attempt int) types.TranscriptionAttempt {
	strategy := StrategyFor(attempt)
	req.Model = modelFor(e.models, strategy.Tier)
	req.Alternate = strategy.Alternate

	actx, cancel := context.WithTimeout(ctx, e.pipeline.AttemptTimeout)
	defer cancel()

	e.logger.Debugf("transcription attempt %d using %s (model=%s)", attempt, strategy, req.Model)
	start := time.Now()
	text, err := p.Transcribe(actx, req)
	return types.TranscriptionAttempt{
		Attempt:       attempt,
		StrategyIndex: strategy.Index,
		Tier:          strategy.Tier,
		Model:         req.Model,
		ResultText:    text,
		Err:           err,
		Duration:      time.Since(start),
	}
}

func (e *Engine) readAudio(path string) ([]byte, error) {
	if err := ValidateAudioFile(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAudio, err)
	}
	if int64(len(data)) < e.pipeline.MinAudioBytes {
		e.logger.Warnf("audio file %s is only %d bytes, transcription may be empty", path, len(data))
	}
	return data, nil
}

// ensureProvider builds the provider lazily, retrying construction once.
func (e *Engine) ensureProvider(ctx context.Context) (stt.Provider, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.provider != nil {
		return e.provider, nil
	}

	var err error
	for try := 0; try < 2; try++ {
		var p stt.Provider
		p, err = e.factory(ctx)
		if err == nil {
			e.provider = p
			return p, nil
		}
		e.logger.Errorf("transcription provider init failed (try %d): %v", try+1, err)
	}
	return nil, fmt.Errorf("%w: %v", ErrProviderInit, err)
}

// Close releases the provider when it holds a network client.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c, ok := e.provider.(stt.Closer); ok {
		return c.Close()
	}
	return nil
}

// ValidateAudioFile rejects paths that do not name a non-empty regular file.
func ValidateAudioFile(path string) error {
	if path == "" {
		return fmt.Errorf("%w: no path given", ErrInvalidAudio)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAudio, err)
	}
	if info.IsDir() || info.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidAudio, path)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
