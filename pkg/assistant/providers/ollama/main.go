package ollama

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/presbrey/ollamafarm"

	"github.com/xpanvictor/voxqa/internal/config"
	"github.com/xpanvictor/voxqa/pkg/Logger"
	"github.com/xpanvictor/voxqa/pkg/assistant"
)

const providerName = "ollama"

var errStopped = errors.New("stream consumer stopped")

type chatFunc func(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error

// OllamaProvider routes chats to the first online server in the farm.
type OllamaProvider struct {
	chat  chatFunc
	model string
}

func New(cfg config.OllamaConfig, logger *Logger.Logger) *OllamaProvider {
	farm := ollamafarm.New()

	// register servers
	for _, u := range cfg.URLs {
		if err := farm.RegisterURL(u, nil); err != nil {
			logger.Warnf("ollama server %s not registered: %v", u, err)
		}
	}

	return &OllamaProvider{
		model: cfg.Model,
		chat: func(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error {
			// pick first available client
			ollama := farm.First(&ollamafarm.Where{Offline: false})
			if ollama == nil {
				return fmt.Errorf("no ollama server online for model %v", req.Model)
			}
			return ollama.Client().Chat(ctx, req, fn)
		},
	}
}

func (o *OllamaProvider) Name() string { return providerName }

func (o *OllamaProvider) request(p assistant.Prompt, stream bool) *api.ChatRequest {
	msgs := make([]api.Message, 0, 2)
	if p.System != "" {
		msgs = append(msgs, api.Message{Role: string(assistant.SYSTEM), Content: p.System})
	}
	msgs = append(msgs, api.Message{Role: string(assistant.USER), Content: p.User})

	model := p.Model
	if model == "" {
		model = o.model
	}
	return &api.ChatRequest{
		Model:    model,
		Messages: msgs,
		Stream:   &stream,
	}
}

func (o *OllamaProvider) Generate(ctx context.Context, p assistant.Prompt) (string, error) {
	var b strings.Builder
	err := o.chat(ctx, o.request(p, false), func(cr api.ChatResponse) error {
		b.WriteString(cr.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	return b.String(), nil
}

// Stream yields each chat delta from inside the response callback.
func (o *OllamaProvider) Stream(ctx context.Context, p assistant.Prompt) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := o.chat(ctx, o.request(p, true), func(cr api.ChatResponse) error {
			if cr.Message.Content == "" {
				return nil
			}
			if !yield(cr.Message.Content, nil) {
				return errStopped
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopped) {
			yield("", fmt.Errorf("ollama chat: %w", err))
		}
	}
}

func (o *OllamaProvider) GenerateFromAudio(context.Context, assistant.Prompt) (string, error) {
	return "", assistant.ErrAudioUnsupported
}
