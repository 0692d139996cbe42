package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/xpanvictor/voxqa/internal/config"
	"github.com/xpanvictor/voxqa/pkg/assistant"
)

const providerName = "gemini"

// GeminiProvider serves text and audio prompts from one client.
type GeminiProvider struct {
	client *genai.Client
	cfg    config.GeminiConfig
}

// New creates a new GeminiProvider instance.
func New(ctx context.Context, cfg config.GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini API client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		cfg:    cfg,
	}, nil
}

func (gp *GeminiProvider) Name() string { return providerName }

func (gp *GeminiProvider) model(p assistant.Prompt, fallback string) *genai.GenerativeModel {
	name := p.Model
	if name == "" {
		name = fallback
	}
	m := gp.client.GenerativeModel(name)
	m.SetTemperature(gp.cfg.Temperature)
	if p.System != "" {
		m.SystemInstruction = genai.NewUserContent(genai.Text(p.System))
	}
	return m
}

func (gp *GeminiProvider) Generate(ctx context.Context, p assistant.Prompt) (string, error) {
	resp, err := gp.model(p, gp.cfg.Model).GenerateContent(ctx, genai.Text(p.User))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return TextOf(resp), nil
}

// Stream drains the Gemini response iterator as a range-able sequence.
func (gp *GeminiProvider) Stream(ctx context.Context, p assistant.Prompt) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		it := gp.model(p, gp.cfg.Model).GenerateContentStream(ctx, genai.Text(p.User))
		for {
			resp, err := it.Next()
			if errors.Is(err, iterator.Done) {
				return
			}
			if err != nil {
				yield("", fmt.Errorf("failed to receive from Gemini stream: %w", err))
				return
			}
			if text := TextOf(resp); text != "" {
				if !yield(text, nil) {
					return
				}
			}
		}
	}
}

func (gp *GeminiProvider) GenerateFromAudio(ctx context.Context, p assistant.Prompt) (string, error) {
	if len(p.Audio) == 0 {
		return "", fmt.Errorf("gemini: empty audio")
	}
	mime := p.AudioMIME
	if mime == "" {
		mime = "audio/webm"
	}
	resp, err := gp.model(p, gp.cfg.DirectModel).GenerateContent(ctx,
		genai.Blob{MIMEType: mime, Data: p.Audio},
		genai.Text(p.User),
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate from audio: %w", err)
	}
	return TextOf(resp), nil
}

func (gp *GeminiProvider) Close() error {
	return gp.client.Close()
}

// TextOf concatenates the text parts of the first candidate.
func TextOf(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}
