package openai

import (
	"context"
	"fmt"
	"iter"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/xpanvictor/voxqa/internal/config"
	"github.com/xpanvictor/voxqa/pkg/assistant"
)

const providerName = "openai"

type openAIAssistant struct {
	client openai.Client
	model  string
}

func (o openAIAssistant) Name() string { return providerName }

func (o openAIAssistant) params(p assistant.Prompt) openai.ChatCompletionNewParams {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if p.System != "" {
		msgs = append(msgs, convertToOpenaiMsg(assistant.SYSTEM, p.System))
	}
	msgs = append(msgs, convertToOpenaiMsg(assistant.USER, p.User))

	model := p.Model
	if model == "" {
		model = o.model
	}
	return openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    model,
	}
}

// Generate implements assistant.Provider.
func (o openAIAssistant) Generate(ctx context.Context, p assistant.Prompt) (string, error) {
	chatCompletion, err := o.client.Chat.Completions.New(ctx, o.params(p))
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(chatCompletion.Choices) == 0 {
		return "", nil
	}
	return chatCompletion.Choices[0].Message.Content, nil
}

func (o openAIAssistant) Stream(ctx context.Context, p assistant.Prompt) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stream := o.client.Chat.Completions.NewStreaming(ctx, o.params(p))
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			if delta := chunk.Choices[0].Delta.Content; delta != "" {
				if !yield(delta, nil) {
					return
				}
			}
		}
		if err := stream.Err(); err != nil {
			yield("", fmt.Errorf("openai stream failed: %w", err))
		}
	}
}

func (o openAIAssistant) GenerateFromAudio(context.Context, assistant.Prompt) (string, error) {
	return "", assistant.ErrAudioUnsupported
}

func convertToOpenaiMsg(role assistant.Role, content string) openai.ChatCompletionMessageParamUnion {
	switch role {
	case assistant.ASSISTANT:
		return openai.AssistantMessage(content)
	case assistant.SYSTEM:
		return openai.SystemMessage(content)
	}
	return openai.UserMessage(content)
}

func NewAssistant(cfg config.OpenAIConfig, opts ...option.RequestOption) assistant.Provider {
	opts = append([]option.RequestOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	model := cfg.Model
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	return openAIAssistant{
		client: openai.NewClient(opts...),
		model:  model,
	}
}
