package answer

import (
	"context"
	"iter"

	"github.com/xpanvictor/voxqa/internal/types"
	"github.com/xpanvictor/voxqa/pkg/Logger"
	"github.com/xpanvictor/voxqa/pkg/assistant"
	"github.com/xpanvictor/voxqa/pkg/utils"
)

type Generator struct {
	provider assistant.Provider
	logger   *Logger.Logger
}

func NewGenerator(provider assistant.Provider, logger *Logger.Logger) *Generator {
	return &Generator{provider: provider, logger: logger.With("component", "answer")}
}

func (g *Generator) GenerateAnswer(ctx context.Context, q types.Question) (string, error) {
	g.logger.Debugf("generating answer via %s (topic=%q followUp=%v)", g.provider.Name(), q.TopicContext, q.PreviousQuestion != "")
	out, err := g.provider.Generate(ctx, BuildPrompt(q))
	if err != nil {
		return "", utils.Normalize("Failed to generate answer", err)
	}
	return out, nil
}

// GenerateAnswerStream is lazy: nothing is sent until the caller ranges over
// it. Errors end the sequence; chunks already yielded stand.
func (g *Generator) GenerateAnswerStream(ctx context.Context, q types.Question) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		g.logger.Debugf("streaming answer via %s (topic=%q)", g.provider.Name(), q.TopicContext)
		for chunk, err := range g.provider.Stream(ctx, BuildPrompt(q)) {
			if err != nil {
				yield("", utils.Normalize("Streaming failed", err))
				return
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}
