package answer

import (
	"context"
	"iter"

	"github.com/stretchr/testify/mock"

	"github.com/xpanvictor/voxqa/pkg/assistant"
)

type mockProvider struct {
	mock.Mock
	chunks    []string
	streamErr error
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Generate(ctx context.Context, p assistant.Prompt) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) Stream(ctx context.Context, p assistant.Prompt) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, c := range m.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if m.streamErr != nil {
			yield("", m.streamErr)
		}
	}
}

func (m *mockProvider) GenerateFromAudio(ctx context.Context, p assistant.Prompt) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}
