package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"

	"github.com/xpanvictor/voxqa/internal/config"
)

func TestTextOf(t *testing.T) {
	assert.Empty(t, TextOf(nil))
	assert.Empty(t, TextOf(&genai.GenerateContentResponse{}))
	assert.Empty(t, TextOf(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{
				genai.Text("A closure "),
				genai.Blob{MIMEType: "image/png"},
				genai.Text("captures variables."),
			}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}}},
		},
	}
	assert.Equal(t, "A closure captures variables.", TextOf(resp))
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(context.Background(), config.GeminiConfig{})
	assert.ErrorContains(t, err, "API key")
}
