package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpanvictor/voxqa/internal/config"
	"github.com/xpanvictor/voxqa/internal/domains/coordinator"
	"github.com/xpanvictor/voxqa/internal/types"
	"github.com/xpanvictor/voxqa/pkg/Logger"
)

func offlineSettings(t *testing.T) *config.Settings {
	t.Helper()
	return &config.Settings{
		Server: config.ServerConfig{
			UploadDir:      t.TempDir(),
			MaxUploadMB:    5,
			SessionTimeout: time.Minute,
		},
		Assistant: config.AssistantConfig{
			Provider: "openai",
			OpenAI:   config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini"},
		},
		Speech: config.SpeechConfig{
			Provider:   "whisper",
			WhisperURL: "http://127.0.0.1:1",
		},
		Pipeline: config.PipelineConfig{MaxRetries: 0},
	}
}

func TestNewAppWiresOfflineProviders(t *testing.T) {
	a, err := NewApp(context.Background(), offlineSettings(t), Logger.NewNop(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.NotNil(t, a.Coordinator)
	assert.NotNil(t, a.ServerDeps.TaskHandler)
	assert.NotNil(t, a.ServerDeps.WebSocketHandler)
	assert.Equal(t, 0, a.DeviceRegistry.Len())
	assert.False(t, a.Coordinator.Status().IsRecording)

	clip := filepath.Join(t.TempDir(), "clip.webm")
	require.NoError(t, os.WriteFile(clip, make([]byte, 2048), 0o644))
	_, err = a.Coordinator.AcceptTask(types.TaskRequest{AudioFile: clip, Mode: types.ModeDirect})
	assert.ErrorIs(t, err, coordinator.ErrInvalidRequest, "direct path needs a gemini key")
}

func TestProviderFactoryRejectsIncompleteConfig(t *testing.T) {
	cases := map[string]func(*config.Settings){
		"openai without key":  func(s *config.Settings) { s.Assistant.OpenAI.APIKey = "" },
		"ollama without urls": func(s *config.Settings) { s.Assistant.Provider = "ollama" },
		"gemini without key":  func(s *config.Settings) { s.Assistant.Provider = "gemini" },
		"unknown assistant":   func(s *config.Settings) { s.Assistant.Provider = "claude" },
		"whisper without url": func(s *config.Settings) { s.Speech.WhisperURL = "" },
		"unknown speech":      func(s *config.Settings) { s.Speech.Provider = "sphinx" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := offlineSettings(t)
			mutate(s)
			_, err := NewApp(context.Background(), s, Logger.NewNop(), nil)
			assert.Error(t, err)
		})
	}
}

func TestSpeechFactoryBuildsSelectedProvider(t *testing.T) {
	s := offlineSettings(t)
	f := NewProviderFactory(s, Logger.NewNop())

	build, err := f.SpeechFactory()
	require.NoError(t, err)
	p, err := build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "whisper", p.Name())

	s.Speech.Provider = "deepgram"
	build, err = f.SpeechFactory()
	require.NoError(t, err)
	_, err = build(context.Background())
	assert.Error(t, err, "deepgram needs an api key")
}
