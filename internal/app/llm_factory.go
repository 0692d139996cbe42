package app

import (
	"context"
	"fmt"

	"github.com/xpanvictor/voxqa/internal/config"
	"github.com/xpanvictor/voxqa/pkg/Logger"
	"github.com/xpanvictor/voxqa/pkg/assistant"
	"github.com/xpanvictor/voxqa/pkg/assistant/providers/gemini"
	"github.com/xpanvictor/voxqa/pkg/assistant/providers/ollama"
	"github.com/xpanvictor/voxqa/pkg/assistant/providers/openai"
	"github.com/xpanvictor/voxqa/pkg/io/stt"
	"github.com/xpanvictor/voxqa/pkg/io/stt/deepgram"
	"github.com/xpanvictor/voxqa/pkg/io/stt/google"
	"github.com/xpanvictor/voxqa/pkg/io/stt/whisper"
)

// ProviderFactory builds the answer and speech backends named in settings.
type ProviderFactory struct {
	config *config.Settings
	logger *Logger.Logger
	gemini *gemini.GeminiProvider
}

func NewProviderFactory(cfg *config.Settings, logger *Logger.Logger) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
		logger: logger,
	}
}

// CreateAssistant returns the answer backend selected by assistant.provider
func (f *ProviderFactory) CreateAssistant(ctx context.Context) (assistant.Provider, error) {
	switch f.config.Assistant.Provider {
	case "gemini":
		p, err := f.geminiProvider(ctx)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "openai":
		if f.config.Assistant.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai API key is not configured")
		}
		f.logger.Infof("OpenAI assistant created, model: %s", f.config.Assistant.OpenAI.Model)
		return openai.NewAssistant(f.config.Assistant.OpenAI), nil
	case "ollama":
		if len(f.config.Assistant.Ollama.URLs) == 0 {
			return nil, fmt.Errorf("no ollama URLs configured")
		}
		f.logger.Infof("Ollama assistant created for URLs: %v, model: %s",
			f.config.Assistant.Ollama.URLs, f.config.Assistant.Ollama.Model)
		return ollama.New(f.config.Assistant.Ollama, f.logger), nil
	default:
		return nil, fmt.Errorf("unknown assistant provider %q", f.config.Assistant.Provider)
	}
}

// CreateDirectAssistant returns an audio-capable backend, or nil when none
// is configured. Only Gemini accepts audio input.
func (f *ProviderFactory) CreateDirectAssistant(ctx context.Context) (assistant.Provider, error) {
	if f.config.Gemini.APIKey == "" {
		f.logger.Warn("gemini API key not configured, direct audio path disabled")
		return nil, nil
	}
	p, err := f.geminiProvider(ctx)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// geminiProvider shares one client between the answer and direct paths.
func (f *ProviderFactory) geminiProvider(ctx context.Context) (*gemini.GeminiProvider, error) {
	if f.gemini != nil {
		return f.gemini, nil
	}
	p, err := gemini.New(ctx, f.config.Gemini)
	if err != nil {
		return nil, err
	}
	f.logger.Infof("Gemini provider created, model: %s, direct model: %s",
		f.config.Gemini.Model, f.config.Gemini.DirectModel)
	f.gemini = p
	return p, nil
}

// SpeechFactory returns a constructor for the backend selected by
// speech.provider. The engine calls it lazily.
func (f *ProviderFactory) SpeechFactory() (stt.Factory, error) {
	sc := f.config.Speech
	switch sc.Provider {
	case "google":
		return func(ctx context.Context) (stt.Provider, error) {
			p, err := google.New(ctx, sc.CredentialsFile, f.logger)
			if err != nil {
				return nil, err
			}
			return p, nil
		}, nil
	case "deepgram":
		return func(context.Context) (stt.Provider, error) {
			p, err := deepgram.New(sc.DeepgramAPIKey, f.logger)
			if err != nil {
				return nil, err
			}
			return p, nil
		}, nil
	case "whisper":
		if sc.WhisperURL == "" {
			return nil, fmt.Errorf("speech.whisper_url is required for the whisper provider")
		}
		return func(context.Context) (stt.Provider, error) {
			return whisper.NewWhisperClient(sc.WhisperURL, f.logger), nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown speech provider %q", sc.Provider)
	}
}

// Close releases the shared Gemini client.
func (f *ProviderFactory) Close() error {
	if f.gemini == nil {
		return nil
	}
	return f.gemini.Close()
}
