package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	UploadDir      string        `mapstructure:"upload_dir"`
	MaxUploadMB    int64         `mapstructure:"max_upload_mb"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	SessionTimeout time.Duration `mapstructure:"session_timeout"`
	// CORSOrigins lists browser origins allowed to call the API; "*" allows any.
	CORSOrigins []string `mapstructure:"cors_origins"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// AllowsAnyOrigin reports whether origins holds the "*" wildcard.
func AllowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// OriginAllowed matches origin against the configured list, ignoring case
// and a trailing slash.
func OriginAllowed(origins []string, origin string) bool {
	if AllowsAnyOrigin(origins) {
		return true
	}
	origin = strings.TrimSuffix(origin, "/")
	for _, o := range origins {
		if strings.EqualFold(strings.TrimSuffix(o, "/"), origin) {
			return true
		}
	}
	return false
}

type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	DirectModel string  `mapstructure:"direct_model"`
	Temperature float32 `mapstructure:"temperature"`
}

type OllamaConfig struct {
	URLs  []string `mapstructure:"urls"`
	Model string   `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// AssistantConfig picks the backend used by the answer generator.
type AssistantConfig struct {
	Provider string       `mapstructure:"provider"` // gemini | openai | ollama
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Ollama   OllamaConfig `mapstructure:"ollama"`
}

// SpeechModels maps transcription tiers to provider model names.
type SpeechModels struct {
	Best      string `mapstructure:"best"`
	Universal string `mapstructure:"universal"`
	Nano      string `mapstructure:"nano"`
}

type SpeechConfig struct {
	Provider        string       `mapstructure:"provider"` // google | deepgram | whisper
	CredentialsFile string       `mapstructure:"credentials_file"`
	DeepgramAPIKey  string       `mapstructure:"deepgram_api_key"`
	WhisperURL      string       `mapstructure:"whisper_url"`
	Models          SpeechModels `mapstructure:"models"`
}

type PipelineConfig struct {
	MaxRetries        int           `mapstructure:"max_retries"`
	RetryBackoff      time.Duration `mapstructure:"retry_backoff"`
	AttemptTimeout    time.Duration `mapstructure:"attempt_timeout"`
	GenerationTimeout time.Duration `mapstructure:"generation_timeout"`
	MinAudioBytes     int64         `mapstructure:"min_audio_bytes"`
}

type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Pass    string `mapstructure:"pass"`
	Channel string `mapstructure:"channel"`
}

type Settings struct {
	Server    ServerConfig    `mapstructure:"server"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Env       string          `mapstructure:"env"`
	Debug     bool            `mapstructure:"debug"`
}

var replacer = strings.NewReplacer(".", "_")

func Load() (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix("VOXQA")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()
	setDefaults(v)

	// Load settings from a configuration file or environment variables
	v.SetConfigName("config_" + genEnv(v))
	v.AddConfigPath(".")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// env + defaults only
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Settings, error) {
	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Validate rejects settings the pipeline cannot run with.
func (s *Settings) Validate() error {
	if s.Pipeline.MaxRetries < 0 {
		return fmt.Errorf("pipeline.max_retries must be >= 0, got %d", s.Pipeline.MaxRetries)
	}
	switch s.Assistant.Provider {
	case "gemini", "openai", "ollama":
	default:
		return fmt.Errorf("unknown assistant.provider %q", s.Assistant.Provider)
	}
	switch s.Speech.Provider {
	case "google", "deepgram", "whisper":
	default:
		return fmt.Errorf("unknown speech.provider %q", s.Speech.Provider)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("debug", false)

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.upload_dir", "uploads")
	v.SetDefault("server.max_upload_mb", 25)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.session_timeout", 30*time.Minute)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.direct_model", "gemini-1.5-flash")
	v.SetDefault("gemini.temperature", 0.4)

	v.SetDefault("assistant.provider", "gemini")
	v.SetDefault("assistant.openai.model", "gpt-4o-mini")
	v.SetDefault("assistant.ollama.model", "llama3.1:8b-instruct")

	v.SetDefault("speech.provider", "google")
	v.SetDefault("speech.models.best", "latest_long")
	v.SetDefault("speech.models.universal", "default")
	v.SetDefault("speech.models.nano", "latest_short")

	v.SetDefault("pipeline.max_retries", 3)
	v.SetDefault("pipeline.retry_backoff", 1500*time.Millisecond)
	v.SetDefault("pipeline.attempt_timeout", 60*time.Second)
	v.SetDefault("pipeline.generation_timeout", 120*time.Second)
	v.SetDefault("pipeline.min_audio_bytes", 1024)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.channel", "voxqa:events")
}

func genEnv(v *viper.Viper) string {
	env := v.GetString("ENV")
	if env == "" {
		return "dev"
	}
	return env
}
