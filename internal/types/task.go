package types

import (
	"fmt"
	"time"
)

type Language string

const (
	LangEnglish    Language = "en"
	LangVietnamese Language = "vi"
)

func (l Language) Valid() bool {
	return l == LangEnglish || l == LangVietnamese
}

// SpeechCode maps the task language to a BCP-47 code for speech providers.
func (l Language) SpeechCode() string {
	if l == LangVietnamese {
		return "vi-VN"
	}
	return "en-US"
}

type Mode string

const (
	ModeTranscribe Mode = "transcribe"
	ModeDirect     Mode = "direct"
)

// TaskRequest is one audio-to-answer unit of work.
type TaskRequest struct {
	AudioFile     string   `json:"audioFile"`
	Language      Language `json:"language"`
	TopicContext  string   `json:"topicContext"`
	CustomContext string   `json:"customContext"`
	IsFollowUp    bool     `json:"isFollowUp"`
	UseStreaming  bool     `json:"useStreaming"`
	ModelOverride string   `json:"modelOverride,omitempty"`
	Mode          Mode     `json:"mode"`
	// Reprocess continues the retry rotation on the last processed file.
	Reprocess bool `json:"reprocess"`
}

// Normalize fills defaults for optional fields.
func (r *TaskRequest) Normalize() {
	if r.Language == "" {
		r.Language = LangEnglish
	}
	if r.Mode == "" {
		r.Mode = ModeTranscribe
	}
}

func (r TaskRequest) Validate() error {
	if r.AudioFile == "" {
		return fmt.Errorf("audio file is required")
	}
	if !r.Language.Valid() {
		return fmt.Errorf("unsupported language %q", r.Language)
	}
	if r.Mode != ModeTranscribe && r.Mode != ModeDirect {
		return fmt.Errorf("unsupported mode %q", r.Mode)
	}
	return nil
}

// Tier names a transcription model class.
type Tier string

const (
	TierBest      Tier = "best"
	TierUniversal Tier = "universal"
	TierNano      Tier = "nano"
)

// Strategy is one row of the transcription rotation.
type Strategy struct {
	Index int  `json:"index"`
	Tier  Tier `json:"tier"`
	// Alternate flips provider tuning for the retry universal pass.
	Alternate bool `json:"alternate"`
}

func (s Strategy) String() string {
	if s.Alternate {
		return string(s.Tier) + "/alt"
	}
	return string(s.Tier)
}

// TranscriptionAttempt records a single provider call.
type TranscriptionAttempt struct {
	Attempt       int           `json:"attempt"`
	StrategyIndex int           `json:"strategyIndex"`
	Tier          Tier          `json:"tier"`
	Model         string        `json:"model"`
	ResultText    string        `json:"resultText"`
	Err           error         `json:"-"`
	Duration      time.Duration `json:"duration"`
}

func (a TranscriptionAttempt) Succeeded() bool {
	return a.Err == nil && a.ResultText != ""
}

// Question is everything the answer generator needs for one turn.
type Question struct {
	Text             string
	Language         Language
	TopicContext     string
	PreviousQuestion string
	CustomContext    string
	ModelOverride    string
}

// DirectResult is the outcome of the audio-to-answer bypass.
type DirectResult struct {
	Transcript string `json:"transcript"`
	Answer     string `json:"answer"`
}

// Status is the read-only view of session state.
type Status struct {
	IsRecording         bool   `json:"isRecording"`
	CurrentFile         string `json:"currentFile"`
	LastProcessedFile   string `json:"lastProcessedFile"`
	HasLastQuestion     bool   `json:"hasLastQuestion"`
	LastQuestionPreview string `json:"lastQuestionPreview"`
}
