package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xpanvictor/voxqa/pkg/Logger"
	"github.com/xpanvictor/voxqa/pkg/io/stt"
)

const providerName = "whisper"

// TranscriptionResponse represents the response from Whisper STT service
type TranscriptionResponse struct {
	Text     string                 `json:"text"`
	Language string                 `json:"language"`
	Segments []TranscriptionSegment `json:"segments,omitempty"`
}

// TranscriptionSegment represents a timed segment of transcription
type TranscriptionSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	ID    int     `json:"id"`
}

// WhisperClient handles communication with a whisper-asr-webservice instance
type WhisperClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *Logger.Logger
}

// NewWhisperClient creates a new Whisper client
func NewWhisperClient(baseURL string, logger *Logger.Logger) *WhisperClient {
	return &WhisperClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

func (w *WhisperClient) Name() string { return providerName }

// Transcribe uploads the audio file and returns the recognized text.
func (w *WhisperClient) Transcribe(ctx context.Context, req stt.Request) (string, error) {
	if len(req.Audio) == 0 {
		return "", fmt.Errorf("no audio provided")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	name := req.FileName
	if name == "" {
		name = "audio.wav"
	}
	part, err := writer.CreateFormFile("audio_file", name)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(req.Audio); err != nil {
		return "", fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.requestURL(req), &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := w.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		w.logger.Errorf("Whisper service error (status %d): %s", resp.StatusCode, string(responseBody))
		return "", fmt.Errorf("whisper service returned status %d", resp.StatusCode)
	}

	var transcription TranscriptionResponse
	if err := json.Unmarshal(responseBody, &transcription); err != nil {
		// plain text output
		w.logger.Debugf("Treating whisper response as plain text")
		return strings.TrimSpace(string(responseBody)), nil
	}

	w.logger.Debugf("Whisper transcription: %s (language: %s)", transcription.Text, transcription.Language)
	return strings.TrimSpace(transcription.Text), nil
}

func (w *WhisperClient) requestURL(req stt.Request) string {
	q := url.Values{}
	q.Set("encode", "true")
	q.Set("task", "transcribe")
	q.Set("output", "json")
	if lang, _, _ := strings.Cut(req.LanguageCode, "-"); lang != "" {
		q.Set("language", lang)
	}
	// alternate pass lets the service trim silence first
	q.Set("vad_filter", fmt.Sprint(req.Alternate))
	return w.baseURL + "/asr?" + q.Encode()
}
