package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	api "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"

	"github.com/xpanvictor/voxqa/pkg/Logger"
	"github.com/xpanvictor/voxqa/pkg/io/stt"
)

const providerName = "deepgram"

type transcribeFunc func(ctx context.Context, src io.Reader, opts *interfaces.PreRecordedTranscriptionOptions) (any, error)

type Provider struct {
	call   transcribeFunc
	logger *Logger.Logger
}

// response is the slice of the prerecorded result we read.
type response struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

func New(apiKey string, logger *Logger.Logger) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("deepgram api key is required")
	}
	client.InitWithDefault()
	dg := api.New(client.NewREST(apiKey, &interfaces.ClientOptions{}))

	return &Provider{
		call: func(ctx context.Context, src io.Reader, opts *interfaces.PreRecordedTranscriptionOptions) (any, error) {
			return dg.FromStream(ctx, src, opts)
		},
		logger: logger,
	}, nil
}

func (p *Provider) Name() string { return providerName }

func (p *Provider) Transcribe(ctx context.Context, req stt.Request) (string, error) {
	opts := &interfaces.PreRecordedTranscriptionOptions{
		Model:       req.Model,
		Language:    req.LanguageCode,
		Punctuate:   true,
		SmartFormat: !req.Alternate,
	}

	raw, err := p.call(ctx, bytes.NewReader(req.Audio), opts)
	if err != nil {
		return "", fmt.Errorf("deepgram transcribe: %w", err)
	}

	text, err := transcriptFrom(raw)
	if err != nil {
		return "", err
	}
	p.logger.Debugf("deepgram transcript (model=%s alt=%v): %q", req.Model, req.Alternate, text)
	return text, nil
}

func transcriptFrom(raw any) (string, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("deepgram: encode response: %w", err)
	}
	var r response
	if err := json.Unmarshal(b, &r); err != nil {
		return "", fmt.Errorf("deepgram: decode response: %w", err)
	}
	var parts []string
	for _, ch := range r.Results.Channels {
		if len(ch.Alternatives) == 0 {
			continue
		}
		if t := strings.TrimSpace(ch.Alternatives[0].Transcript); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " "), nil
}
