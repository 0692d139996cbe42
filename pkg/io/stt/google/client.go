package google

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"

	"github.com/xpanvictor/voxqa/pkg/Logger"
	"github.com/xpanvictor/voxqa/pkg/io/stt"
)

const providerName = "google"

// recognizer is the subset of speech.Client used here, narrowed for tests.
type recognizer interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)
}

type clientRecognizer struct {
	c *speech.Client
}

func (r clientRecognizer) Recognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
	return r.c.Recognize(ctx, req)
}

type Provider struct {
	rec    recognizer
	client *speech.Client
	logger *Logger.Logger
}

// New dials Cloud Speech. credentialsFile may be empty to use ADC.
func New(ctx context.Context, credentialsFile string, logger *Logger.Logger) (*Provider, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return &Provider{rec: clientRecognizer{client}, client: client, logger: logger}, nil
}

func newWithRecognizer(rec recognizer, logger *Logger.Logger) *Provider {
	return &Provider{rec: rec, logger: logger}
}

func (p *Provider) Name() string { return providerName }

func (p *Provider) Transcribe(ctx context.Context, req stt.Request) (string, error) {
	cfg, err := recognitionConfig(req)
	if err != nil {
		return "", err
	}

	resp, err := p.rec.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: cfg,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: req.Audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("google recognize: %w", err)
	}

	var parts []string
	for _, result := range resp.GetResults() {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if t := strings.TrimSpace(alts[0].GetTranscript()); t != "" {
			parts = append(parts, t)
		}
	}
	text := strings.Join(parts, " ")
	p.logger.Debugf("google transcript (model=%s alt=%v): %q", req.Model, req.Alternate, text)
	return text, nil
}

func recognitionConfig(req stt.Request) (*speechpb.RecognitionConfig, error) {
	cfg := &speechpb.RecognitionConfig{
		LanguageCode:               req.LanguageCode,
		Model:                      req.Model,
		EnableAutomaticPunctuation: !req.Alternate,
		UseEnhanced:                req.Alternate,
	}
	switch req.Ext() {
	case "webm":
		cfg.Encoding = speechpb.RecognitionConfig_WEBM_OPUS
		cfg.SampleRateHertz = 48000
	case "ogg", "opus":
		cfg.Encoding = speechpb.RecognitionConfig_OGG_OPUS
		cfg.SampleRateHertz = 48000
	case "flac":
		cfg.Encoding = speechpb.RecognitionConfig_FLAC
	case "wav", "":
		// header carries encoding and rate
	default:
		return nil, fmt.Errorf("%w: %s", stt.ErrAudioUnsupported, req.Ext())
	}
	return cfg, nil
}

func (p *Provider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}
