package answer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xpanvictor/voxqa/internal/types"
	"github.com/xpanvictor/voxqa/pkg/Logger"
	"github.com/xpanvictor/voxqa/pkg/assistant"
	"github.com/xpanvictor/voxqa/pkg/utils"
)

const (
	UnextractedQuestion = "Unable to extract specific question from audio"
	maxQuestionRunes    = 200
)

var (
	labelledQuestion = regexp.MustCompile(`(?i)^[*_#>\s]*(?:question|câu hỏi)[*_\s]*:[*_\s]*(.+?)[*_\s]*$`)
	questionOpeners  = []string{
		"what", "how", "why", "when", "where", "who", "which", "whose",
		"can", "could", "would", "should", "is", "are", "do", "does", "did",
		"explain", "describe", "tell me", "compare", "define",
		"tại sao", "làm sao", "làm thế nào", "là gì", "thế nào", "hãy", "giải thích",
	}
)

// DirectPath sends raw audio plus instructions to an audio-capable model and
// gets the question and answer back in one response.
type DirectPath struct {
	provider assistant.Provider
	logger   *Logger.Logger
}

func NewDirectPath(provider assistant.Provider, logger *Logger.Logger) *DirectPath {
	return &DirectPath{provider: provider, logger: logger.With("component", "direct")}
}

func (d *DirectPath) ProcessAudioDirect(
	ctx context.Context,
	audioFile string,
	lang types.Language,
	topicContext, customContext, modelOverride string,
) (types.DirectResult, error) {
	audio, err := os.ReadFile(audioFile)
	if err != nil {
		return types.DirectResult{}, fmt.Errorf("read audio: %w", err)
	}

	p := buildDirectPrompt(lang, topicContext, customContext, modelOverride)
	p.Audio = audio
	p.AudioMIME = assistant.AudioMIME(filepath.Base(audioFile))

	raw, err := d.provider.GenerateFromAudio(ctx, p)
	if err != nil {
		return types.DirectResult{}, utils.Normalize("Direct processing failed", err)
	}

	transcript := ExtractQuestion(raw)
	if transcript == UnextractedQuestion {
		d.logger.Infof("no question found in direct response (%d bytes)", len(raw))
	}
	return types.DirectResult{Transcript: transcript, Answer: raw}, nil
}

// ExtractQuestion guesses the spoken question from a model response. It is
// best effort and falls back to UnextractedQuestion.
func ExtractQuestion(response string) string {
	lines := strings.Split(response, "\n")
	for _, line := range lines {
		if m := labelledQuestion.FindStringSubmatch(strings.TrimSpace(line)); m != nil && m[1] != "" {
			return m[1]
		}
	}

	for _, line := range lines {
		line = strings.TrimSpace(strings.TrimLeft(line, "#*> "))
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) <= maxQuestionRunes && looksLikeQuestion(line) {
			return line
		}
		break
	}
	return UnextractedQuestion
}

func looksLikeQuestion(line string) bool {
	if strings.HasSuffix(line, "?") {
		return true
	}
	lower := strings.ToLower(line)
	for _, w := range questionOpeners {
		if strings.HasPrefix(lower, w+" ") {
			return true
		}
	}
	return false
}
