package answer

import (
	"fmt"
	"strings"

	"github.com/xpanvictor/voxqa/internal/constants/prompts"
	"github.com/xpanvictor/voxqa/internal/types"
	"github.com/xpanvictor/voxqa/pkg/assistant"
)

// BuildPrompt is deterministic: the same question always yields the same prompt.
func BuildPrompt(q types.Question) assistant.Prompt {
	var sections []string
	if q.PreviousQuestion != "" {
		sections = append(sections, fmt.Sprintf(prompts.FOLLOW_UP_PROMPT.GetCurrentPrompt().Content, q.PreviousQuestion))
	}
	sections = append(sections, prompts.TopicFragment(q.TopicContext))
	if q.Language == types.LangVietnamese {
		sections = append(sections, prompts.VIETNAMESE_PROMPT.GetCurrentPrompt().Content)
	}
	sections = append(sections, "Question: "+q.Text)
	if q.CustomContext != "" {
		sections = append(sections, q.CustomContext)
	}

	return assistant.Prompt{
		System: prompts.DEFAULT_PROMPT.GetCurrentPrompt().Content,
		User:   strings.Join(sections, "\n\n"),
		Model:  q.ModelOverride,
	}
}

func buildDirectPrompt(lang types.Language, topic, custom, model string) assistant.Prompt {
	sections := []string{
		prompts.DIRECT_AUDIO_PROMPT.GetCurrentPrompt().Content,
		prompts.TopicFragment(topic),
	}
	if lang == types.LangVietnamese {
		sections = append(sections, prompts.VIETNAMESE_PROMPT.GetCurrentPrompt().Content)
	}
	if custom != "" {
		sections = append(sections, custom)
	}
	return assistant.Prompt{
		System: prompts.DEFAULT_PROMPT.GetCurrentPrompt().Content,
		User:   strings.Join(sections, "\n\n"),
		Model:  model,
	}
}
