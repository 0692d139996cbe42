package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xpanvictor/voxqa/internal/types"
)

func TestTopicFragment(t *testing.T) {
	assert.Equal(t, topicFragments["golang"], TopicFragment(" GoLang "))
	assert.Equal(t, topicFragments[DefaultTopic], TopicFragment("underwater-basket-weaving"))
	assert.Equal(t, topicFragments[DefaultTopic], TopicFragment(""))
}

func TestLocalizedMessages(t *testing.T) {
	assert.Contains(t, EmptyTranscriptApology(types.LangEnglish), "Sorry")
	assert.NotEqual(t, EmptyTranscriptApology(types.LangEnglish), EmptyTranscriptApology(types.LangVietnamese))
	assert.Equal(t, EmptyTranscriptApology(types.LangEnglish), EmptyTranscriptApology("fr"))
	assert.Equal(t, "Processing cancelled", CancelledMessage(types.LangEnglish))
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, "Transcription failed", FailureMessage(types.LangEnglish, FailureTranscription))
	assert.Equal(t, "Xử lý thất bại", FailureMessage(types.LangVietnamese, FailureInternal))
	assert.Equal(t, "Failed to generate answer", FailureMessage("fr", FailureGeneration))
	assert.Equal(t, FailureMessage(types.LangVietnamese, FailureInternal), FailureMessage(types.LangVietnamese, "bogus"))
	for stage := range failureMsg {
		assert.NotEqual(t, FailureMessage(types.LangEnglish, stage), FailureMessage(types.LangVietnamese, stage), stage)
	}
}
