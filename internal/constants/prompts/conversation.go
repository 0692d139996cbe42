package prompts

var (
	DEFAULT_PROMPT = SYS_PROMPT{
		Intent:         "Identity",
		CurrentVersion: 0.2,
		Items: map[float32]PromptDefinition{
			0.2: {
				Version: 0.2,
				Content: `You are an interview and study assistant. The user asked a question out loud
and it was transcribed for you. Answer it directly, accurately and concisely.
Use short paragraphs, bullet points where they help, and code blocks for code.
Do not restate the question.`,
			},
		},
	}

	FOLLOW_UP_PROMPT = SYS_PROMPT{
		Intent:         "FollowUp",
		CurrentVersion: 0.1,
		Items: map[float32]PromptDefinition{
			0.1: {
				Version: 0.1,
				Content: `This is a follow-up to the previous question: "%s".
Answer the new question in that context.`,
			},
		},
	}

	VIETNAMESE_PROMPT = SYS_PROMPT{
		Intent:         "Language",
		CurrentVersion: 0.1,
		Items: map[float32]PromptDefinition{
			0.1: {
				Version: 0.1,
				Content: `Trả lời hoàn toàn bằng tiếng Việt. Keep technical terms and code in English.`,
			},
		},
	}

	DIRECT_AUDIO_PROMPT = SYS_PROMPT{
		Intent:         "DirectAudio",
		CurrentVersion: 0.1,
		Items: map[float32]PromptDefinition{
			0.1: {
				Version: 0.1,
				Content: `Listen to the attached audio. It contains a spoken question.
On the first line write the question exactly as "Question: <the question>".
Then, on the following lines, answer it.`,
			},
		},
	}
)
