package prompts

import (
	"strings"

	"github.com/xpanvictor/voxqa/internal/types"
)

const DefaultTopic = "frontend"

// topicFragments keys are lower case topic contexts sent by clients.
var topicFragments = map[string]string{
	"frontend":   "Focus on frontend development: HTML, CSS, JavaScript, TypeScript, browser APIs and UI frameworks.",
	"general":    "Answer as a knowledgeable generalist. Prefer plain explanations over jargon.",
	"interview":  "The user is in a technical interview. Give an answer they could say out loud, structured and confident.",
	"react":      "Focus on React: hooks, rendering behaviour, state management and performance.",
	"vue":        "Focus on Vue.js: the reactivity system, composition API and single file components.",
	"angular":    "Focus on Angular: modules, dependency injection, RxJS and change detection.",
	"javascript": "Focus on JavaScript language semantics: closures, the event loop, prototypes and async code.",
	"typescript": "Focus on TypeScript: the type system, generics, narrowing and compiler options.",
	"nodejs":     "Focus on Node.js: the runtime, streams, the module system and backend patterns.",
	"backend":    "Focus on backend engineering: APIs, databases, caching, queues and scalability.",
	"golang":     "Focus on Go: goroutines, channels, interfaces, error handling and the standard library.",
	"python":     "Focus on Python: idioms, the data model, typing and common libraries.",
	"java":       "Focus on Java: the JVM, collections, concurrency and Spring.",
	"devops":     "Focus on DevOps: CI/CD, containers, Kubernetes, observability and infrastructure as code.",
	"database":   "Focus on databases: SQL, indexing, transactions, normalization and query tuning.",
	"system":     "Focus on system design: trade-offs, scaling, consistency, availability and capacity estimates.",
	"behavioral": "The question is behavioural. Answer with the STAR structure: situation, task, action, result.",
}

// TopicFragment returns the instruction for a topic, falling back to frontend.
func TopicFragment(topic string) string {
	if f, ok := topicFragments[normalizeTopic(topic)]; ok {
		return f
	}
	return topicFragments[DefaultTopic]
}

func normalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}

var (
	emptyTranscriptMsg = map[types.Language]string{
		types.LangEnglish:    "Sorry, I couldn't catch what you said. Please try recording again.",
		types.LangVietnamese: "Xin lỗi, tôi không nghe rõ bạn nói gì. Vui lòng thử ghi âm lại.",
	}
	cancelledMsg = map[types.Language]string{
		types.LangEnglish:    "Processing cancelled",
		types.LangVietnamese: "Đã hủy xử lý",
	}
)

// EmptyTranscriptApology is the canned answer for audio with no speech.
func EmptyTranscriptApology(lang types.Language) string {
	if m, ok := emptyTranscriptMsg[lang]; ok {
		return m
	}
	return emptyTranscriptMsg[types.LangEnglish]
}

func CancelledMessage(lang types.Language) string {
	if m, ok := cancelledMsg[lang]; ok {
		return m
	}
	return cancelledMsg[types.LangEnglish]
}

// FailureStage names the step a task failed in.
type FailureStage string

const (
	FailureTranscription FailureStage = "transcription"
	FailureGeneration    FailureStage = "generation"
	FailureDirect        FailureStage = "direct"
	FailureInternal      FailureStage = "internal"
)

var failureMsg = map[FailureStage]map[types.Language]string{
	FailureTranscription: {
		types.LangEnglish:    "Transcription failed",
		types.LangVietnamese: "Chuyển giọng nói thành văn bản thất bại",
	},
	FailureGeneration: {
		types.LangEnglish:    "Failed to generate answer",
		types.LangVietnamese: "Không thể tạo câu trả lời",
	},
	FailureDirect: {
		types.LangEnglish:    "Direct processing failed",
		types.LangVietnamese: "Xử lý âm thanh trực tiếp thất bại",
	},
	FailureInternal: {
		types.LangEnglish:    "Processing failed",
		types.LangVietnamese: "Xử lý thất bại",
	},
}

// FailureMessage is the user-facing prefix for an error event.
func FailureMessage(lang types.Language, stage FailureStage) string {
	msgs, ok := failureMsg[stage]
	if !ok {
		msgs = failureMsg[FailureInternal]
	}
	if m, ok := msgs[lang]; ok {
		return m
	}
	return msgs[types.LangEnglish]
}
