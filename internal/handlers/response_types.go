package handlers

import "github.com/xpanvictor/voxqa/internal/types"

// Response wrapper types for Swagger documentation

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Something went wrong"`
	Details string `json:"details,omitempty" example:"Validation error details"`
}

// AcceptedResponse is returned when a task starts
type AcceptedResponse struct {
	Message   string `json:"message" example:"Processing started"`
	TaskID    string `json:"taskId" example:"5b0c3c7e-2f7a-4d55-9a38-6f5c7f0e2a11"`
	AudioFile string `json:"audioFile" example:"uploads/recording-5b0c3c7e.webm"`
}

// CancelResponse reports whether this call raised the cancel flag
type CancelResponse struct {
	Message   string `json:"message" example:"Cancel requested"`
	Cancelled bool   `json:"cancelled" example:"true"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// TaskForm holds the multipart options sent with an upload
type TaskForm struct {
	Language      string `form:"language" example:"en"`
	TopicContext  string `form:"topicContext" example:"frontend"`
	CustomContext string `form:"customContext"`
	IsFollowUp    bool   `form:"isFollowUp"`
	UseStreaming  bool   `form:"useStreaming"`
	ModelOverride string `form:"modelOverride"`
	Mode          string `form:"mode" example:"transcribe"`
}

func (f TaskForm) toRequest() types.TaskRequest {
	return types.TaskRequest{
		Language:      types.Language(f.Language),
		TopicContext:  f.TopicContext,
		CustomContext: f.CustomContext,
		IsFollowUp:    f.IsFollowUp,
		UseStreaming:  f.UseStreaming,
		ModelOverride: f.ModelOverride,
		Mode:          types.Mode(f.Mode),
	}
}

// ReprocessRequest carries options for retry and direct requests
type ReprocessRequest struct {
	Language      string `json:"language" example:"en"`
	TopicContext  string `json:"topicContext" example:"frontend"`
	CustomContext string `json:"customContext"`
	IsFollowUp    bool   `json:"isFollowUp"`
	UseStreaming  bool   `json:"useStreaming"`
	ModelOverride string `json:"modelOverride"`
}

func (r ReprocessRequest) toRequest() types.TaskRequest {
	return types.TaskRequest{
		Language:      types.Language(r.Language),
		TopicContext:  r.TopicContext,
		CustomContext: r.CustomContext,
		IsFollowUp:    r.IsFollowUp,
		UseStreaming:  r.UseStreaming,
		ModelOverride: r.ModelOverride,
	}
}
