package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xpanvictor/voxqa/internal/domains/coordinator"
	"github.com/xpanvictor/voxqa/internal/types"
	"github.com/xpanvictor/voxqa/pkg/Logger"
)

// TaskCoordinator is the part of the coordinator the HTTP surface drives.
type TaskCoordinator interface {
	AcceptTask(req types.TaskRequest) (*coordinator.Task, error)
	RequestCancel() bool
	Status() types.Status
}

// TaskHandler handles audio task HTTP requests
type TaskHandler struct {
	coord     TaskCoordinator
	uploadDir string
	maxBytes  int64
	logger    *Logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(coord TaskCoordinator, uploadDir string, maxUploadMB int64, logger *Logger.Logger) *TaskHandler {
	return &TaskHandler{
		coord:     coord,
		uploadDir: uploadDir,
		maxBytes:  maxUploadMB << 20,
		logger:    logger,
	}
}

// RegisterRoutes registers task routes
func (h *TaskHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/audio", h.UploadAudio)
	router.POST("/audio/retry", h.RetryAudio)
	router.POST("/audio/direct", h.DirectAudio)
	router.POST("/cancel", h.Cancel)
	router.GET("/status", h.Status)
	router.GET("/health", h.Health)
}

// UploadAudio handles a recorded clip upload
// @Summary Upload audio for answering
// @Description Store the clip and start transcription (or the direct path) in the background. Progress is pushed over /ws.
// @Tags Audio
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Recorded audio clip"
// @Param language formData string false "en or vi" default(en)
// @Param topicContext formData string false "Interview topic"
// @Param customContext formData string false "Extra context appended to the prompt"
// @Param isFollowUp formData bool false "Treat as follow-up to the last question"
// @Param useStreaming formData bool false "Stream the answer in chunks"
// @Param modelOverride formData string false "Answer model name"
// @Param mode formData string false "transcribe or direct" default(transcribe)
// @Success 202 {object} AcceptedResponse "Processing started"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 409 {object} ErrorResponse "A task is already running"
// @Failure 413 {object} ErrorResponse "Upload too large"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /audio [post]
func (h *TaskHandler) UploadAudio(c *gin.Context) {
	var form TaskForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	file, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Audio file is required",
			Details: err.Error(),
		})
		return
	}
	if h.maxBytes > 0 && file.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "Upload too large",
			Details: fmt.Sprintf("%d bytes exceeds limit of %d", file.Size, h.maxBytes),
		})
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		h.logger.Errorf("create upload dir error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}
	dst := filepath.Join(h.uploadDir, uploadName(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		h.logger.Errorf("save upload error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to store upload"})
		return
	}

	req := form.toRequest()
	req.AudioFile = dst
	if !h.accept(c, req) {
		// rejected uploads are never referenced by the session
		if err := os.Remove(dst); err != nil {
			h.logger.Warnf("remove rejected upload %s: %v", dst, err)
		}
	}
}

// RetryAudio reprocesses the last uploaded clip
// @Summary Retry transcription of the last clip
// @Description Reprocess the last uploaded file, continuing the transcription model rotation
// @Tags Audio
// @Accept json
// @Produce json
// @Param request body ReprocessRequest false "Task options"
// @Success 202 {object} AcceptedResponse "Processing started"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 404 {object} ErrorResponse "No previously processed file"
// @Failure 409 {object} ErrorResponse "A task is already running"
// @Router /audio/retry [post]
func (h *TaskHandler) RetryAudio(c *gin.Context) {
	h.reprocess(c, types.ModeTranscribe)
}

// DirectAudio reprocesses the last uploaded clip through the audio-capable model
// @Summary Answer the last clip directly from audio
// @Description Skip speech-to-text and send the last uploaded file straight to the generative model
// @Tags Audio
// @Accept json
// @Produce json
// @Param request body ReprocessRequest false "Task options"
// @Success 202 {object} AcceptedResponse "Processing started"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 404 {object} ErrorResponse "No previously processed file"
// @Failure 409 {object} ErrorResponse "A task is already running"
// @Router /audio/direct [post]
func (h *TaskHandler) DirectAudio(c *gin.Context) {
	h.reprocess(c, types.ModeDirect)
}

// Cancel requests cancellation of the active task
// @Summary Cancel processing
// @Description Flag the active task for cancellation. Repeated calls are harmless.
// @Tags Audio
// @Produce json
// @Success 200 {object} CancelResponse "Cancel recorded"
// @Router /cancel [post]
func (h *TaskHandler) Cancel(c *gin.Context) {
	first := h.coord.RequestCancel()
	c.JSON(http.StatusOK, CancelResponse{
		Message:   "Cancel requested",
		Cancelled: first,
	})
}

// Status reports the session state
// @Summary Session status
// @Tags Audio
// @Produce json
// @Success 200 {object} types.Status "Session status"
// @Router /status [get]
func (h *TaskHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.coord.Status())
}

// Health is a liveness probe
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *TaskHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *TaskHandler) reprocess(c *gin.Context, mode types.Mode) {
	var body ReprocessRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid request data",
				Details: err.Error(),
			})
			return
		}
	}
	req := body.toRequest()
	req.Mode = mode
	req.Reprocess = true
	h.accept(c, req)
}

// accept reports whether the coordinator took the task.
func (h *TaskHandler) accept(c *gin.Context, req types.TaskRequest) bool {
	task, err := h.coord.AcceptTask(req)
	if err != nil {
		h.writeTaskError(c, err)
		return false
	}
	c.JSON(http.StatusAccepted, AcceptedResponse{
		Message:   "Processing started",
		TaskID:    task.ID,
		AudioFile: task.Request.AudioFile,
	})
	return true
}

func (h *TaskHandler) writeTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, coordinator.ErrTaskInFlight):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "A task is already running"})
	case errors.Is(err, coordinator.ErrNoLastFile):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No previously processed file"})
	case errors.Is(err, coordinator.ErrInvalidAudio):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid audio file", Details: err.Error()})
	case errors.Is(err, coordinator.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
	default:
		h.logger.Errorf("accept task error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// uploadName keeps the client's extension so providers can infer the codec.
func uploadName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" {
		ext = ".webm"
	}
	return "recording-" + uuid.NewString() + ext
}
