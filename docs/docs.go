// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with `swag init -g cmd/api/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/audio": {
            "post": {
                "description": "Store the clip and start transcription (or the direct path) in the background. Progress is pushed over /ws.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Audio"],
                "summary": "Upload audio for answering",
                "parameters": [
                    {"type": "file", "description": "Recorded audio clip", "name": "audio", "in": "formData", "required": true},
                    {"type": "string", "default": "en", "description": "en or vi", "name": "language", "in": "formData"},
                    {"type": "string", "description": "Interview topic", "name": "topicContext", "in": "formData"},
                    {"type": "string", "description": "Extra context appended to the prompt", "name": "customContext", "in": "formData"},
                    {"type": "boolean", "description": "Treat as follow-up to the last question", "name": "isFollowUp", "in": "formData"},
                    {"type": "boolean", "description": "Stream the answer in chunks", "name": "useStreaming", "in": "formData"},
                    {"type": "string", "description": "Answer model name", "name": "modelOverride", "in": "formData"},
                    {"type": "string", "default": "transcribe", "description": "transcribe or direct", "name": "mode", "in": "formData"}
                ],
                "responses": {
                    "202": {"description": "Processing started", "schema": {"$ref": "#/definitions/handlers.AcceptedResponse"}},
                    "400": {"description": "Invalid request data", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "A task is already running", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "413": {"description": "Upload too large", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/audio/retry": {
            "post": {
                "description": "Reprocess the last uploaded file, continuing the transcription model rotation",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Audio"],
                "summary": "Retry transcription of the last clip",
                "parameters": [
                    {"description": "Task options", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/handlers.ReprocessRequest"}}
                ],
                "responses": {
                    "202": {"description": "Processing started", "schema": {"$ref": "#/definitions/handlers.AcceptedResponse"}},
                    "400": {"description": "Invalid request data", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "No previously processed file", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "A task is already running", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/audio/direct": {
            "post": {
                "description": "Skip speech-to-text and send the last uploaded file straight to the generative model",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Audio"],
                "summary": "Answer the last clip directly from audio",
                "parameters": [
                    {"description": "Task options", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/handlers.ReprocessRequest"}}
                ],
                "responses": {
                    "202": {"description": "Processing started", "schema": {"$ref": "#/definitions/handlers.AcceptedResponse"}},
                    "400": {"description": "Invalid request data", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "No previously processed file", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "A task is already running", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/cancel": {
            "post": {
                "description": "Flag the active task for cancellation. Repeated calls are harmless.",
                "produces": ["application/json"],
                "tags": ["Audio"],
                "summary": "Cancel processing",
                "responses": {
                    "200": {"description": "Cancel recorded", "schema": {"$ref": "#/definitions/handlers.CancelResponse"}}
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Audio"],
                "summary": "Session status",
                "responses": {
                    "200": {"description": "Session status", "schema": {"$ref": "#/definitions/types.Status"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.AcceptedResponse": {
            "type": "object",
            "properties": {
                "audioFile": {"type": "string", "example": "uploads/recording-5b0c3c7e.webm"},
                "message": {"type": "string", "example": "Processing started"},
                "taskId": {"type": "string", "example": "5b0c3c7e-2f7a-4d55-9a38-6f5c7f0e2a11"}
            }
        },
        "handlers.CancelResponse": {
            "type": "object",
            "properties": {
                "cancelled": {"type": "boolean", "example": true},
                "message": {"type": "string", "example": "Cancel requested"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "details": {"type": "string", "example": "Validation error details"},
                "error": {"type": "string", "example": "Something went wrong"}
            }
        },
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"}
            }
        },
        "handlers.ReprocessRequest": {
            "type": "object",
            "properties": {
                "customContext": {"type": "string"},
                "isFollowUp": {"type": "boolean"},
                "language": {"type": "string", "example": "en"},
                "modelOverride": {"type": "string"},
                "topicContext": {"type": "string", "example": "frontend"},
                "useStreaming": {"type": "boolean"}
            }
        },
        "types.Status": {
            "type": "object",
            "properties": {
                "currentFile": {"type": "string"},
                "hasLastQuestion": {"type": "boolean"},
                "isRecording": {"type": "boolean"},
                "lastProcessedFile": {"type": "string"},
                "lastQuestionPreview": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "VoxQA API",
	Description:      "Upload interview audio, get a transcript and an AI answer pushed over WebSocket.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
