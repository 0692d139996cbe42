package websocket

import (
	"time"

	"github.com/xpanvictor/voxqa/internal/types"
)

// MessageType defines the type of WebSocket control message
type MessageType string

const (
	// inbound
	MessageTypeCancel MessageType = "cancel"
	MessageTypeStatus MessageType = "status"
	MessageTypePing   MessageType = "ping"

	// outbound
	MessageTypeConnected MessageType = "connected"
	MessageTypeCancelAck MessageType = "cancelAck"
	MessageTypePong      MessageType = "pong"
	MessageTypeError     MessageType = "error"
)

// InboundMessage is what clients send. Only Type is read.
type InboundMessage struct {
	Type MessageType `json:"type"`
}

// WSMessage is a control reply. Task events go out as bare envelopes.
type WSMessage struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ConnectedMessage greets a new client with its endpoint id and the
// current session state.
type ConnectedMessage struct {
	EndpointID string       `json:"endpointId"`
	Status     types.Status `json:"status"`
}

type CancelAckMessage struct {
	Cancelled bool `json:"cancelled"`
}

// ErrorMessage contains error information
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
