package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/xpanvictor/voxqa/internal/config"
	"github.com/xpanvictor/voxqa/internal/types"
	"github.com/xpanvictor/voxqa/pkg/Logger"
	"github.com/xpanvictor/voxqa/pkg/io/device"
	wsdevice "github.com/xpanvictor/voxqa/pkg/io/device/websocket"
	"github.com/xpanvictor/voxqa/pkg/io/registry"
)

// Controller is what a websocket client may ask of the running task.
type Controller interface {
	RequestCancel() bool
	Status() types.Status
}

// WebSocketHandler handles WebSocket connections and routes
type WebSocketHandler struct {
	logger            *Logger.Logger
	controller        Controller
	connectionManager *ConnectionManager
	upgrader          websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	logger *Logger.Logger,
	controller Controller,
	reg registry.Registry,
	sessionTimeout time.Duration,
	allowedOrigins []string,
) *WebSocketHandler {
	return &WebSocketHandler{
		logger:            logger,
		controller:        controller,
		connectionManager: NewConnectionManager(reg, sessionTimeout, logger),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// non-browser clients send no origin
				return origin == "" || config.OriginAllowed(allowedOrigins, origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers WebSocket routes
func (h *WebSocketHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/ws", h.HandleWebSocket)
	router.GET("/ws/stats", h.HandleStats)
}

// HandleWebSocket upgrades the connection and registers it as an event sink
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	ep := wsdevice.New(conn, device.Capabilities{
		EventSink: true,
		Control:   true,
	})
	if err := h.connectionManager.RegisterConnection(ep); err != nil {
		h.logger.Errorf("Failed to register endpoint: %v", err)
		_ = conn.Close()
		return
	}
	defer h.connectionManager.UnregisterConnection(ep)

	conn.SetPongHandler(func(string) error {
		ep.Touch()
		return nil
	})

	if err := h.send(ep, MessageTypeConnected, ConnectedMessage{
		EndpointID: ep.ID().String(),
		Status:     h.controller.Status(),
	}); err != nil {
		h.logger.Warnf("greeting endpoint %s failed: %v", ep.ID(), err)
		return
	}

	h.handleConnection(conn, ep)
}

// HandleStats provides connection statistics
func (h *WebSocketHandler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   h.connectionManager.GetStats(),
	})
}

// handleConnection reads control messages until the socket closes
func (h *WebSocketHandler) handleConnection(conn *websocket.Conn, ep wsdevice.Endpoint) {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && ep.IsAlive() {
				h.logger.Errorf("WebSocket read error: %v", err)
			} else {
				h.logger.Infof("WebSocket connection closed for endpoint %s", ep.ID())
			}
			return
		}

		ep.Touch()
		if messageType != websocket.TextMessage {
			continue
		}
		h.handleTextMessage(ep, data)
	}
}

func (h *WebSocketHandler) handleTextMessage(ep wsdevice.Endpoint, data []byte) {
	var msg InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.logger.Debugf("Failed to unmarshal WebSocket message: %v", err)
		h.sendError(ep, "INVALID_MESSAGE", "Invalid message format")
		return
	}

	switch msg.Type {
	case MessageTypeCancel:
		cancelled := h.controller.RequestCancel()
		h.send(ep, MessageTypeCancelAck, CancelAckMessage{Cancelled: cancelled})

	case MessageTypeStatus:
		h.send(ep, MessageTypeStatus, h.controller.Status())

	case MessageTypePing:
		h.send(ep, MessageTypePong, nil)

	default:
		h.logger.Warnf("Unknown message type: %s", msg.Type)
		h.sendError(ep, "UNKNOWN_MESSAGE_TYPE", fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

func (h *WebSocketHandler) send(ep wsdevice.Endpoint, t MessageType, data interface{}) error {
	err := ep.WriteJSON(WSMessage{
		Type:      t,
		Data:      data,
		Timestamp: time.Now(),
	})
	if err != nil {
		h.logger.Debugf("write %s to %s failed: %v", t, ep.ID(), err)
	}
	return err
}

func (h *WebSocketHandler) sendError(ep wsdevice.Endpoint, code, message string) {
	h.send(ep, MessageTypeError, ErrorMessage{Code: code, Message: message})
}

// Close shuts down the WebSocket handler
func (h *WebSocketHandler) Close() error {
	return h.connectionManager.Close()
}
