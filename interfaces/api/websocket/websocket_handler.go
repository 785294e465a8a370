package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	wsmanager "todo-back/infrastructure/websocket"
	"todo-back/pkg/logger"
)

type WebSocketHandler struct {
	hub *wsmanager.Manager
}

func NewWebSocketHandler(hub *wsmanager.Manager) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

func (h *WebSocketHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleWebSocket keeps the connection registered until the client goes away.
func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	conn := wsmanager.NewLockedConn(c)
	id := h.hub.RegisterClient(conn)
	defer h.hub.UnregisterClient(id)

	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			logger.Debug("WebSocket read ended", "client_id", id, "error", err)
			return
		}
		wsmanager.HandleClientMessage(conn, message)
	}
}
