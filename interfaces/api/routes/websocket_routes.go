package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	wsmanager "todo-back/infrastructure/websocket"
	websocketHandler "todo-back/interfaces/api/websocket"
)

func SetupWebSocketRoutes(app *fiber.App, hub *wsmanager.Manager) {
	wsHandler := websocketHandler.NewWebSocketHandler(hub)

	app.Use("/ws", wsHandler.WebSocketUpgrade)
	app.Get("/ws/tarefas", websocket.New(wsHandler.HandleWebSocket))
}
