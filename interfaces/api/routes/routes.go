package routes

import (
	"github.com/gofiber/fiber/v2"

	"todo-back/infrastructure/websocket"
	"todo-back/interfaces/api/handlers"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, hub *websocket.Manager) {
	SetupHealthRoutes(app, h)

	api := app.Group("/api")
	SetupTaskRoutes(api, h)

	if hub != nil {
		SetupWebSocketRoutes(app, hub)
	}
}
