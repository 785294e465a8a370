package routes

import (
	"github.com/gofiber/fiber/v2"

	"todo-back/interfaces/api/handlers"
)

func SetupTaskRoutes(api fiber.Router, h *handlers.Handlers) {
	tasks := api.Group("/Tarefa")
	tasks.Get("/", h.TaskHandler.ListTasks)
	tasks.Post("/", h.TaskHandler.CreateTask)
	// must stay ahead of /:id
	tasks.Put("/Ordenacao", h.TaskHandler.SaveOrdering)
	tasks.Get("/:id", h.TaskHandler.GetTask)
	tasks.Put("/:id", h.TaskHandler.UpdateTask)
	tasks.Delete("/:id", h.TaskHandler.DeleteTask)
}
