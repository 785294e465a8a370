package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"todo-back/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware echoes the caller's X-Request-ID, or a fresh uuid, and
// stores it on the user context so service logs carry it.
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.SetUserContext(logger.ContextWithRequestID(c.UserContext(), id))
		return c.Next()
	}
}
