package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"todo-back/pkg/logger"
	"todo-back/pkg/utils"
)

// ErrorHandler turns any error that escaped a handler into the error envelope.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := utils.ErrCodeInternalError
		message := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
			switch {
			case code == fiber.StatusNotFound:
				errCode = utils.ErrCodeNotFound
			case code >= 400 && code < 500:
				errCode = utils.ErrCodeBadRequest
			}
		}

		if code >= 500 {
			logger.ErrorContext(c.UserContext(), "Unhandled error", "path", c.Path(), "error", err)
		}

		return utils.ErrorResponse(c, code, errCode, message, nil)
	}
}
