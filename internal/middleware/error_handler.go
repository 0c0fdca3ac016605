package middleware

import (
	"errors"

	"investportal-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the global Fiber error handler. *fiber.Error keeps its code and message;
// anything else is logged and answered with the generic 500 body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return response.Error(c, fe.Message, fe.Code)
	}
	Logger(c).Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("unhandled error")
	return response.InternalError(c)
}

// errorStatus is the status ErrorHandler will answer err with. Middleware sees handler
// errors before the ErrorHandler has written the response.
func errorStatus(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
