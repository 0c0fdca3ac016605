// Package handlers holds what the HTTP handler packages share: domain error to status mapping.
package handlers

import (
	"errors"

	"investportal-backend/internal/domain"
	"investportal-backend/internal/middleware"
	"investportal-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

var statusTable = []struct {
	err  error
	code int
}{
	{domain.ErrInvalidRequestType, fiber.StatusBadRequest},
	{domain.ErrInvalidAmount, fiber.StatusBadRequest},
	{domain.ErrInvalidStatus, fiber.StatusBadRequest},
	{domain.ErrInvalidPrice, fiber.StatusBadRequest},
	{domain.ErrInvalidOverride, fiber.StatusBadRequest},
	{domain.ErrValueOutOfRange, fiber.StatusBadRequest},
	{domain.ErrRequestNotFound, fiber.StatusNotFound},
	{domain.ErrRequestNotFoundOrNotEditable, fiber.StatusNotFound},
	{domain.ErrInvestmentNotFound, fiber.StatusNotFound},
	{domain.ErrHoldingNotFound, fiber.StatusNotFound},
}

// StatusFor returns the HTTP status for a domain error, or 500 for anything unknown.
func StatusFor(err error) int {
	for _, e := range statusTable {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return fiber.StatusInternalServerError
}

// WriteError renders err as {"error": msg}. Unknown errors are logged with op and answered
// with the generic 500 message.
func WriteError(c *fiber.Ctx, op string, err error) error {
	code := StatusFor(err)
	if code == fiber.StatusInternalServerError {
		middleware.Logger(c).Error().Err(err).Str("op", op).Msg("request failed")
		middleware.RecordError(c, err)
		return response.InternalError(c)
	}
	return response.Error(c, err.Error(), code)
}

// ErrInvalidBody is returned for JSON that does not decode into the expected shape.
var ErrInvalidBody = errors.New("Invalid request body")

// BadRequest renders a 400 for boundary validation failures (malformed body, bad uuid).
func BadRequest(c *fiber.Ctx, msg string) error {
	return response.BadRequest(c, msg)
}
