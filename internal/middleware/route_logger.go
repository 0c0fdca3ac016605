package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RouteLogger writes one debug line when a request arrives and one info line with the final
// status and latency when it leaves. Errors still bubbling to the ErrorHandler are reported
// with the status they will be rendered with.
func RouteLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := Logger(c)
		start := time.Now()
		l.Debug().Str("method", c.Method()).Str("path", c.Path()).Msg("request started")

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = errorStatus(err)
		}
		ev := l.Info()
		if status >= fiber.StatusInternalServerError {
			ev = l.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request finished")
		return err
	}
}
