package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	traceHeader = "X-Trace-Id"
	traceKey    = "trace_id"
	loggerKey   = "request_logger"
)

// Tracing tags every request with a trace id, echoed in X-Trace-Id. A well-formed inbound id
// is kept so callers can correlate across services. The id is also bound to a request-scoped
// logger, see Logger.
func Tracing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(traceHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		l := log.With().Str(traceKey, id).Logger()
		c.Locals(traceKey, id)
		c.Locals(loggerKey, &l)
		c.Set(traceHeader, id)
		return c.Next()
	}
}

// GetTraceID returns the request's trace id, or "" outside Tracing.
func GetTraceID(c *fiber.Ctx) string {
	id, _ := c.Locals(traceKey).(string)
	return id
}

// Logger returns the request-scoped logger, falling back to the global one.
func Logger(c *fiber.Ctx) *zerolog.Logger {
	if l, ok := c.Locals(loggerKey).(*zerolog.Logger); ok {
		return l
	}
	return &log.Logger
}
