package middleware

import (
	"strconv"
	"time"

	"investportal-backend/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics counts requests by method/status and observes latency. /metrics itself is skipped.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status = errorStatus(err)
		}
		metrics.HTTPRequests.WithLabelValues(c.Method(), strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}
