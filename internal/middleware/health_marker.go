package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Redis keys for traffic stats, shared with the health service and handlers.
const (
	KeyReqTotal  = "health:global:req_total"
	KeyReqErrors = "health:global:req_errors"
	KeyResTime   = "health:global:res_time_total"
	KeyResCount  = "health:global:res_count"
	KeyStartTime = "health:global:start_time"
	KeyLastReq   = "health:global:last_request"
	KeyErrorLog  = "health:global:error_log"
)

// ErrorLogSize is how many 5xx entries the error log keeps.
const ErrorLogSize = 50

// HealthKeys lists every key the marker writes.
var HealthKeys = []string{KeyReqTotal, KeyReqErrors, KeyResTime, KeyResCount, KeyStartTime, KeyLastReq, KeyErrorLog}

// ErrorLogEntry is one element of the 5xx error log.
type ErrorLogEntry struct {
	Time    time.Time `json:"time"`
	Method  string    `json:"method"`
	Path    string    `json:"path"`
	Status  int       `json:"status"`
	TraceID string    `json:"traceId,omitempty"`
	Message string    `json:"message"`
}

// HealthMarker records request stats in Redis (skip /, /health*, /metrics, favicon).
// A nil client disables it.
func HealthMarker(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if rdb == nil || path == "/" || strings.HasPrefix(path, "/health") ||
			strings.HasPrefix(path, "/metrics") || strings.HasPrefix(path, "/favicon") {
			return c.Next()
		}

		start := time.Now()
		lastReq := map[string]interface{}{
			"time":   start,
			"ip":     c.IP(),
			"path":   c.OriginalURL(),
			"method": c.Method(),
		}
		b, _ := json.Marshal(lastReq)
		ctx := context.Background()
		_ = rdb.Set(ctx, KeyLastReq, b, 0).Err()
		_ = rdb.Incr(ctx, KeyReqTotal).Err()

		err := c.Next()

		ms := time.Since(start).Milliseconds()
		_ = rdb.Incr(ctx, KeyResCount).Err()
		_ = rdb.IncrByFloat(ctx, KeyResTime, float64(ms)).Err()

		status := c.Response().StatusCode()
		if err != nil {
			status = errorStatus(err)
		}
		if status >= fiber.StatusInternalServerError {
			_ = rdb.Incr(ctx, KeyReqErrors).Err()
			entry := ErrorLogEntry{
				Time:    time.Now().UTC(),
				Method:  c.Method(),
				Path:    c.OriginalURL(),
				Status:  status,
				TraceID: GetTraceID(c),
				Message: errorMessage(c, err),
			}
			if eb, mErr := json.Marshal(entry); mErr == nil {
				pipe := rdb.TxPipeline()
				pipe.LPush(ctx, KeyErrorLog, eb)
				pipe.LTrim(ctx, KeyErrorLog, 0, ErrorLogSize-1)
				_, _ = pipe.Exec(ctx)
			}
		}
		return err
	}
}

func errorMessage(c *fiber.Ctx, err error) string {
	if err != nil {
		return err.Error()
	}
	if msg, ok := c.Locals(errorLocal).(string); ok && msg != "" {
		return msg
	}
	return "Internal Server Error"
}

const errorLocal = "internal_error"

// RecordError attaches the real cause of a generic 500 to the request so the error log can show it.
func RecordError(c *fiber.Ctx, err error) {
	if err != nil {
		c.Locals(errorLocal, err.Error())
	}
}
