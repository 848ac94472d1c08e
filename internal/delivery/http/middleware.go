package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cropprospector/backend/pkg/metrics"
)

// requestStatus is the status the client will see once the error handler runs.
func requestStatus(c *fiber.Ctx, err error) int {
	if err != nil {
		code, _ := statusFor(err)
		return code
	}
	return c.Response().StatusCode()
}

// AccessLog writes one zap line per request
func AccessLog(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		fields := []zap.Field{
			zap.Int("status", requestStatus(c, err)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Duration("latency", time.Since(start)),
		}
		if rid, ok := c.Locals("requestid").(string); ok {
			fields = append(fields, zap.String("request_id", rid))
		}
		log.Info("request", fields...)
		return err
	}
}

// unmatchedRoute labels requests that no route handled, keeping 404 scans
// from inflating label cardinality or posing as the root route.
const unmatchedRoute = "unmatched"

// Metrics records request count and latency by route pattern
func Metrics(m *metrics.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := requestStatus(c, err)
		route := c.Route().Path
		if status == fiber.StatusNotFound {
			route = unmatchedRoute
		}
		m.RecordHTTPRequest(route, c.Method(), status, time.Since(start))
		return err
	}
}
