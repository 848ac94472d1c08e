package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cropprospector/backend/internal/service"
)

// statusClientClosedRequest is the nginx convention for a client that went away.
const statusClientClosedRequest = 499

// statusFor maps an error returned by a handler to its HTTP status and the
// message shown to the client.
func statusFor(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrBatchTooLarge):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, "Request cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusServiceUnavailable, "Request timed out"
	default:
		return fiber.StatusInternalServerError, "Internal Server Error"
	}
}

// ErrorHandler renders every error as {"error": true, "message": ...}
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, message := statusFor(err)
		if code == fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error":   true,
			"message": message,
		})
	}
}
