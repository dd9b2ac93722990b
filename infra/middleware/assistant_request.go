// Package middleware provides the HTTP middleware stack.
package middleware

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/priyankc/PersonalAssistantBackend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestID attaches a request ID to every request, honoring an inbound
// X-Request-ID header.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals("request_id", requestID)
		c.Set("X-Request-ID", requestID)
		return c.Next()
	}
}

// Recover converts panics into 500 responses instead of dropping the
// connection.
func Recover() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithField("stack", string(debug.Stack())).
					Error("Panic recovered: %v", r)
				err = fiber.NewError(fiber.StatusInternalServerError, "internal server error")
			}
		}()
		return c.Next()
	}
}

// RequestLogger logs one line per completed request.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		requestID, _ := c.Locals("request_id").(string)
		logger.WithFields(map[string]any{
			"request_id": requestID,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"duration":   fmt.Sprintf("%.1fms", float64(time.Since(start).Microseconds())/1000.0),
		}).Info("Request handled")

		return err
	}
}
