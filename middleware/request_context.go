// middleware/request_context.go
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	RequestIDContextKey contextKey = "requestID"
	RequestIDHeader                = "X-Request-ID"
)

// RequestContextMiddleware tags every request with an id (reusing the caller's when
// present), hands a logger carrying that id to the handlers through the user context,
// and writes one access log line once the handler chain returns.
func RequestContextMiddleware(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals(string(RequestIDContextKey), requestID)
		c.Set(RequestIDHeader, requestID)

		reqLogger := logger.With().Str("request_id", requestID).Logger()
		c.SetUserContext(reqLogger.WithContext(c.UserContext()))

		err := c.Next()
		if err != nil {
			// let the app error handler pick the status before we log it
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		event := reqLogger.Info()
		if status >= fiber.StatusInternalServerError {
			event = reqLogger.Error()
		} else if status >= fiber.StatusBadRequest {
			event = reqLogger.Warn()
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("[HTTP] request handled")

		return nil
	}
}

// RequestID returns the id assigned by RequestContextMiddleware.
func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(string(RequestIDContextKey)).(string)
	return id
}
