package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// RequestIDKey is where the requestid middleware stores the id in Locals
const RequestIDKey = "requestid"

// WithRequest returns a log entry carrying the request id, method and path
func WithRequest(log *logrus.Logger, c *fiber.Ctx) *logrus.Entry {
	entry := log.WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	})

	requestID, _ := c.Locals(RequestIDKey).(string)
	if requestID == "" {
		requestID = c.GetRespHeader(fiber.HeaderXRequestID)
	}
	if requestID != "" {
		entry = entry.WithField("request_id", requestID)
	}
	return entry
}

// RequestLogger logs one line per request. 5xx responses log at error
// level, 4xx at warn, everything else at info.
func RequestLogger(log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()

		// Let the app error handler set the final status first
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				c.Status(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		entry := WithRequest(log, c).WithFields(logrus.Fields{
			"status":  status,
			"latency": time.Since(start).String(),
			"ip":      c.IP(),
		})

		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("Request failed")
		case status >= fiber.StatusBadRequest:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
		return nil
	}
}
