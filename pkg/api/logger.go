package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// NewLogger returns the request logging middleware. Level follows the
// response code so alerting can key off warn/error rates alone.
func NewLogger() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		startTime := time.Now()
		err = c.Next()

		msg := "HTTP Request"
		if err != nil {
			msg = err.Error()
		}

		code := c.Response().StatusCode()

		requestLogger := log.With().
			Int("status", code).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Dur("latency", time.Since(startTime)).
			Logger()

		switch {
		case code >= fiber.StatusInternalServerError:
			requestLogger.Error().Msg(msg)
		case code >= fiber.StatusBadRequest:
			requestLogger.Warn().Msg(msg)
		default:
			requestLogger.Info().Msg(msg)
		}

		return nil
	}
}
