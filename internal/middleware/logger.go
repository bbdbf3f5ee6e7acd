package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// loggerContextKey is the echo context key for the request-scoped logger
const loggerContextKey = "logger"

// RequestLogger logs every request once it completes and injects a
// request-scoped logger (request_id, method, path) into the context.
// Place after RequestID in the middleware chain.
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			logger := base.With().
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Str("request_id", GetRequestID(c)).
				Logger()
			c.Set(loggerContextKey, logger)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			event := logger.Info()
			status := c.Response().Status
			if status >= 500 {
				event = logger.Error()
			} else if status >= 400 {
				event = logger.Warn()
			}

			event.
				Int("status", status).
				Dur("duration", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")

			return err
		}
	}
}

// GetLogger retrieves the request-scoped logger from the echo context.
// Falls back to the provided logger if none is set.
func GetLogger(c echo.Context, fallback zerolog.Logger) zerolog.Logger {
	if logger, ok := c.Get(loggerContextKey).(zerolog.Logger); ok {
		return logger
	}
	return fallback
}
