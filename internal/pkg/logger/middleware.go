package logger

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// EchoMiddleware logs every request handled by echo
func EchoMiddleware(log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			path := c.Request().URL.Path
			if raw := c.Request().URL.RawQuery; raw != "" {
				path = path + "?" + raw
			}

			err := next(c)
			if err != nil {
				// let echo write the response so the logged status is the real one
				c.Error(err)
			}

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			LogHTTPRequest(log, c.Request().Method, path, c.RealIP(), requestID,
				c.Response().Status, time.Since(start), err)

			return nil
		}
	}
}
