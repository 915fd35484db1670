package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/piresc/payments/internal/utils"
	"github.com/sirupsen/logrus"
)

// PanicRecoveryMiddleware recovers from handler panics, logs them with a
// stack trace and answers with a generic 500.
func PanicRecoveryMiddleware(log logrus.FieldLogger) echo.MiddlewareFunc {
	if log == nil {
		panic("PanicRecoveryMiddleware requires a logger")
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					handlePanic(c, r, log)
					err = nil
				}
			}()

			return next(c)
		}
	}
}

func handlePanic(c echo.Context, r interface{}, log logrus.FieldLogger) {
	log.WithFields(logrus.Fields{
		"panic_value": fmt.Sprintf("%v", r),
		"panic_type":  fmt.Sprintf("%T", r),
		"stack_trace": string(debug.Stack()),
		"method":      c.Request().Method,
		"path":        c.Request().URL.Path,
		"client_ip":   c.RealIP(),
		"request_id":  GetRequestID(c),
		"component":   "panic_recovery",
	}).Error("Panic recovered during request processing")

	if !c.Response().Committed {
		if err := utils.InternalServerErrorResponse(c); err != nil {
			log.WithError(err).Error("Failed to write panic response")
		}
	}
}
