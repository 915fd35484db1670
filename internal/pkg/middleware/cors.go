package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/piresc/payments/internal/pkg/models"
)

var (
	corsAllowMethods = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ",")
	corsAllowHeaders = strings.Join([]string{echo.HeaderContentType, echo.HeaderXRequestID, APIKeyHeader}, ",")
)

// CORSMiddleware writes the CORS headers on every response, errors included,
// and answers preflight requests directly.
func CORSMiddleware(config models.CORSConfig) echo.MiddlewareFunc {
	origin := config.AllowOrigin
	if origin == "" {
		origin = "*"
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, origin)
			h.Set(echo.HeaderAccessControlAllowCredentials, strconv.FormatBool(config.AllowCredentials))

			if c.Request().Method == http.MethodOptions {
				h.Set(echo.HeaderAccessControlAllowMethods, corsAllowMethods)
				h.Set(echo.HeaderAccessControlAllowHeaders, corsAllowHeaders)
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}
