package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/piresc/payments/internal/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(e *echo.Echo, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(RequestIDMiddleware())
	var seen string
	e.GET("/", func(c echo.Context) error {
		seen = GetRequestID(c)
		return c.NoContent(http.StatusOK)
	})

	t.Run("generates an id", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/", nil)
		id := rec.Header().Get(echo.HeaderXRequestID)
		assert.Len(t, id, 36)
		assert.Equal(t, id, seen)
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/", map[string]string{echo.HeaderXRequestID: "abc-123"})
		assert.Equal(t, "abc-123", rec.Header().Get(echo.HeaderXRequestID))
		assert.Equal(t, "abc-123", seen)
	})
}

func TestCORSMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(CORSMiddleware(models.CORSConfig{AllowOrigin: "*", AllowCredentials: true}))
	e.GET("/ok", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/fail", func(c echo.Context) error {
		return errors.New("boom")
	})

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"success response", http.MethodGet, "/ok", http.StatusOK},
		{"error response", http.MethodGet, "/fail", http.StatusInternalServerError},
		{"unknown route", http.MethodGet, "/nope", http.StatusNotFound},
		{"preflight", http.MethodOptions, "/ok", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, tt.method, tt.path, map[string]string{"Origin": "https://example.com"})

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
			assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
		})
	}
}

func TestCORSMiddleware_DefaultOrigin(t *testing.T) {
	e := echo.New()
	e.Use(CORSMiddleware(models.CORSConfig{}))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := serve(e, http.MethodGet, "/", nil)

	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "false", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
}

func TestAPIKeyMiddleware(t *testing.T) {
	newServer := func(key string) *echo.Echo {
		e := echo.New()
		e.Use(APIKeyMiddleware(models.APIKeyConfig{Key: key}))
		e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
		return e
	}

	t.Run("disabled when no key configured", func(t *testing.T) {
		rec := serve(newServer(""), http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing key", func(t *testing.T) {
		rec := serve(newServer("secret"), http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "API key is required")
	})

	t.Run("wrong key", func(t *testing.T) {
		rec := serve(newServer("secret"), http.MethodGet, "/", map[string]string{APIKeyHeader: "guess"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid API key")
	})

	t.Run("valid key", func(t *testing.T) {
		rec := serve(newServer("secret"), http.MethodGet, "/", map[string]string{APIKeyHeader: "secret"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestPanicRecoveryMiddleware(t *testing.T) {
	log, hook := test.NewNullLogger()
	e := echo.New()
	e.Use(RequestIDMiddleware())
	e.Use(PanicRecoveryMiddleware(log))
	e.GET("/panic", func(c echo.Context) error {
		panic("database handle is nil")
	})

	rec := serve(e, http.MethodGet, "/panic", map[string]string{echo.HeaderXRequestID: "req-9"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
	assert.NotContains(t, rec.Body.String(), "database handle")

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "database handle is nil", entry.Data["panic_value"])
	assert.Equal(t, "req-9", entry.Data["request_id"])
	assert.NotEmpty(t, entry.Data["stack_trace"])
}

func TestPanicRecoveryMiddleware_RequiresLogger(t *testing.T) {
	assert.Panics(t, func() {
		PanicRecoveryMiddleware(nil)
	})
}
