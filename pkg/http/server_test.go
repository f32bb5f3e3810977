package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingRequest struct {
	Name  string `json:"name" validate:"required"`
	Limit int    `json:"limit" default:"10" validate:"gte=1,lte=100"`
}

type pingHandler struct{}

func (pingHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/ping", func(c echo.Context) error {
		var req pingRequest
		if errs := ReadAndValidateRequest(c, &req); errs != nil {
			return Invalid(c, errs)
		}
		if req.Name == "missing" {
			return Fail(c, NotFound("%s not found", req.Name))
		}
		return OK(c, req)
	})
}

func serve(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestServerValidationAndDefaults(t *testing.T) {
	s := NewServer(pingHandler{}, nil)

	rec := serve(t, s, http.MethodPost, "/ping", `{"name":"btc"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":200,"message":"OK","data":{"name":"btc","limit":10}}`, rec.Body.String())

	rec = serve(t, s, http.MethodPost, "/ping", `{"limit":500}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"name"`)
	assert.Contains(t, rec.Body.String(), "ERR_REQUIRED")

	rec = serve(t, s, http.MethodPost, "/ping", `{"name":"missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_NOT_FOUND")
}

func TestServerHealthAndMetrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	s := NewServer(nil, nil, WithMetrics("/metrics", metrics, nil))

	rec := serve(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, "# metrics", rec.Body.String())
}

func TestServerReadiness(t *testing.T) {
	var down error
	s := NewServer(nil, nil, WithReadiness("clickhouse", func(context.Context) error { return down }))

	rec := serve(t, s, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	down = errors.New("connection refused")
	rec = serve(t, s, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"clickhouse":"connection refused"`)
}
