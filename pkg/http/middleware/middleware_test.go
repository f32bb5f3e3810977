package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	applogger "FinSignal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	route, status string
	failed        bool
}

type recordingObserver struct{ samples []sample }

func (o *recordingObserver) RecordHTTP(route, status string, _ float64, failed bool) {
	o.samples = append(o.samples, sample{route, status, failed})
}

func newEcho(obs Observer) *echo.Echo {
	l := applogger.NewNop()
	e := echo.New()
	e.Use(Recover(l))
	e.Use(Metrics(obs, l, 0))
	e.Use(RequestLogging(l))
	e.GET("/ok/:id", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/boom", func(c echo.Context) error { panic("boom") })
	e.GET("/fail", func(c echo.Context) error { return errors.New("fail") })
	return e
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	obs := &recordingObserver{}
	e := newEcho(obs)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok/42", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, obs.samples, 1)
	assert.Equal(t, sample{route: "/ok/:id", status: "200"}, obs.samples[0])
}

func TestMetricsCountsHandlerErrors(t *testing.T) {
	obs := &recordingObserver{}
	e := newEcho(obs)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, obs.samples, 1)
	assert.True(t, obs.samples[0].failed)
}

func TestRecoverReturns500(t *testing.T) {
	e := newEcho(nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal Server Error")
}
