package middleware

import (
	"net/http"
	"strconv"
	"time"

	applogger "FinSignal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Observer receives one sample per served request.
type Observer interface {
	RecordHTTP(route, status string, seconds float64, failed bool)
}

// Metrics records request latency per route template and logs 5xx and slow requests.
func Metrics(obs Observer, l *applogger.Logger, slowThreshold time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := routeLabel(c)
			code := c.Response().Status
			status := strconv.Itoa(code)
			duration := time.Since(start)
			if obs != nil {
				obs.RecordHTTP(route, status, duration.Seconds(), code >= http.StatusInternalServerError)
			}

			switch {
			case code >= http.StatusInternalServerError:
				l.Error("http request failed",
					applogger.String("route", route),
					applogger.String("method", c.Request().Method),
					applogger.String("status", status),
					applogger.Duration("duration_ms", duration),
					applogger.Int64("bytes", c.Response().Size),
				)
			case slowThreshold > 0 && duration >= slowThreshold:
				l.Warn("http request slow",
					applogger.String("route", route),
					applogger.String("method", c.Request().Method),
					applogger.String("status", status),
					applogger.Duration("duration_ms", duration),
				)
			}
			return nil
		}
	}
}

// routeLabel prefers the registered route template to keep label cardinality low.
func routeLabel(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return "unmatched"
}
