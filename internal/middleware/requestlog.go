package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservations/internal/logger"
	"github.com/iliyamo/restaurant-reservations/internal/metrics"
)

// RequestLogger binds a request scoped logger carrying the request id to
// the request context, then logs and measures each request once it is
// done. Handler errors are rendered here through the echo error handler
// so that the recorded status is the one the client saw.
//
// It must run after echo's RequestID middleware.
func RequestLogger(log *logger.Logger, m *metrics.HTTPMetrics) echo.MiddlewareFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ctx := log.WithRequestID(req.Context(), rid)
			c.SetRequest(req.WithContext(ctx))

			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			elapsed := time.Since(start)
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.Observe(req.Method, route, status, elapsed)

			ev := log.Zerolog(ctx).Info()
			if status >= http.StatusInternalServerError {
				ev = log.Zerolog(ctx).Error()
			}
			ev.Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("route", route).
				Int("status", status).
				Dur("elapsed", elapsed).
				Str("remote_ip", c.RealIP()).
				Str("user", currentUser(c)).
				Msg("request")
			return nil
		}
	}
}
