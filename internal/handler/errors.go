package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservations/internal/apperr"
	"github.com/iliyamo/restaurant-reservations/internal/logger"
)

// ErrorHandler renders every error returned by a handler or middleware as
// {"error": message}. Internal errors are logged with their cause and
// reach the client only as the generic message.
func ErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		req := c.Request()
		status, msg := http.StatusInternalServerError, ""

		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			status = he.Code
			switch status {
			case http.StatusNotFound:
				msg = "Path not found: " + req.URL.Path
			case http.StatusMethodNotAllowed:
				msg = req.Method + " not allowed for " + req.URL.Path
			default:
				if m, ok := he.Message.(string); ok {
					msg = m
				} else {
					msg = http.StatusText(status)
				}
			}
		default:
			status, msg = apperr.Public(err)
		}

		if status >= http.StatusInternalServerError {
			log.Error(req.Context(), "request failed", err)
		}

		if req.Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, echo.Map{"error": msg})
		}
		if err != nil {
			log.Warn(req.Context(), "write error response", err)
		}
	}
}
