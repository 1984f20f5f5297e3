package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservations/internal/apperr"
)

// respond writes v wrapped in the {"data": ...} envelope.
func respond(c echo.Context, status int, v any) error {
	return c.JSON(status, echo.Map{"data": v})
}

// bindData decodes a {"data": {...}} request body into dst. A missing
// body or a missing data member leaves dst untouched so that the
// validation pipeline reports the missing fields.
func bindData[T any](c echo.Context, dst *T) error {
	body := struct {
		Data *T `json:"data"`
	}{Data: dst}
	if err := (&echo.DefaultBinder{}).BindBody(c, &body); err != nil {
		return bindError(err)
	}
	return nil
}

// numericFields must be positive numbers; a type mismatch on them gets
// the same message as a non-positive value.
var numericFields = map[string]bool{"people": true, "capacity": true}

func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if i := strings.LastIndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		switch {
		case numericFields[field]:
			return apperr.Validation("'%s' must be a number greater than 0.", field)
		case field == "reservation_id":
			return apperr.Validation("reservation_id must be a number.")
		case field == "data" || field == "":
			return apperr.Validation("'data' must be an object.")
		}
		return apperr.Validation("'%s' must be a string.", field)
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusUnsupportedMediaType {
		return apperr.Validation("Request body must be JSON.")
	}
	return apperr.Validation("Request body must be valid JSON.")
}

// pathID parses a positive integer path parameter. ok is false for
// anything else, including zero.
func pathID(c echo.Context, name string) (id uint64, raw string, ok bool) {
	raw = c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, raw, false
	}
	return id, raw, true
}
