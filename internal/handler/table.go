package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservations/internal/model"
	"github.com/iliyamo/restaurant-reservations/internal/service"
)

// TableHandler serves /tables.
type TableHandler struct {
	svc *service.TableService
}

func NewTableHandler(svc *service.TableService) *TableHandler {
	return &TableHandler{svc: svc}
}

func (h *TableHandler) List(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list)
}

func (h *TableHandler) Create(c echo.Context) error {
	var in model.TableInput
	if err := bindData(c, &in); err != nil {
		return err
	}
	t, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, t)
}

// Seat handles PUT /tables/:table_id/seat.
func (h *TableHandler) Seat(c echo.Context) error {
	id, raw, ok := pathID(c, "table_id")
	if !ok {
		return service.TableNotFound(raw)
	}
	var in model.SeatInput
	if err := bindData(c, &in); err != nil {
		return err
	}
	seating, err := h.svc.Seat(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, seating)
}

// Finish handles DELETE /tables/:table_id/seat.
func (h *TableHandler) Finish(c echo.Context) error {
	id, raw, ok := pathID(c, "table_id")
	if !ok {
		return service.TableNotFound(raw)
	}
	seating, err := h.svc.Finish(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, seating)
}
