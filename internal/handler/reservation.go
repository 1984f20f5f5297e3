package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservations/internal/model"
	"github.com/iliyamo/restaurant-reservations/internal/service"
)

// ReservationHandler serves /reservations.
type ReservationHandler struct {
	svc *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

// List handles GET /reservations. mobile_number takes precedence over date;
// without either every reservation is returned.
func (h *ReservationHandler) List(c echo.Context) error {
	f := model.ReservationFilter{
		Date:         c.QueryParam("date"),
		MobileNumber: c.QueryParam("mobile_number"),
	}
	list, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list)
}

// Create handles POST /reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	var in model.ReservationInput
	if err := bindData(c, &in); err != nil {
		return err
	}
	res, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, res)
}

// Get handles GET /reservations/:reservation_id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, raw, ok := pathID(c, "reservation_id")
	if !ok {
		return service.ReservationNotFound(raw)
	}
	res, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// Update handles PUT /reservations/:reservation_id.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, raw, ok := pathID(c, "reservation_id")
	if !ok {
		return service.ReservationNotFound(raw)
	}
	var in model.ReservationInput
	if err := bindData(c, &in); err != nil {
		return err
	}
	res, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// UpdateStatus handles PUT /reservations/:reservation_id/status.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id, raw, ok := pathID(c, "reservation_id")
	if !ok {
		return service.ReservationNotFound(raw)
	}
	var in model.StatusInput
	if err := bindData(c, &in); err != nil {
		return err
	}
	res, err := h.svc.UpdateStatus(c.Request().Context(), id, in.Status)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// Seat handles POST /reservations/:reservation_id/seat, which marks the
// party seated without assigning a table.
func (h *ReservationHandler) Seat(c echo.Context) error {
	id, raw, ok := pathID(c, "reservation_id")
	if !ok {
		return service.ReservationNotFound(raw)
	}
	res, err := h.svc.Seat(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}
