package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservations/internal/handler"
)

// RegisterReservations mounts the reservation endpoints on g, which is
// expected to be the /reservations group.
func RegisterReservations(g *echo.Group, h *handler.ReservationHandler) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:reservation_id", h.Get)
	g.PUT("/:reservation_id", h.Update)
	g.PUT("/:reservation_id/status", h.UpdateStatus)
	g.POST("/:reservation_id/seat", h.Seat)
}
