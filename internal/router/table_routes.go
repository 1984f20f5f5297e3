package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservations/internal/handler"
)

// RegisterTables mounts the table endpoints on the /tables group. Seating
// and finishing share one path and differ by method.
func RegisterTables(g *echo.Group, h *handler.TableHandler) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.PUT("/:table_id/seat", h.Seat)
	g.DELETE("/:table_id/seat", h.Finish)
}
