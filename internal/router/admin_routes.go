package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tailor-booking/internal/handler"
	"github.com/iliyamo/tailor-booking/internal/middleware"
)

// RegisterAdmin registers the booking back office.  Every route requires a
// valid access token.
func RegisterAdmin(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/admin", middleware.JWTAuth(jwtSecret))
	g.GET("/bookings", b.AdminList)
	g.GET("/bookings.csv", b.ExportCSV)
	g.GET("/bookings.xlsx", b.ExportXLSX)
}
