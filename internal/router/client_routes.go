package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Straver00/Chivas-travel-api/internal/handler"
	"github.com/Straver00/Chivas-travel-api/internal/middleware"
	"github.com/Straver00/Chivas-travel-api/internal/model"
)

// RegisterClient registers the endpoints a logged-in client uses to manage
// their own bookings and reviews. Admins pass the same gate so they can act
// on any reservation; guests ("G") are provisioned accounts without a
// password and never reach these routes.
func RegisterClient(e *echo.Echo, r *handler.ReservationHandler, o *handler.OpinionHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireSubtype(model.SubtypeClient, model.SubtypeAdmin),
	)

	g.POST("/reservas", r.Create)
	g.PUT("/reservas/:id", r.Edit)
	g.DELETE("/reservas/:id", r.Cancel)
	g.GET("/reservas/:id", r.Get)
	g.POST("/reservas/:id/boletos", r.IssueTicket)
	g.GET("/mis-reservas", r.ListMine)
	g.GET("/mis-boletos", r.ListMyTickets)

	g.POST("/opiniones", o.Create)
	g.PUT("/opiniones/:id", o.Update)
	g.DELETE("/opiniones/:id", o.Delete)
}
