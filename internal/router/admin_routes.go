package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Straver00/Chivas-travel-api/internal/handler"
	"github.com/Straver00/Chivas-travel-api/internal/middleware"
	"github.com/Straver00/Chivas-travel-api/internal/model"
)

// RegisterAdmin registers the administrative endpoints: trip and destination
// management plus the money operations. Payments are confirmed here rather
// than by clients because money changes hands in person or by transfer, and
// only staff can attest to it.
func RegisterAdmin(e *echo.Echo, t *handler.TripHandler, d *handler.DestinationHandler,
	p *handler.PaymentHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireSubtype(model.SubtypeAdmin),
	)

	g.POST("/viajes", t.Create)
	g.PUT("/viajes/:id", t.Update)
	g.DELETE("/viajes/:id", t.Cancel)

	g.POST("/destinos", d.Create)
	g.PUT("/destinos/:id", d.Update)
	g.DELETE("/destinos/:id", d.Delete)

	g.POST("/reservas/:id/pago", p.Confirm)
	g.POST("/reservas/:id/reembolso", p.Refund)
}
