package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Straver00/Chivas-travel-api/internal/handler"
)

// RegisterPublic registers the unauthenticated catalog endpoints: trips,
// destinations and destination reviews. Guests browse these before deciding
// to register. The optional cache middleware (nil to disable) serves
// repeated catalog reads from Redis.
func RegisterPublic(e *echo.Echo, t *handler.TripHandler, d *handler.DestinationHandler,
	o *handler.OpinionHandler, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cache != nil {
		mws = append(mws, cache)
	}
	g := e.Group("/v1", mws...)

	// Trip catalog; ?destino=name filters by destination name fragment.
	g.GET("/viajes", t.List)
	g.GET("/viajes/:id", t.Get)

	g.GET("/destinos", d.List)
	g.GET("/destinos/:id", d.Get)
	g.GET("/destinos/:id/opiniones", o.ListByDestination)
}
