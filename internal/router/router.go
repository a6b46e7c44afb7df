package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gig-registry/internal/handler"
)

// RegisterRoutes maps every registry endpoint onto e.  Health checks live
// at the root; the API lives under /v1 behind mws (cache, rate limit).
func RegisterRoutes(e *echo.Echo, h *handler.Handler, mws ...echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", h.Ready)

	v1 := e.Group("/v1", mws...)

	// Static segments (search, all) are matched before :id by echo.
	v1.GET("/venues", h.ListVenueAreas)
	v1.GET("/venues/all", h.ListVenues)
	v1.GET("/venues/search", h.SearchVenues)
	v1.POST("/venues", h.CreateVenue)
	v1.GET("/venues/:id", h.GetVenue)
	v1.GET("/venues/:id/edit", h.EditVenue)
	v1.PUT("/venues/:id", h.UpdateVenue)
	v1.DELETE("/venues/:id", h.DeleteVenue)

	v1.GET("/artists", h.ListArtists)
	v1.GET("/artists/search", h.SearchArtists)
	v1.POST("/artists", h.CreateArtist)
	v1.GET("/artists/:id", h.GetArtist)
	v1.GET("/artists/:id/edit", h.EditArtist)
	v1.PUT("/artists/:id", h.UpdateArtist)
	v1.DELETE("/artists/:id", h.DeleteArtist)

	v1.GET("/shows", h.ListShows)
	v1.POST("/shows", h.CreateShow)
	v1.GET("/shows/:id", h.GetShow)
	v1.DELETE("/shows/:id", h.DeleteShow)
}
