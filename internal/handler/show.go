package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gig-registry/internal/service"
)

// ListShows handles GET /shows: every show with artist and venue names.
func (h *Handler) ListShows(c echo.Context) error {
	shows, err := h.Registry.ListShowsWithDetails(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": shows, "count": len(shows)})
}

// CreateShow handles POST /shows.  start_time accepts RFC 3339 or
// "YYYY-MM-DD HH:MM:SS" (UTC).
func (h *Handler) CreateShow(c echo.Context) error {
	var body struct {
		ArtistID  uint64 `json:"artist_id"`
		VenueID   uint64 `json:"venue_id"`
		StartTime string `json:"start_time"`
	}
	if err := c.Bind(&body); err != nil {
		return badBody(c)
	}
	start, err := service.ParseStartTime(body.StartTime)
	if err != nil {
		return fail(c, err)
	}
	listing, err := h.Registry.CreateShow(c.Request().Context(), body.ArtistID, body.VenueID, start)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, listing)
}

// GetShow handles GET /shows/:id.
func (h *Handler) GetShow(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	listing, err := h.Registry.GetShow(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, listing)
}

// DeleteShow handles DELETE /shows/:id and answers 204 on success.
func (h *Handler) DeleteShow(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Registry.DeleteShow(c.Request().Context(), id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
