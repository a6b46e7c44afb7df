package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gig-registry/internal/model"
)

// ListVenueAreas handles GET /venues: every venue grouped by city and state.
func (h *Handler) ListVenueAreas(c echo.Context) error {
	areas, err := h.Registry.ListVenueAreas(c.Request().Context(), h.Now())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"areas": areas})
}

// ListVenues handles GET /venues/all, or GET /venues/all?field=city&q=san
// to keep only venues whose field contains q.
func (h *Handler) ListVenues(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		venues []model.Venue
		err    error
	)
	if field := strings.TrimSpace(c.QueryParam("field")); field != "" {
		venues, err = h.Registry.FilterVenues(ctx, field, c.QueryParam("q"))
	} else {
		venues, err = h.Registry.ListVenues(ctx)
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": venues, "count": len(venues)})
}

// SearchVenues handles GET /venues/search?search_term=...
func (h *Handler) SearchVenues(c echo.Context) error {
	res, err := h.Registry.SearchVenues(c.Request().Context(), searchTerm(c), h.Now())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// GetVenue handles GET /venues/:id with the venue's shows split into
// upcoming and past.
func (h *Handler) GetVenue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	d, err := h.Registry.GetVenueDetail(c.Request().Context(), id, h.Now())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// EditVenue handles GET /venues/:id/edit: the stored record, no shows.
func (h *Handler) EditVenue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	v, err := h.Registry.GetVenue(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// CreateVenue handles POST /venues.
func (h *Handler) CreateVenue(c echo.Context) error {
	var body model.VenueFields
	if err := c.Bind(&body); err != nil {
		return badBody(c)
	}
	v, err := h.Registry.CreateVenue(c.Request().Context(), body)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

// UpdateVenue handles PUT /venues/:id.  The body replaces every field.
func (h *Handler) UpdateVenue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	var body model.VenueFields
	if err := c.Bind(&body); err != nil {
		return badBody(c)
	}
	v, err := h.Registry.UpdateVenue(c.Request().Context(), id, body)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// DeleteVenue handles DELETE /venues/:id.
func (h *Handler) DeleteVenue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	removed, err := h.Registry.DeleteVenue(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id, "removed_shows": removed})
}

// searchTerm accepts the original form name and the shorter q.
func searchTerm(c echo.Context) string {
	if s := c.QueryParam("search_term"); s != "" {
		return s
	}
	return c.QueryParam("q")
}
