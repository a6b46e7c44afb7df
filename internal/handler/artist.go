package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gig-registry/internal/model"
)

type artistItem struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ListArtists handles GET /artists, optionally filtered with ?field=&q=.
// Only ids and names are returned; the detail lives under /artists/:id.
func (h *Handler) ListArtists(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		artists []model.Artist
		err     error
	)
	if field := strings.TrimSpace(c.QueryParam("field")); field != "" {
		artists, err = h.Registry.FilterArtists(ctx, field, c.QueryParam("q"))
	} else {
		artists, err = h.Registry.ListArtists(ctx)
	}
	if err != nil {
		return fail(c, err)
	}
	items := make([]artistItem, 0, len(artists))
	for _, a := range artists {
		items = append(items, artistItem{ID: a.ID, Name: a.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items, "count": len(items)})
}

// SearchArtists handles GET /artists/search?search_term=...
func (h *Handler) SearchArtists(c echo.Context) error {
	res, err := h.Registry.SearchArtists(c.Request().Context(), searchTerm(c), h.Now())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// GetArtist handles GET /artists/:id with the artist's shows split by start time.
func (h *Handler) GetArtist(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	d, err := h.Registry.GetArtistDetail(c.Request().Context(), id, h.Now())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// EditArtist handles GET /artists/:id/edit.
func (h *Handler) EditArtist(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	a, err := h.Registry.GetArtist(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// CreateArtist handles POST /artists.
func (h *Handler) CreateArtist(c echo.Context) error {
	var body model.ArtistFields
	if err := c.Bind(&body); err != nil {
		return badBody(c)
	}
	a, err := h.Registry.CreateArtist(c.Request().Context(), body)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

// UpdateArtist handles PUT /artists/:id.  The body replaces every field.
func (h *Handler) UpdateArtist(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	var body model.ArtistFields
	if err := c.Bind(&body); err != nil {
		return badBody(c)
	}
	a, err := h.Registry.UpdateArtist(c.Request().Context(), id, body)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// DeleteArtist handles DELETE /artists/:id under the configured delete policy.
func (h *Handler) DeleteArtist(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	removed, err := h.Registry.DeleteArtist(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id, "removed_shows": removed})
}
