// Package handler adapts the registry to JSON over HTTP.  Handlers parse
// path, query and body values into primitives, call the Registry and map
// its typed errors onto status codes.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gig-registry/internal/model"
	"github.com/iliyamo/gig-registry/internal/repository"
	"github.com/iliyamo/gig-registry/internal/search"
	"github.com/iliyamo/gig-registry/internal/service"
)

// Registry is the set of operations the HTTP layer needs.  *service.Registry
// implements it.
type Registry interface {
	Ping(ctx context.Context) error

	CreateVenue(ctx context.Context, f model.VenueFields) (*model.Venue, error)
	GetVenue(ctx context.Context, id uint64) (*model.Venue, error)
	GetVenueDetail(ctx context.Context, id uint64, now time.Time) (*service.VenueDetail, error)
	UpdateVenue(ctx context.Context, id uint64, f model.VenueFields) (*model.Venue, error)
	DeleteVenue(ctx context.Context, id uint64) (int64, error)
	ListVenues(ctx context.Context) ([]model.Venue, error)
	ListVenueAreas(ctx context.Context, now time.Time) ([]service.Area, error)
	FilterVenues(ctx context.Context, field, needle string) ([]model.Venue, error)
	SearchVenues(ctx context.Context, needle string, now time.Time) (search.Result[service.VenueSummary], error)

	CreateArtist(ctx context.Context, f model.ArtistFields) (*model.Artist, error)
	GetArtist(ctx context.Context, id uint64) (*model.Artist, error)
	GetArtistDetail(ctx context.Context, id uint64, now time.Time) (*service.ArtistDetail, error)
	UpdateArtist(ctx context.Context, id uint64, f model.ArtistFields) (*model.Artist, error)
	DeleteArtist(ctx context.Context, id uint64) (int64, error)
	ListArtists(ctx context.Context) ([]model.Artist, error)
	FilterArtists(ctx context.Context, field, needle string) ([]model.Artist, error)
	SearchArtists(ctx context.Context, needle string, now time.Time) (search.Result[service.ArtistSummary], error)

	CreateShow(ctx context.Context, artistID, venueID uint64, start time.Time) (*model.ShowListing, error)
	GetShow(ctx context.Context, id uint64) (*model.ShowListing, error)
	DeleteShow(ctx context.Context, id uint64) error
	ListShowsWithDetails(ctx context.Context) ([]model.ShowListing, error)
}

// Handler serves every registry route.
type Handler struct {
	Registry Registry
	// Now is the reference instant for classifying shows.  It defaults to
	// the wall clock in UTC.
	Now func() time.Time
}

// New returns a Handler over r and panics if r is nil.
func New(r Registry) *Handler {
	if r == nil {
		panic("nil registry passed to handler.New")
	}
	return &Handler{Registry: r, Now: func() time.Time { return time.Now().UTC() }}
}

// pathID reads the :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, &repository.ValidationError{Field: "id", Message: "must be a positive integer"}
	}
	return id, nil
}

// fail writes err as a JSON error body.  Validation, not found, constraint
// and unavailable errors map to 400, 404, 409 and 503; anything else is
// logged and reported as 500 without detail.
func fail(c echo.Context, err error) error {
	var ve *repository.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "validation_failed",
			"field":   ve.Field,
			"message": ve.Message,
		})
	case errors.Is(err, repository.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed", "message": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": err.Error()})
	case errors.Is(err, repository.ErrConstraint):
		return c.JSON(http.StatusConflict, echo.Map{"error": "constraint_violation", "message": err.Error()})
	case errors.Is(err, repository.ErrStoreUnavailable):
		c.Logger().Warnf("request %s: %v", requestID(c), err)
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"error":   "store_unavailable",
			"message": "the database is unavailable, retry later",
		})
	}
	c.Logger().Errorf("request %s: %v", requestID(c), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error"})
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_body", "message": "request body must be a JSON object"})
}
