package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a liveness check used by load balancers.  It returns a plain
// text "ok" with 200 while the process is serving.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Ready reports whether the store answers.  It returns 503 while the
// database is unreachable.
func (h *Handler) Ready(c echo.Context) error {
	if err := h.Registry.Ping(c.Request().Context()); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
}
