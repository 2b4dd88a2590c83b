package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwellhq/engagement/internal/models"
)

// getAccountIDFromContext returns the authenticated account id set by the
// auth middleware, or "" when unauthenticated.
func getAccountIDFromContext(c echo.Context) string {
	if id, ok := c.Get("accountID").(string); ok {
		return id
	}
	return ""
}

// httpError maps the shared error taxonomy onto HTTP status codes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrInvalidState):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrStoreUnavailable), errors.Is(err, models.ErrConflictRetryExceeded):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "store temporarily unavailable, please retry")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
