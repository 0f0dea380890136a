package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/Axel-LeBlanc/Eatmands/internal/auth"
	"github.com/Axel-LeBlanc/Eatmands/internal/catalog"
	"github.com/Axel-LeBlanc/Eatmands/internal/order"
)

// envelope is the success response shape: a human-readable message plus any
// relevant identifiers or totals.
type envelope map[string]any

func (h *Handler) writeError(c *echo.Context, err error) error {
	var (
		vErr     *order.ValidationError
		stockErr *order.InsufficientStockError
	)
	switch {
	case errors.As(err, &vErr),
		errors.As(err, &stockErr),
		errors.Is(err, catalog.ErrInvalidInput),
		errors.Is(err, auth.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, envelope{"error": err.Error()})
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, order.ErrProductNotFound),
		errors.Is(err, order.ErrLineNotFound),
		errors.Is(err, order.ErrExclusionNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, auth.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, envelope{"error": err.Error()})
	case errors.Is(err, order.ErrAmbiguousLine):
		return c.JSON(http.StatusConflict, envelope{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, envelope{"error": err.Error()})
	default:
		h.logger.Error("request failed", "error", err)
		return c.JSON(http.StatusInternalServerError, envelope{"error": "internal server error"})
	}
}
