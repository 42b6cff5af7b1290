package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"cartify/internal/catalog"
	apperrors "cartify/internal/errors"
	"cartify/internal/service"
)

// SeedHandler handles bulk catalog imports.
type SeedHandler struct {
	productService service.ProductService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(productService service.ProductService) *SeedHandler {
	return &SeedHandler{productService: productService}
}

// ImportProducts godoc
// @Summary Upsert products by name from a catalog document
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body []catalog.Entry true "Catalog entries"
// @Success 200 {object} Envelope{data=service.ImportResult}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Router /products/import [post]
func (h *SeedHandler) ImportProducts(c echo.Context) error {
	entries, err := catalog.Decode(c.Request().Body)
	var he *echo.HTTPError
	switch {
	case errors.Is(err, catalog.ErrTooLarge):
		return apperrors.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error(), "PAYLOAD_TOO_LARGE")
	case errors.As(err, &he):
		return he
	case err != nil:
		return apperrors.NewHTTPError(http.StatusBadRequest, "invalid catalog document", "BAD_REQUEST")
	}
	for _, e := range entries {
		if err := c.Validate(&e); err != nil {
			return err
		}
	}

	result, err := h.productService.Import(c.Request().Context(), catalog.Inputs(entries))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, result, "Products imported successfully")
}
