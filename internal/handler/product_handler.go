package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"cartify/internal/model"
	"cartify/internal/service"
)

// ProductHandler serves the catalog.
type ProductHandler struct {
	svc service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(svc service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// ProductRequest is the body of the create endpoint.
type ProductRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	CategoryKey string           `json:"categoryKey" validate:"required"`
	Type        string           `json:"type"`
	Featured    bool             `json:"featured"`
	Rating      *float64         `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Image       string           `json:"image"`
}

// ProductPatchRequest is the body of the update endpoint. Absent fields are
// left unchanged and rating is ignored.
type ProductPatchRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryKey *string          `json:"categoryKey"`
	Type        *string          `json:"type"`
	Featured    *bool            `json:"featured"`
	Image       *string          `json:"image"`
}

// Create godoc
// @Summary Add a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProductRequest true "Product"
// @Success 201 {object} Envelope{data=model.Product}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /products/addproduct [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.svc.Create(c.Request().Context(), service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		CategoryKey: req.CategoryKey,
		Type:        req.Type,
		Featured:    req.Featured,
		Image:       req.Image,
		Rating:      req.Rating,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, product, "Product registered successfully")
}

// List godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param categoryKey query string false "Category key"
// @Param type query string false "Product type"
// @Param featured query bool false "Only featured products"
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size, 1 to 50"
// @Success 200 {object} Envelope{data=[]model.Product}
// @Router /products/getallproducts [get]
func (h *ProductHandler) List(c echo.Context) error {
	filter := model.ProductFilter{
		CategoryKey: c.QueryParam("categoryKey"),
		Type:        c.QueryParam("type"),
		Page:        queryInt(c, "page"),
		Limit:       queryInt(c, "limit"),
	}
	if v := c.QueryParam("featured"); v != "" {
		featured, _ := strconv.ParseBool(v)
		filter.Featured = &featured
	}

	products, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, products, "Products fetched successfully")
}

// Get godoc
// @Summary Get a product with its reviews
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} Envelope{data=model.Product}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/getproductbyid/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, product, "Product fetched successfully")
}

// Update godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body ProductPatchRequest true "Fields to change"
// @Success 200 {object} Envelope{data=model.Product}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/updateproduct/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req ProductPatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.svc.Update(c.Request().Context(), id, service.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryKey: req.CategoryKey,
		Type:        req.Type,
		Featured:    req.Featured,
		Image:       req.Image,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, product, "Product updated successfully")
}

// Delete godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} Envelope{data=model.Product}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/deleteproduct/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.svc.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, product, "Product deleted successfully")
}

// SearchIndex godoc
// @Summary Minimal projection of every product for client side search
// @Tags products
// @Produce json
// @Success 200 {object} Envelope{data=[]service.SearchEntry}
// @Router /products/search-index [get]
func (h *ProductHandler) SearchIndex(c echo.Context) error {
	entries, err := h.svc.SearchIndex(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, entries, "Search index fetched successfully")
}
