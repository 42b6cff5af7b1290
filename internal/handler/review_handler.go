package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "cartify/internal/errors"
	"cartify/internal/middleware"
	"cartify/internal/service"
)

// ReviewHandler handles product reviews.
type ReviewHandler struct {
	svc service.ReviewService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// CreateReviewRequest is the body of the create endpoint.
type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	ReviewRequest
}

// ReviewRequest carries the editable review fields.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title   string `json:"title" validate:"required"`
	Comment string `json:"comment" validate:"required"`
}

func (r ReviewRequest) input() service.ReviewInput {
	return service.ReviewInput{Rating: r.Rating, Title: r.Title, Comment: r.Comment}
}

// Create godoc
// @Summary Review a product
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateReviewRequest true "Review"
// @Success 201 {object} Envelope{data=model.Review}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	var req CreateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	review, err := h.svc.Create(c.Request().Context(), user.ID, req.ProductID, req.input())
	if err != nil {
		return err
	}
	review.UserName = user.Username
	return respond(c, http.StatusCreated, review, "Review created successfully")
}

// List godoc
// @Summary List reviews, newest first
// @Tags reviews
// @Produce json
// @Param productId query string false "Only reviews of this product"
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size, 1 to 50"
// @Success 200 {object} Envelope{data=[]model.Review}
// @Failure 400 {object} errors.ErrorResponse
// @Router /reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	var productID *uuid.UUID
	if raw := c.QueryParam("productId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperrors.NewHTTPError(http.StatusBadRequest, "invalid productId", "BAD_REQUEST")
		}
		productID = &id
	}
	reviews, err := h.svc.List(c.Request().Context(), productID, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, reviews, "Reviews fetched successfully")
}

// Update godoc
// @Summary Edit your review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body ReviewRequest true "Review"
// @Success 200 {object} Envelope{data=model.Review}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id} [put]
func (h *ReviewHandler) Update(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	review, err := h.svc.Update(c.Request().Context(), user.ID, id, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, review, "Review updated successfully")
}

// Delete godoc
// @Summary Delete your review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} Envelope
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), user.ID, id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Review deleted successfully")
}
