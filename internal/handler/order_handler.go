package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"cartify/internal/middleware"
	"cartify/internal/model"
	"cartify/internal/service"
)

// OrderHandler handles order placement and history.
type OrderHandler struct {
	svc service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(svc service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// OrderItemRequest is one cart line.
type OrderItemRequest struct {
	ID       *uuid.UUID      `json:"id"`
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" validate:"gte=0"`
	Image    string          `json:"image"`
}

// CreateOrderRequest is the submitted cart. A client supplied total is
// accepted for compatibility and ignored.
type CreateOrderRequest struct {
	Name  string             `json:"name"`
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Total *decimal.Decimal   `json:"total,omitempty" swaggerignore:"true"`
}

// UpdateStatusRequest is the body of the admin status endpoint.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ordered pending shipped delivered cancelled"`
}

// Create godoc
// @Summary Place an order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateOrderRequest true "Cart"
// @Success 201 {object} Envelope{data=model.Order}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	var req CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := service.OrderInput{Name: req.Name, Items: make([]service.OrderItemInput, 0, len(req.Items))}
	for _, it := range req.Items {
		in.Items = append(in.Items, service.OrderItemInput{
			ProductID: it.ID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Image:     it.Image,
		})
	}

	order, err := h.svc.Create(c.Request().Context(), user.ID, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, order, "Order created successfully")
}

// ListMine godoc
// @Summary List the current user's orders, newest first
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size, 1 to 50"
// @Success 200 {object} Envelope{data=[]model.Order}
// @Router /orders/mine [get]
func (h *OrderHandler) ListMine(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	orders, err := h.svc.ListMine(c.Request().Context(), user.ID, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, orders, "Orders fetched successfully")
}

// Get godoc
// @Summary Get one of the current user's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} Envelope{data=model.Order}
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.svc.Get(c.Request().Context(), user.ID, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, order, "Order fetched successfully")
}

// Delete godoc
// @Summary Delete one of the current user's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} Envelope
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
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
	return respond(c, http.StatusOK, nil, "Order deleted successfully")
}

// Cancel godoc
// @Summary Cancel an order that has not shipped
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} Envelope{data=model.Order}
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /orders/{id}/cancel [patch]
func (h *OrderHandler) Cancel(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.svc.Cancel(c.Request().Context(), user.ID, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, order, "Order cancelled successfully")
}

// UpdateStatus godoc
// @Summary Set an order's status
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} Envelope{data=model.Order}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order, err := h.svc.UpdateStatus(c.Request().Context(), id, model.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, order, "Order status updated successfully")
}
