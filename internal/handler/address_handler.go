package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "cartify/internal/errors"
	"cartify/internal/middleware"
	"cartify/internal/service"
)

// AddressHandler manages the current user's addresses.
type AddressHandler struct {
	svc service.AddressService
}

// NewAddressHandler creates a new address handler.
func NewAddressHandler(svc service.AddressService) *AddressHandler {
	return &AddressHandler{svc: svc}
}

// AddressRequest is the body of the create and update endpoints.
type AddressRequest struct {
	BuildingName string `json:"buildingname" validate:"required"`
	Colony       string `json:"colony" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	Pincode      string `json:"pincode" validate:"required"`
}

func (r AddressRequest) input() service.AddressInput {
	return service.AddressInput{
		BuildingName: r.BuildingName,
		Colony:       r.Colony,
		City:         r.City,
		State:        r.State,
		Pincode:      r.Pincode,
	}
}

// List godoc
// @Summary List addresses in creation order
// @Tags addresses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope{data=[]model.Address}
// @Failure 401 {object} errors.ErrorResponse
// @Router /addresses [get]
func (h *AddressHandler) List(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	list, err := h.svc.List(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list, "Addresses fetched successfully")
}

// Add godoc
// @Summary Add an address
// @Tags addresses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddressRequest true "Address"
// @Success 201 {object} Envelope{data=[]model.Address}
// @Failure 400 {object} errors.ErrorResponse
// @Router /addresses [post]
func (h *AddressHandler) Add(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	var req AddressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	list, err := h.svc.Add(c.Request().Context(), user.ID, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, list, "Address added successfully")
}

// UpdateAt godoc
// @Summary Update the address at a list position
// @Tags addresses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param index path int true "Zero based position"
// @Param request body AddressRequest true "Address"
// @Success 200 {object} Envelope{data=[]model.Address}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /addresses/{index} [put]
func (h *AddressHandler) UpdateAt(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	index, err := pathIndex(c)
	if err != nil {
		return err
	}
	var req AddressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	list, err := h.svc.UpdateAt(c.Request().Context(), user.ID, index, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list, "Address updated successfully")
}

// DeleteAt godoc
// @Summary Delete the address at a list position
// @Tags addresses
// @Produce json
// @Security BearerAuth
// @Param index path int true "Zero based position"
// @Success 200 {object} Envelope{data=[]model.Address}
// @Failure 404 {object} errors.ErrorResponse
// @Router /addresses/{index} [delete]
func (h *AddressHandler) DeleteAt(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	index, err := pathIndex(c)
	if err != nil {
		return err
	}
	list, err := h.svc.DeleteAt(c.Request().Context(), user.ID, index)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list, "Address deleted successfully")
}

// Update godoc
// @Summary Update an address by id
// @Tags addresses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Address ID"
// @Param request body AddressRequest true "Address"
// @Success 200 {object} Envelope{data=[]model.Address}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /addresses/id/{id} [put]
func (h *AddressHandler) Update(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req AddressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	list, err := h.svc.Update(c.Request().Context(), user.ID, id, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list, "Address updated successfully")
}

// Delete godoc
// @Summary Delete an address by id
// @Tags addresses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Address ID"
// @Success 200 {object} Envelope{data=[]model.Address}
// @Failure 404 {object} errors.ErrorResponse
// @Router /addresses/id/{id} [delete]
func (h *AddressHandler) Delete(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.svc.Delete(c.Request().Context(), user.ID, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list, "Address deleted successfully")
}

func pathIndex(c echo.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, apperrors.NewHTTPError(http.StatusBadRequest, "invalid index", "BAD_REQUEST")
	}
	return index, nil
}
