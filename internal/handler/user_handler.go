package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cartify/internal/middleware"
	"cartify/internal/service"
)

// UserHandler serves the current user's account.
type UserHandler struct {
	svc     service.UserService
	cookies CookieConfig
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, cookies CookieConfig) *UserHandler {
	return &UserHandler{svc: svc, cookies: cookies}
}

// Me godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope{data=model.User}
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, "User fetched successfully")
}

// DeleteMe godoc
// @Summary Delete the current user's account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/me [delete]
func (h *UserHandler) DeleteMe(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteAccount(c.Request().Context(), user.ID); err != nil {
		return err
	}
	h.cookies.clearSession(c)
	return respond(c, http.StatusOK, nil, "User account deleted successfully")
}
