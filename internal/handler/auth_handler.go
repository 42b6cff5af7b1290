package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "cartify/internal/errors"
	"cartify/internal/middleware"
	"cartify/internal/model"
	"cartify/internal/service"
)

// AuthHandler handles signup, login, logout and token refresh.
type AuthHandler struct {
	authService service.AuthService
	cookies     CookieConfig
	accessTTL   time.Duration
}

// NewAuthHandler creates a new auth handler. accessTTL bounds how long a
// logged out token without an expiry claim stays denied.
func NewAuthHandler(authService service.AuthService, cookies CookieConfig, accessTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies, accessTTL: accessTTL}
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the optional body of the refresh endpoint. The cookie
// takes precedence.
type RefreshRequest struct {
	RefreshToken string `json:"refreshtoken"`
}

// SessionResponse is returned by signup and login.
type SessionResponse struct {
	User        *model.User `json:"user"`
	AccessToken string      `json:"accesstoken"`
}

// TokensResponse is returned by refresh.
type TokensResponse struct {
	AccessToken  string `json:"accesstoken"`
	RefreshToken string `json:"refreshtoken"`
}

// Signup godoc
// @Summary Register a new user and log them in
// @Tags users
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Registration data"
// @Success 201 {object} Envelope{data=SessionResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /users/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, pair, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookies.setSession(c, pair)
	return respond(c, http.StatusCreated, SessionResponse{User: user, AccessToken: pair.AccessToken},
		"User registered and logged in successfully")
}

// Login godoc
// @Summary Login user
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} Envelope{data=SessionResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, pair, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookies.setSession(c, pair)
	return respond(c, http.StatusOK, SessionResponse{User: user, AccessToken: pair.AccessToken},
		"User logged in successfully")
}

// Refresh godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags users
// @Accept json
// @Produce json
// @Param request body RefreshRequest false "Refresh token when no cookie is sent"
// @Success 200 {object} Envelope{data=TokensResponse}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/refreshtoken [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	token := ""
	if ck, err := c.Cookie(RefreshTokenCookie); err == nil {
		token = ck.Value
	}
	if token == "" {
		var req RefreshRequest
		// An empty or non JSON body simply means no token was sent.
		_ = c.Bind(&req)
		token = req.RefreshToken
	}

	pair, err := h.authService.Refresh(c.Request().Context(), token)
	if err != nil {
		return err
	}

	h.cookies.setSession(c, pair)
	return respond(c, http.StatusOK, TokensResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken},
		"Access token refreshed successfully")
}

// Logout godoc
// @Summary Logout user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return apperrors.ErrMissingToken
	}

	expiresAt := time.Now().Add(h.accessTTL)
	if session.Claims.ExpiresAt != nil {
		expiresAt = session.Claims.ExpiresAt.Time
	}
	if err := h.authService.Logout(c.Request().Context(), session.User.ID, session.Claims.ID, expiresAt); err != nil {
		return err
	}

	h.cookies.clearSession(c)
	return respond(c, http.StatusOK, nil, "User logged out successfully")
}
