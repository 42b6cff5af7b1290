package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"invalid input wrapped", fmt.Errorf("%w: order items are required", ErrInvalidInput), http.StatusBadRequest, "BAD_REQUEST", "invalid input: order items are required"},
		{"missing token", ErrMissingToken, http.StatusUnauthorized, "TOKEN_MISSING", ErrMissingToken.Msg},
		{"refresh token", fmt.Errorf("refresh: %w", ErrInvalidRefreshToken), http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "refresh: " + ErrInvalidRefreshToken.Msg},
		{"admin gate", ErrAdminRequired, http.StatusForbidden, "ADMIN_REQUIRED", "admin access required"},
		{"user not found", ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND", "user not found"},
		{"duplicate review", ErrReviewAlreadyExists, http.StatusConflict, "REVIEW_ALREADY_EXISTS", ErrReviewAlreadyExists.Msg},
		{"unknown", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
		})
	}
}

func TestToErrorResponse(t *testing.T) {
	resp := NewHTTPError(http.StatusNotFound, "order not found", "ORDER_NOT_FOUND").ToErrorResponse()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, resp.Success)
	assert.NotNil(t, resp.Error)
	assert.Empty(t, resp.Error)
}
