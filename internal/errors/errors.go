package errors

import (
	"errors"
	"net/http"
)

// Taxonomy roots. Domain errors wrap one of these so the HTTP layer can
// translate them without knowing every individual error.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

var (
	// ErrMissingToken is returned when a request carries no access token.
	ErrMissingToken = &DomainError{Kind: ErrUnauthorized, Msg: "unauthorized access, token missing", Code: "TOKEN_MISSING"}
	// ErrInvalidToken is returned for bad signatures, expired or revoked access tokens.
	ErrInvalidToken = &DomainError{Kind: ErrUnauthorized, Msg: "unauthorized access, invalid token", Code: "INVALID_TOKEN"}
	// ErrMissingRefreshToken is returned when the refresh endpoint gets no token.
	ErrMissingRefreshToken = &DomainError{Kind: ErrUnauthorized, Msg: "unauthorized access, refresh token missing", Code: "REFRESH_TOKEN_MISSING"}
	// ErrInvalidRefreshToken covers expired, malformed and superseded refresh tokens.
	ErrInvalidRefreshToken = &DomainError{Kind: ErrUnauthorized, Msg: "unauthorized access, invalid refresh token", Code: "INVALID_REFRESH_TOKEN"}
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = &DomainError{Kind: ErrUnauthorized, Msg: "invalid credentials", Code: "INVALID_CREDENTIALS"}
	// ErrAdminRequired is returned by the role gate.
	ErrAdminRequired = &DomainError{Kind: ErrForbidden, Msg: "admin access required", Code: "ADMIN_REQUIRED"}
	// ErrNotReviewAuthor is returned when a user edits someone else's review.
	ErrNotReviewAuthor = &DomainError{Kind: ErrForbidden, Msg: "you are not the author of this review", Code: "NOT_REVIEW_AUTHOR"}

	ErrUserNotFound    = &DomainError{Kind: ErrNotFound, Msg: "user not found", Code: "USER_NOT_FOUND"}
	ErrProductNotFound = &DomainError{Kind: ErrNotFound, Msg: "product not found", Code: "PRODUCT_NOT_FOUND"}
	ErrOrderNotFound   = &DomainError{Kind: ErrNotFound, Msg: "order not found", Code: "ORDER_NOT_FOUND"}
	ErrAddressNotFound = &DomainError{Kind: ErrNotFound, Msg: "address not found", Code: "ADDRESS_NOT_FOUND"}
	ErrReviewNotFound  = &DomainError{Kind: ErrNotFound, Msg: "review not found", Code: "REVIEW_NOT_FOUND"}

	ErrUserAlreadyExists    = &DomainError{Kind: ErrConflict, Msg: "user with given email or username already exists", Code: "USER_ALREADY_EXISTS"}
	ErrProductAlreadyExists = &DomainError{Kind: ErrConflict, Msg: "product with given name already exists", Code: "PRODUCT_ALREADY_EXISTS"}
	ErrReviewAlreadyExists  = &DomainError{Kind: ErrConflict, Msg: "you have already reviewed this product", Code: "REVIEW_ALREADY_EXISTS"}
	ErrOrderNotCancellable  = &DomainError{Kind: ErrConflict, Msg: "order can no longer be cancelled", Code: "ORDER_NOT_CANCELLABLE"}
)

// DomainError is a named error belonging to one taxonomy kind.
type DomainError struct {
	Kind error
	Msg  string
	Code string
}

func (e *DomainError) Error() string { return e.Msg }

// Unwrap exposes the taxonomy kind to errors.Is.
func (e *DomainError) Unwrap() error { return e.Kind }

// ErrorResponse is the error envelope returned to clients.
type ErrorResponse struct {
	StatusCode int      `json:"statuscode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Error      []string `json:"error"`
	Code       string   `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    []string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	details := e.Details
	if details == nil {
		details = []string{}
	}
	return ErrorResponse{
		StatusCode: e.StatusCode,
		Message:    e.Message,
		Success:    false,
		Error:      details,
		Code:       e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything outside the
// taxonomy becomes a generic 500 so internals never leak to clients.
func MapErrorToHTTP(err error) *HTTPError {
	code := ""
	var de *DomainError
	if errors.As(err, &de) {
		code = de.Code
	}

	switch {
	case errors.Is(err, ErrInvalidInput):
		return NewHTTPError(http.StatusBadRequest, err.Error(), orDefault(code, "BAD_REQUEST"))
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), orDefault(code, "UNAUTHORIZED"))
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), orDefault(code, "FORBIDDEN"))
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), orDefault(code, "NOT_FOUND"))
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), orDefault(code, "CONFLICT"))
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
