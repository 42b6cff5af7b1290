package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "cartify/internal/errors"
)

// Envelope is the success body returned by every endpoint.
type Envelope struct {
	StatusCode int         `json:"statuscode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

func respond(c echo.Context, status int, data interface{}, message string) error {
	return c.JSON(status, Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// ErrorHandler renders every error returned by a handler or middleware as the
// error envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	httpErr := toHTTPError(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err,
		)
	}

	resp := httpErr.ToErrorResponse()
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(httpErr.StatusCode)
	} else {
		err = c.JSON(httpErr.StatusCode, resp)
	}
	if err != nil {
		slog.Error("write error response", "error", err)
	}
}

func toHTTPError(err error) *apperrors.HTTPError {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		details := make([]string, 0, len(ve))
		for _, fe := range ve {
			details = append(details, describeFieldError(fe))
		}
		httpErr := apperrors.NewHTTPError(http.StatusBadRequest, strings.Join(details, "; "), "VALIDATION_FAILED")
		httpErr.Details = details
		return httpErr
	}

	var ae *apperrors.HTTPError
	if errors.As(err, &ae) {
		return ae
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		return apperrors.NewHTTPError(he.Code, msg, strings.ToUpper(strings.ReplaceAll(http.StatusText(he.Code), " ", "_")))
	}

	return apperrors.MapErrorToHTTP(err)
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "gte":
		return field + " must be at least " + fe.Param()
	case "lte":
		return field + " must be at most " + fe.Param()
	case "oneof":
		return field + " must be one of " + fe.Param()
	}
	return field + " is invalid"
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.NewHTTPError(http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
	}
	return c.Validate(req)
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.NewHTTPError(http.StatusBadRequest, "invalid "+name, "BAD_REQUEST")
	}
	return id, nil
}

func queryInt(c echo.Context, name string) int {
	n, _ := strconv.Atoi(c.QueryParam(name))
	return n
}
