package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cartify/internal/catalog"
	apperrors "cartify/internal/errors"
	"cartify/internal/service"
)

type structValidator struct{ v *validator.Validate }

func (s structValidator) Validate(i interface{}) error { return s.v.Struct(i) }

func newContext(method, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = structValidator{v: validator.New()}
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"domain error", apperrors.ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND", "order not found"},
		{"wrapped invalid input", fmt.Errorf("%w: name is required", apperrors.ErrInvalidInput), http.StatusBadRequest, "BAD_REQUEST", "invalid input: name is required"},
		{"http error", apperrors.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded", "RATE_LIMITED"), http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded"},
		{"echo error", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method Not Allowed"},
		{"internal", fmt.Errorf("dial tcp: refused"), http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "")

			ErrorHandler(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp apperrors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantMsg, resp.Message)
			assert.False(t, resp.Success)
			assert.NotNil(t, resp.Error)
		})
	}
}

func TestErrorHandler_HeadHasNoBody(t *testing.T) {
	c, rec := newContext(http.MethodHead, "")

	ErrorHandler(apperrors.ErrProductNotFound, c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestBindAndValidate_CollectsFieldErrors(t *testing.T) {
	c, rec := newContext(http.MethodPost, `{"status":"lost"}`)

	var req UpdateStatusRequest
	ErrorHandler(bindAndValidate(c, &req), c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_FAILED", resp.Code)
	assert.Equal(t, []string{"status must be one of ordered pending shipped delivered cancelled"}, resp.Error)
}

func TestPathParams(t *testing.T) {
	c, _ := newContext(http.MethodGet, "")
	c.SetParamNames("id", "index")
	c.SetParamValues("not-a-uuid", "x")

	_, err := pathUUID(c, "id")
	assert.Error(t, err)
	_, err = pathIndex(c)
	assert.Error(t, err)

	c.SetParamValues("9b2f5c0e-8d4a-4a51-9d0b-1f7e3c2a6b11", "2")
	id, err := pathUUID(c, "id")
	require.NoError(t, err)
	assert.Equal(t, "9b2f5c0e-8d4a-4a51-9d0b-1f7e3c2a6b11", id.String())
	index, err := pathIndex(c)
	require.NoError(t, err)
	assert.Equal(t, 2, index)
}

type importService struct {
	mock.Mock
	service.ProductService
}

func (m *importService) Import(ctx context.Context, items []service.ProductInput) (*service.ImportResult, error) {
	args := m.Called(ctx, items)
	if r := args.Get(0); r != nil {
		return r.(*service.ImportResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSeedHandler_ImportProducts(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantImport bool
	}{
		{
			name:       "wrapped document",
			body:       `{"products":[{"name":"Tee","price":"9.5","categoryKey":"men"}]}`,
			wantStatus: http.StatusOK,
			wantImport: true,
		},
		{
			name:       "bare array",
			body:       `[{"name":"Tee","price":9.5,"categoryKey":"men"},{"name":"Dress","price":20,"categoryKey":"women"}]`,
			wantStatus: http.StatusOK,
			wantImport: true,
		},
		{name: "entry without category", body: `[{"name":"Tee","price":1}]`, wantStatus: http.StatusBadRequest},
		{name: "not json", body: `<xml/>`, wantStatus: http.StatusBadRequest},
		{name: "oversized document", body: `[]` + strings.Repeat(" ", catalog.MaxDocumentBytes), wantStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(importService)
			if tt.wantImport {
				svc.On("Import", mock.Anything, mock.Anything).Return(&service.ImportResult{Created: 1}, nil)
			}
			c, rec := newContext(http.MethodPost, tt.body)

			if err := NewSeedHandler(svc).ImportProducts(c); err != nil {
				ErrorHandler(err, c)
			}

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantImport {
				svc.AssertExpectations(t)
			} else {
				svc.AssertNotCalled(t, "Import", mock.Anything, mock.Anything)
			}
		})
	}
}
