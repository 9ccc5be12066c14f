package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/kaurna/internal/errors"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"NotFound", apperrors.Wrap(apperrors.ErrNotFound, "secret not found"), http.StatusNotFound, "not_found"},
		{"Conflict", apperrors.Wrap(apperrors.ErrConflict, "version exists"), http.StatusConflict, "conflict"},
		{"InvalidInput", apperrors.Wrap(apperrors.ErrInvalidInput, "bad"), http.StatusUnprocessableEntity, "invalid_input"},
		{"Unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"Forbidden", apperrors.Wrap(apperrors.ErrForbidden, "context rejected"), http.StatusForbidden, "forbidden"},
		{
			"Unavailable",
			fmt.Errorf("%w: %w", apperrors.ErrUnavailable, errors.New("throttled")),
			http.StatusServiceUnavailable,
			"service_unavailable",
		},
		{"Unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()
			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedCode, body.Error)
		})
	}

	t.Run("NilError", func(t *testing.T) {
		c, w := newTestContext()
		HandleErrorGin(c, nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("ForbiddenDescribesAuthorizationContext", func(t *testing.T) {
		c, w := newTestContext()
		HandleErrorGin(c, apperrors.Wrap(apperrors.ErrForbidden, "authorization context rejected"), nil)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body.Message, "authorized entities")
	})

	t.Run("UnavailableAsksToRetry", func(t *testing.T) {
		c, w := newTestContext()
		HandleErrorGin(c, apperrors.Wrap(apperrors.ErrUnavailable, "key service failed"), nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "1", w.Header().Get("Retry-After"))
	})

	t.Run("InvalidInputExposesCause", func(t *testing.T) {
		c, w := newTestContext()
		HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "version requires a name"), nil)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "version requires a name: invalid input", body.Message)
	})

	t.Run("IncludesRequestID", func(t *testing.T) {
		c, w := newTestContext()
		c.Writer.Header().Set("X-Request-Id", "0192b7c4-5d0e-7c3a-9f21-3a1e2b4c5d6e")
		HandleErrorGin(c, apperrors.ErrUnauthorized, nil)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "0192b7c4-5d0e-7c3a-9f21-3a1e2b4c5d6e", body.RequestID)
	})

	t.Run("InternalErrorHidesDetails", func(t *testing.T) {
		c, w := newTestContext()
		HandleErrorGin(c, errors.New("dynamodb: table kaurna missing"), nil)
		assert.NotContains(t, w.Body.String(), "dynamodb")
	})
}

func TestHandleBadRequestGin(t *testing.T) {
	c, w := newTestContext()
	HandleBadRequestGin(c, errors.New("invalid json"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "bad_request", body.Error)
	assert.Equal(t, "invalid json", body.Message)
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, w := newTestContext()
	HandleValidationErrorGin(c, errors.New("name: cannot be blank."), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Error)
}
