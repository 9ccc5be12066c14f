package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/kaurna/internal/crypto/domain"
	secretsDomain "github.com/allisson/kaurna/internal/secrets/domain"
	"github.com/allisson/kaurna/internal/secrets/http/dto"
	"github.com/allisson/kaurna/internal/secrets/usecase/mocks"
)

// setupTestHandler creates a test handler with mocked dependencies.
func setupTestHandler(t *testing.T) (*SecretHandler, *mocks.MockSecretUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockSecretUseCase := mocks.NewMockSecretUseCase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewSecretHandler(mockSecretUseCase, logger), mockSecretUseCase
}

func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func TestSecretHandler_StoreHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		request := dto.StoreSecretRequest{
			Value:              base64.StdEncoding.EncodeToString([]byte("guest")),
			AuthorizedEntities: []string{"A", "B"},
		}
		stored := &secretsDomain.Secret{
			Name:                "password",
			Version:             1,
			EncryptedSecret:     "ciphertext",
			EncryptedDataKey:    []byte("wrapped"),
			EncryptionContext:   cryptoDomain.EncryptionContext{"A": "kaurna", "B": "kaurna"},
			AuthorizedEntities:  []string{"A", "B"},
			CreateDate:          1700000000,
			LastDataKeyRotation: 1700000000,
		}

		mockUseCase.On("StoreSecret", mock.Anything, []byte("guest"), "password", uint(0), []string{"A", "B"}).
			Return(stored, nil).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/secrets/password", request)
		c.Params = gin.Params{{Key: "name", Value: "password"}}

		handler.StoreHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "ciphertext")

		var response dto.SecretMetadataResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "password", response.Name)
		assert.Equal(t, uint(1), response.Version)
		assert.Equal(t, []string{"A", "B"}, response.AuthorizedEntities)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/secrets/password", nil)
		c.Params = gin.Params{{Key: "name", Value: "password"}}

		handler.StoreHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_InvalidBase64", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/secrets/password", dto.StoreSecretRequest{Value: "%%%"})
		c.Params = gin.Params{{Key: "name", Value: "password"}}

		handler.StoreHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_VersionConflict", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		request := dto.StoreSecretRequest{
			Value:   base64.StdEncoding.EncodeToString([]byte("guest")),
			Version: 2,
		}
		mockUseCase.On("StoreSecret", mock.Anything, []byte("guest"), "password", uint(2), []string(nil)).
			Return(nil, secretsDomain.ErrVersionConflict).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/secrets/password", request)
		c.Params = gin.Params{{Key: "name", Value: "password"}}

		handler.StoreHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestSecretHandler_GetHandler(t *testing.T) {
	t.Run("Success_Latest", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("GetSecret", mock.Anything, "password", uint(0)).
			Return([]byte("guest"), nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/secrets/password", nil)
		c.Params = gin.Params{{Key: "name", Value: "password"}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"name":"password","value":"Z3Vlc3Q="}`, w.Body.String())
	})

	t.Run("Success_PinnedVersion", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("GetSecret", mock.Anything, "password", uint(2)).
			Return([]byte("old"), nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/secrets/password?version=2", nil)
		c.Params = gin.Params{{Key: "name", Value: "password"}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.SecretValueResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, uint(2), response.Version)
		assert.Equal(t, []byte("old"), response.Value)
	})

	t.Run("Error_InvalidVersion", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		for _, version := range []string{"abc", "0", "-1"} {
			c, w := createTestContext(http.MethodGet, "/v1/secrets/password?version="+version, nil)
			c.Params = gin.Params{{Key: "name", Value: "password"}}

			handler.GetHandler(c)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, version)
		}
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("GetSecret", mock.Anything, "missing", uint(0)).
			Return(nil, secretsDomain.ErrSecretNotFound).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/secrets/missing", nil)
		c.Params = gin.Params{{Key: "name", Value: "missing"}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_AuthorizationFailed", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("GetSecret", mock.Anything, "password", uint(0)).
			Return(nil, cryptoDomain.ErrAuthorizationFailed).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/secrets/password", nil)
		c.Params = gin.Params{{Key: "name", Value: "password"}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestSecretHandler_DescribeHandler(t *testing.T) {
	t.Run("Success_AllSecrets", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("DescribeSecrets", mock.Anything, "", uint(0)).
			Return(secretsDomain.Description{
				"password": {1: {CreateDate: 1, LastDataKeyRotation: 2, AuthorizedEntities: []string{"A"}}},
			}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/secrets", nil)

		handler.DescribeHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"password":{"1":{
			"create_date":1,
			"last_data_key_rotation":2,
			"authorized_entities":["A"],
			"deprecated":false
		}}}`, w.Body.String())
	})

	t.Run("Error_VersionWithoutName", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("DescribeSecrets", mock.Anything, "", uint(3)).
			Return(nil, secretsDomain.ErrVersionWithoutName).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/secrets?version=3", nil)

		handler.DescribeHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestSecretHandler_Mutations(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		path    string
		handle  func(*SecretHandler) gin.HandlerFunc
		useCase string
	}{
		{"Rotate", http.MethodPost, "/v1/secrets/password/rotate?version=1",
			func(h *SecretHandler) gin.HandlerFunc { return h.RotateHandler }, "RotateDataKeys"},
		{"Deprecate", http.MethodPost, "/v1/secrets/password/deprecate?version=1",
			func(h *SecretHandler) gin.HandlerFunc { return h.DeprecateHandler }, "DeprecateSecrets"},
		{"Activate", http.MethodPost, "/v1/secrets/password/activate?version=1",
			func(h *SecretHandler) gin.HandlerFunc { return h.ActivateHandler }, "ActivateSecrets"},
		{"Erase", http.MethodDelete, "/v1/secrets/password?version=1",
			func(h *SecretHandler) gin.HandlerFunc { return h.EraseHandler }, "EraseSecret"},
	}

	for _, tt := range tests {
		t.Run("Success_"+tt.name, func(t *testing.T) {
			handler, mockUseCase := setupTestHandler(t)
			mockUseCase.On(tt.useCase, mock.Anything, "password", uint(1)).Return(nil).Once()

			c, w := createTestContext(tt.method, tt.path, nil)
			c.Params = gin.Params{{Key: "name", Value: "password"}}

			tt.handle(handler)(c)

			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Empty(t, w.Body.String())
		})

		t.Run("Error_"+tt.name, func(t *testing.T) {
			handler, mockUseCase := setupTestHandler(t)
			mockUseCase.On(tt.useCase, mock.Anything, "password", uint(1)).
				Return(secretsDomain.ErrRecordStoreFailed).
				Once()

			c, w := createTestContext(tt.method, tt.path, nil)
			c.Params = gin.Params{{Key: "name", Value: "password"}}

			tt.handle(handler)(c)

			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		})
	}
}

func TestSecretHandler_UpdateAuthorizedEntitiesHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("UpdateSecrets", mock.Anything, "password", uint(0), []string{"C"}).
			Return(nil).
			Once()

		c, w := createTestContext(
			http.MethodPut,
			"/v1/secrets/password/authorized-entities",
			dto.UpdateAuthorizedEntitiesRequest{AuthorizedEntities: []string{"C"}},
		)
		c.Params = gin.Params{{Key: "name", Value: "password"}}

		handler.UpdateAuthorizedEntitiesHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Error_MissingEntities", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPut, "/v1/secrets/password/authorized-entities", map[string]any{})
		c.Params = gin.Params{{Key: "name", Value: "password"}}

		handler.UpdateAuthorizedEntitiesHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
