package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mockTokenService is a mock implementation of TokenService for testing.
type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateToken() (plainToken string, tokenHash string, err error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) VerifyToken(plainToken, tokenHash string) bool {
	args := m.Called(plainToken, tokenHash)
	return args.Bool(0)
}

func newAuthenticatedRouter(tokenService *mockTokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(AuthenticationMiddleware(tokenService, "stored-hash", logger))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestAuthenticationMiddleware(t *testing.T) {
	t.Run("Success_ValidToken", func(t *testing.T) {
		tokenService := &mockTokenService{}
		tokenService.On("VerifyToken", "plain-token", "stored-hash").Return(true).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer plain-token")
		newAuthenticatedRouter(tokenService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		tokenService.AssertExpectations(t)
	})

	t.Run("Success_CaseInsensitiveBearer", func(t *testing.T) {
		tokenService := &mockTokenService{}
		tokenService.On("VerifyToken", "plain-token", "stored-hash").Return(true).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "bEaReR plain-token")
		newAuthenticatedRouter(tokenService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_MissingHeader", func(t *testing.T) {
		tokenService := &mockTokenService{}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		newAuthenticatedRouter(tokenService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		tokenService.AssertNotCalled(t, "VerifyToken", mock.Anything, mock.Anything)
	})

	t.Run("Error_MalformedHeader", func(t *testing.T) {
		tokenService := &mockTokenService{}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		newAuthenticatedRouter(tokenService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_InvalidToken", func(t *testing.T) {
		tokenService := &mockTokenService{}
		tokenService.On("VerifyToken", "wrong", "stored-hash").Return(false).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		newAuthenticatedRouter(tokenService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "unauthorized")
	})
}
