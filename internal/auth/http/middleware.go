// Package http provides HTTP middleware for API authentication and rate limiting.
package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authService "github.com/allisson/kaurna/internal/auth/service"
	apperrors "github.com/allisson/kaurna/internal/errors"
	"github.com/allisson/kaurna/internal/httputil"
)

// AuthenticationMiddleware requires a Bearer token matching tokenHash in the
// Authorization header (case-insensitive "bearer" prefix).
//
// Error handling:
//   - Missing or malformed Authorization header → 401 Unauthorized
//   - Token that does not match tokenHash → 401 Unauthorized
func AuthenticationMiddleware(
	tokenService authService.TokenService,
	tokenHash string,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		plainToken := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if !tokenService.VerifyToken(plainToken, tokenHash) {
			logger.Debug("authentication failed: invalid token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
