// Package http provides HTTP handlers for secret management operations.
// Secrets are envelope-encrypted at rest and stored as immutable versions.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	cryptoDomain "github.com/allisson/kaurna/internal/crypto/domain"
	"github.com/allisson/kaurna/internal/httputil"
	"github.com/allisson/kaurna/internal/secrets/http/dto"
	secretsUseCase "github.com/allisson/kaurna/internal/secrets/usecase"
	customValidation "github.com/allisson/kaurna/internal/validation"
)

var errInvalidVersion = errors.New("invalid version parameter: must be a positive integer")

// SecretHandler handles HTTP requests for secret management operations.
type SecretHandler struct {
	secretUseCase secretsUseCase.SecretUseCase
	logger        *slog.Logger
}

// NewSecretHandler creates a new secret handler with required dependencies.
func NewSecretHandler(secretUseCase secretsUseCase.SecretUseCase, logger *slog.Logger) *SecretHandler {
	return &SecretHandler{
		secretUseCase: secretUseCase,
		logger:        logger,
	}
}

// StoreHandler stores a new version of a secret.
// POST /v1/secrets/:name
// Returns 201 Created with version metadata (no ciphertext, no plaintext).
func (h *SecretHandler) StoreHandler(c *gin.Context) {
	name := c.Param("name")

	var req dto.StoreSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	value, err := req.DecodedValue()
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid base64 value: %w", err), h.logger)
		return
	}
	defer cryptoDomain.Zero(value)

	secret, err := h.secretUseCase.StoreSecret(
		c.Request.Context(),
		value,
		name,
		req.Version,
		req.AuthorizedEntities,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSecretToMetadataResponse(secret))
}

// GetHandler decrypts a secret, optionally pinned to a version.
// GET /v1/secrets/:name?version=N
// SECURITY: Plaintext is zeroed after the response is written.
func (h *SecretHandler) GetHandler(c *gin.Context) {
	name := c.Param("name")
	version, ok := h.parseVersion(c)
	if !ok {
		return
	}

	plaintext, err := h.secretUseCase.GetSecret(c.Request.Context(), name, version)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer cryptoDomain.Zero(plaintext)

	c.JSON(http.StatusOK, dto.MapPlaintextToValueResponse(name, version, plaintext))
}

// DescribeHandler lists version metadata grouped by name.
// GET /v1/secrets?name=&version=
func (h *SecretHandler) DescribeHandler(c *gin.Context) {
	version, ok := h.parseVersion(c)
	if !ok {
		return
	}

	description, err := h.secretUseCase.DescribeSecrets(c.Request.Context(), c.Query("name"), version)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, description)
}

// RotateHandler re-encrypts the matching versions under new data keys.
// POST /v1/secrets/:name/rotate?version=N
func (h *SecretHandler) RotateHandler(c *gin.Context) {
	h.mutate(c, h.secretUseCase.RotateDataKeys)
}

// UpdateAuthorizedEntitiesHandler replaces the entities authorized to read the matching versions.
// PUT /v1/secrets/:name/authorized-entities?version=N
func (h *SecretHandler) UpdateAuthorizedEntitiesHandler(c *gin.Context) {
	name := c.Param("name")
	version, ok := h.parseVersion(c)
	if !ok {
		return
	}

	var req dto.UpdateAuthorizedEntitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	err := h.secretUseCase.UpdateSecrets(c.Request.Context(), name, version, req.AuthorizedEntities)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// DeprecateHandler excludes the matching versions from latest resolution.
// POST /v1/secrets/:name/deprecate?version=N
func (h *SecretHandler) DeprecateHandler(c *gin.Context) {
	h.mutate(c, h.secretUseCase.DeprecateSecrets)
}

// ActivateHandler reverses DeprecateHandler.
// POST /v1/secrets/:name/activate?version=N
func (h *SecretHandler) ActivateHandler(c *gin.Context) {
	h.mutate(c, h.secretUseCase.ActivateSecrets)
}

// EraseHandler deletes the matching versions.
// DELETE /v1/secrets/:name?version=N
func (h *SecretHandler) EraseHandler(c *gin.Context) {
	h.mutate(c, h.secretUseCase.EraseSecret)
}

func (h *SecretHandler) mutate(
	c *gin.Context,
	op func(ctx context.Context, name string, version uint) error,
) {
	version, ok := h.parseVersion(c)
	if !ok {
		return
	}

	if err := op(c.Request.Context(), c.Param("name"), version); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// parseVersion reads the optional version query parameter; zero means absent.
func (h *SecretHandler) parseVersion(c *gin.Context) (uint, bool) {
	raw := c.Query("version")
	if raw == "" {
		return 0, true
	}

	version, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || version == 0 {
		httputil.HandleValidationErrorGin(c, errInvalidVersion, h.logger)
		return 0, false
	}
	return uint(version), true
}
