// Package httputil writes the JSON error bodies of the secrets API.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/kaurna/internal/errors"
)

// ErrorResponse is the body of every failed API request. RequestID matches the
// X-Request-Id header and the request_id attribute of the server logs.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type errorMapping struct {
	status  int
	code    string
	message string
	// exposeCause replaces message with the error text.
	exposeCause bool
}

var errorMappings = map[error]errorMapping{
	apperrors.ErrNotFound: {
		status:  http.StatusNotFound,
		code:    "not_found",
		message: "No active secret version matches the request",
	},
	apperrors.ErrConflict: {
		status:  http.StatusConflict,
		code:    "conflict",
		message: "The secret version already exists",
	},
	apperrors.ErrInvalidInput: {
		status:      http.StatusUnprocessableEntity,
		code:        "invalid_input",
		exposeCause: true,
	},
	apperrors.ErrUnauthorized: {
		status:  http.StatusUnauthorized,
		code:    "unauthorized",
		message: "A valid API token is required",
	},
	apperrors.ErrForbidden: {
		status:  http.StatusForbidden,
		code:    "forbidden",
		message: "The authorization context does not match the secret's authorized entities",
	},
	apperrors.ErrUnavailable: {
		status:  http.StatusServiceUnavailable,
		code:    "service_unavailable",
		message: "The key service or the record store is unavailable",
	},
}

var internalError = errorMapping{
	status:  http.StatusInternalServerError,
	code:    "internal_error",
	message: "An internal error occurred",
}

// HandleErrorGin writes the response for err according to its error kind. Errors
// without a kind become a 500 whose details are only logged.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	mapping, ok := errorMappings[apperrors.KindOf(err)]
	if !ok {
		mapping = internalError
	}
	message := mapping.message
	if mapping.exposeCause {
		message = err.Error()
	}

	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", mapping.status),
			slog.String("error_code", mapping.code),
			slog.Any("error", err),
		)
	}

	if mapping.status == http.StatusServiceUnavailable {
		c.Header("Retry-After", "1")
	}
	writeError(c, mapping.status, mapping.code, message)
}

// HandleBadRequestGin writes a 400 Bad Request response for a malformed body or parameter.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}
	writeError(c, http.StatusBadRequest, "bad_request", err.Error())
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for a request
// that failed validation.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}
	writeError(c, http.StatusUnprocessableEntity, "validation_error", err.Error())
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: requestid.Get(c),
	})
}
