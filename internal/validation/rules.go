// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/kaurna/internal/errors"
)

// MaxNameLength bounds secret and entity names.
const MaxNameLength = 255

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// SecretName validates a secret or entity name: non-blank, no surrounding
// whitespace, no control characters and at most MaxNameLength bytes.
var SecretName = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_name_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if len(s) > MaxNameLength {
		return validation.NewError("validation_name_length", "must be at most 255 bytes")
	}
	if hasControlChar(s) {
		return validation.NewError("validation_name_control", "must not contain control characters")
	}
	if s != strings.TrimSpace(s) {
		return validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace")
	}
	return nil
})

// hasControlChar checks if string contains control characters
func hasControlChar(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
