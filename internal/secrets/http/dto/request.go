// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/base64"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/kaurna/internal/validation"
)

// StoreSecretRequest contains the parameters for storing a new secret version.
// The name is extracted from the URL parameter, not the request body.
type StoreSecretRequest struct {
	Value              string   `json:"value"`
	Version            uint     `json:"version"`
	AuthorizedEntities []string `json:"authorized_entities"`
}

// Validate checks if the store secret request is valid.
func (r *StoreSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Value, validation.Required, customValidation.SecretValue),
		validation.Field(&r.AuthorizedEntities,
			validation.Each(validation.Required, customValidation.SecretName),
		),
	)
}

// DecodedValue returns the secret bytes carried by Value.
func (r *StoreSecretRequest) DecodedValue() ([]byte, error) {
	return base64.StdEncoding.DecodeString(r.Value)
}

// UpdateAuthorizedEntitiesRequest replaces the entities authorized to read a secret.
type UpdateAuthorizedEntitiesRequest struct {
	AuthorizedEntities []string `json:"authorized_entities"`
}

// Validate checks if the update request is valid. An empty list is allowed and
// leaves the secret readable only under an empty context.
func (r *UpdateAuthorizedEntitiesRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.AuthorizedEntities,
			validation.NotNil,
			validation.Each(validation.Required, customValidation.SecretName),
		),
	)
}
