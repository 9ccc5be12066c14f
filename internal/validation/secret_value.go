package validation

import (
	"encoding/base64"
	"fmt"

	validation "github.com/jellydator/validation"
)

// MaxSecretValueSize bounds the decoded secret value. The encrypted and
// base64-rendered record must still fit in a single DynamoDB item (400 KB).
const MaxSecretValueSize = 256 * 1024

// SecretValue validates a secret value as submitted over the API: standard
// base64 whose decoded payload is at most MaxSecretValueSize bytes.
var SecretValue = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_secret_value_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if base64.StdEncoding.DecodedLen(len(s)) > MaxSecretValueSize+2 {
		return tooLarge()
	}
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return validation.NewError("validation_base64", "must be valid base64-encoded data")
	}
	if len(decoded) > MaxSecretValueSize {
		return tooLarge()
	}
	return nil
})

func tooLarge() error {
	return validation.NewError(
		"validation_secret_value_size",
		fmt.Sprintf("must decode to at most %d bytes", MaxSecretValueSize),
	)
}
