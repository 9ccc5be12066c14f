package domain

// ContextMarker is the value every authorized entity maps to in an encryption context.
const ContextMarker = "kaurna"

// DefaultKeyAlias is the well-known alias of the master key.
const DefaultKeyAlias = "alias/kaurna"

// KeySpec identifies the data-key strength requested from the master-key service.
type KeySpec string

const (
	// KeySpecAES256 requests 256-bit data keys, matching AES-256-CBC.
	KeySpecAES256 KeySpec = "AES_256"
)

// DataKeySize is the plaintext data-key length in bytes for KeySpecAES256.
const DataKeySize = 32
