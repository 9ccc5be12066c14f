package domain

// DataKey is a per-version symmetric key as returned by a master-key service.
//
// Plaintext is held in memory only for the duration of one operation and must be
// cleared with Zero once used. Ciphertext is the wrapped form that gets persisted.
type DataKey struct {
	Plaintext  []byte
	Ciphertext []byte
}

// Zero clears the plaintext key material.
func (d *DataKey) Zero() {
	if d == nil {
		return
	}
	Zero(d.Plaintext)
}
