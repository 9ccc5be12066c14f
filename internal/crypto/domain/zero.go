package domain

// Zero overwrites every given buffer with zeros. Plaintext secret values, data
// keys and the envelopes carrying them are wiped with it once they are no
// longer needed.
func Zero(buffers ...[]byte) {
	for _, b := range buffers {
		clear(b)
	}
}
