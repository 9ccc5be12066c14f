package service

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/kaurna/internal/crypto/domain"
)

// AESCBCCipher implements Cipher with AES in CBC mode and PKCS#7 padding.
//
// The output format is the IV immediately followed by the CBC output, rendered as a
// single standard base64 string. The key length selects AES-128, AES-192 or AES-256;
// data keys minted with cryptoDomain.KeySpecAES256 are always 32 bytes.
//
// Thread safety:
//
//	The cipher holds no per-call state and is safe for concurrent use.
type AESCBCCipher struct {
	random io.Reader
}

// NewAESCBCCipher creates a cipher drawing IVs from crypto/rand.
func NewAESCBCCipher() *AESCBCCipher {
	return &AESCBCCipher{random: rand.Reader}
}

// NewAESCBCCipherWithRandom creates a cipher drawing IVs from r.
func NewAESCBCCipherWithRandom(r io.Reader) *AESCBCCipher {
	return &AESCBCCipher{random: r}
}

// Encrypt pads plaintext to the block size and encrypts it under key.
//
// Returns cryptoDomain.ErrInvalidKeySize for keys that are not 16, 24 or 32 bytes and
// cryptoDomain.ErrInvalidIVSize for a non-nil iv that is not exactly one block.
func (a *AESCBCCipher) Encrypt(plaintext, key, iv []byte) (string, error) {
	block, err := newBlock(key)
	if err != nil {
		return "", err
	}

	if iv == nil {
		iv = make([]byte, aes.BlockSize)
		if _, err := io.ReadFull(a.random, iv); err != nil {
			return "", fmt.Errorf("failed to generate iv: %w", err)
		}
	} else if len(iv) != aes.BlockSize {
		return "", cryptoDomain.ErrInvalidIVSize
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	out := make([]byte, aes.BlockSize+len(padded))
	copy(out, iv)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt base64-decodes ciphertext, splits off the leading IV, decrypts the rest and
// strips the padding.
//
// Any malformed input (bad base64, fewer than two blocks, misaligned length, bad
// padding) fails with cryptoDomain.ErrDecryptionFailed without further detail.
func (a *AESCBCCipher) Decrypt(ciphertext string, key []byte) ([]byte, error) {
	block, err := newBlock(key)
	if err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	if len(raw) < 2*aes.BlockSize || len(raw)%aes.BlockSize != 0 {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	iv, body := raw[:aes.BlockSize], raw[aes.BlockSize:]
	plaintext := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, body)

	unpadded, ok := pkcs7Unpad(plaintext, aes.BlockSize)
	if !ok {
		cryptoDomain.Zero(plaintext)
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return unpadded, nil
}

func newBlock(key []byte) (cipher.Block, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cryptoDomain.ErrInvalidKeySize, err)
	}
	return block, nil
}

// pkcs7Pad always appends between 1 and blockSize bytes.
func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, false
	}
	pad := bytes.Repeat([]byte{byte(n)}, n)
	if subtle.ConstantTimeCompare(data[len(data)-n:], pad) != 1 {
		return nil, false
	}
	return data[:len(data)-n], true
}
