// Package crypt seals small values with AES-256-GCM for storage in
// client-held places such as cookies. Output is base64url(nonce||ct||tag).
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aircon-store/storefront/config"
)

// ErrDecrypt is returned when a value was tampered with, truncated or
// sealed under another key.
var ErrDecrypt = errors.New("crypt: decryption failed")

// Box seals and opens values under one key.
type Box struct {
	aead cipher.AEAD
}

// New derives a 256-bit key from secret.
func New(secret string) (*Box, error) {
	if secret == "" {
		return nil, errors.New("crypt: empty secret")
	}
	k := sha256.Sum256([]byte(secret))

	block, err := aes.NewCipher(k[:])
	if err != nil {
		return nil, fmt.Errorf("crypt: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypt: new GCM: %w", err)
	}
	return &Box{aead: gcm}, nil
}

// Default returns a Box keyed by APP_KEY (or the JWT secret).
func Default() (*Box, error) {
	return New(config.AppKey())
}

func (b *Box) SealBytes(data []byte) (string, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("crypt: nonce: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b.aead.Seal(nonce, nonce, data, nil)), nil
}

func (b *Box) OpenBytes(encoded string) ([]byte, error) {
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrDecrypt
	}
	ns := b.aead.NonceSize()
	if len(data) < ns {
		return nil, ErrDecrypt
	}
	plain, err := b.aead.Open(nil, data[:ns], data[ns:], nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}

// SealJSON marshals v and seals it.
func (b *Box) SealJSON(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("crypt: marshal: %w", err)
	}
	return b.SealBytes(raw)
}

// OpenJSON opens encoded and unmarshals it into dest.
func (b *Box) OpenJSON(encoded string, dest interface{}) error {
	raw, err := b.OpenBytes(encoded)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return ErrDecrypt
	}
	return nil
}
