package utils

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
	"time"
)

// LocationPayload is the plaintext form of one encrypted fix.
type LocationPayload struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  *float64  `json:"accuracy,omitempty"`
	Speed     *float64  `json:"speed,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// LocationCipher seals raw coordinates with AES-256-GCM before they are
// persisted. The key is derived from the configured secret with SHA-256, so
// any non-empty secret string works.
type LocationCipher struct {
	aead cipher.AEAD
}

func NewLocationCipher(secret string) (*LocationCipher, error) {
	if secret == "" {
		return nil, errors.New("encryption key must not be empty")
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &LocationCipher{aead: aead}, nil
}

// EncryptLocation returns a base64 blob of nonce plus ciphertext.
func (c *LocationCipher) EncryptLocation(lat, lon float64, accuracy, speed *float64, timestamp time.Time) (string, error) {
	payload := LocationPayload{
		Latitude:  lat,
		Longitude: lon,
		Accuracy:  accuracy,
		Speed:     speed,
		Timestamp: timestamp,
	}
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal location payload: %w", err)
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptLocation reverses EncryptLocation. The API never calls this; it
// exists for support tooling and tests.
func (c *LocationCipher) DecryptLocation(blob string) (*LocationPayload, error) {
	sealed, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("failed to decode location blob: %w", err)
	}
	if len(sealed) < c.aead.NonceSize() {
		return nil, errors.New("location blob too short")
	}
	nonce, ciphertext := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt location blob: %w", err)
	}

	var payload LocationPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal location payload: %w", err)
	}
	return &payload, nil
}
