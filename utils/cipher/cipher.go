// Package cipher encrypts note content at rest with AES-256-GCM. The key is
// derived from a configured passphrase with argon2id; an unset passphrase
// disables encryption entirely and notes are stored as plaintext.
package cipher

import (
	"crypto/aes"
	gocipher "crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

var ErrInvalidBlob = errors.New("invalid encrypted blob")

type Cipher struct {
	aead gocipher.AEAD
}

// New derives a 32-byte key from the passphrase and salt and returns a
// ready-to-use cipher. An empty passphrase returns (nil, nil): callers treat
// a nil *Cipher as "encryption disabled".
func New(passphrase, salt string) (*Cipher, error) {
	if passphrase == "" {
		return nil, nil
	}

	key := argon2.IDKey([]byte(passphrase), []byte(salt), 1, 64*1024, 4, 32)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aead, err := gocipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext with a fresh nonce and returns
// base64(nonce || ciphertext).
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Tampered or truncated blobs fail authentication.
func (c *Cipher) Decrypt(blob string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBlob, err)
	}

	ns := c.aead.NonceSize()
	if len(raw) < ns {
		return "", ErrInvalidBlob
	}

	plaintext, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBlob, err)
	}

	return string(plaintext), nil
}
