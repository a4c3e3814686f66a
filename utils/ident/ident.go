// Package ident generates the random identifiers used by the note service:
// short alphanumeric lookup keys and high-entropy edit codes.
package ident

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Identifier lengths used across the service.
const (
	NoteIDLength  = 7
	ShortIDLength = 6
)

// Alphanumeric returns a uniformly random string of length n drawn from
// A-Za-z0-9. The result is a discoverable lookup key, not a secret, but
// crypto/rand keeps the distribution uniform and collision math honest.
func Alphanumeric(n int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b), nil
}

// EditCode returns a 32-character hex secret (128 bits of entropy) used to
// authorize note updates.
func EditCode() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
