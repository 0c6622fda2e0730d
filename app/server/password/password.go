// Package password hashes and verifies user passwords. New hashes use
// argon2id; bcrypt hashes carried over from the previous backend still verify.
package password

import (
	"errors"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinLength = 6
	MaxLength = 72 // bcrypt input limit, kept for every algorithm so old and new accounts share one rule
)

var ErrTooLong = errors.New("password exceeds 72 bytes")

type Hasher struct {
	params *argon2id.Params
}

// New returns a Hasher using params, or argon2id.DefaultParams when nil.
func New(params *argon2id.Params) *Hasher {
	if params == nil {
		params = argon2id.DefaultParams
	}
	return &Hasher{params: params}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxLength {
		return "", ErrTooLong
	}
	return argon2id.CreateHash(plaintext, h.params)
}

// Verify reports whether plaintext matches hash. Unknown or malformed hashes
// never match.
func (h *Hasher) Verify(plaintext, hash string) bool {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		match, _, err := argon2id.CheckHash(plaintext, hash)
		return err == nil && match
	case isBcrypt(hash):
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
	default:
		return false
	}
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}
