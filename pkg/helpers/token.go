package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
)

// OpaqueTokenBytes is the entropy of reset and verification tokens.
const OpaqueTokenBytes = 32

var ErrMalformedToken = errors.New("malformed token")

// GenerateOpaqueToken returns a random base64url token (no padding).
func GenerateOpaqueToken() (string, error) {
	b := make([]byte, OpaqueTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashOpaqueToken returns the hex SHA-256 digest that is persisted instead
// of the token itself.
func HashOpaqueToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// CheckOpaqueToken rejects values that could not have been produced by
// GenerateOpaqueToken.
func CheckOpaqueToken(token string) error {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(b) != OpaqueTokenBytes {
		return ErrMalformedToken
	}
	return nil
}
