// Package otp issues and verifies the one-time numeric codes used to
// prove control of an email address.
package otp

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"
)

// TTL is how long an issued code stays valid.
const TTL = 10 * time.Minute

const (
	codeMin   = 100000
	codeRange = 900000
)

// Challenge holds a freshly issued code together with its storable form.
// The plaintext Code is for delivery only and is never persisted.
type Challenge struct {
	Code      string
	Hash      string
	ExpiresAt time.Time
}

// Issue produces a 6-digit code uniformly distributed over 100000-999999,
// its SHA-256 hex digest for storage, and an absolute expiry.
func Issue() (*Challenge, error) {
	n, err := cryptoRandIntn(codeRange)
	if err != nil {
		return nil, fmt.Errorf("failed to generate otp: %w", err)
	}

	code := fmt.Sprintf("%06d", codeMin+n)

	return &Challenge{
		Code:      code,
		Hash:      HashCode(code),
		ExpiresAt: time.Now().Add(TTL),
	}, nil
}

// HashCode returns the storable digest of a code.
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the digest of candidate and compares it against
// storedHash in constant time. Malformed input is treated as invalid,
// never as an error.
func Verify(candidate, storedHash string) bool {
	if candidate == "" || storedHash == "" {
		return false
	}

	stored, err := hex.DecodeString(storedHash)
	if err != nil {
		return false
	}

	sum := sha256.Sum256([]byte(candidate))
	if len(sum) != len(stored) {
		return false
	}

	return subtle.ConstantTimeCompare(sum[:], stored) == 1
}

// cryptoRandIntn returns a secure random number between 0 and max (exclusive).
// Uses crypto/rand instead of math/rand for security-sensitive operations.
func cryptoRandIntn(max int) (int, error) {
	if max <= 0 {
		return 0, nil
	}

	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return 0, err
	}

	randomValue := binary.BigEndian.Uint64(randomBytes)
	return int(randomValue % uint64(max)), nil
}
