package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

// Digits is the fixed width of every generated code.
const Digits = 6

var space = big.NewInt(1_000_000)

// New returns a zero-padded 6-digit code drawn uniformly from crypto/rand.
func New() (string, error) {
	n, err := rand.Int(rand.Reader, space)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", Digits, n.Int64()), nil
}

// Matches reports whether submitted equals stored in constant time.
// An empty stored code never matches.
func Matches(stored, submitted string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}
