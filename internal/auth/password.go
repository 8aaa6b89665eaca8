package auth

import (
	"crypto/rand"
	"math/big"
)

// GeneratePassword returns a random numeric code of the given length. Digits
// are drawn from crypto/rand one at a time so there is no modulo bias. The
// search space is deliberately small — these codes gate a single workshop for
// a few hours, and get read out loud in a room.
func GeneratePassword(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
