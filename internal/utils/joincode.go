package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	joinCodeLength   = 6
	joinCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// GenerateJoinCode returns a random upper-case base36 code for private
// communities.
func GenerateJoinCode() (string, error) {
	code := make([]byte, joinCodeLength)
	max := big.NewInt(int64(len(joinCodeAlphabet)))

	for i := range code {
		n, err := rand.Int(rand.Reader, max)

		if err != nil {
			return "", err
		}

		code[i] = joinCodeAlphabet[n.Int64()]
	}

	return string(code), nil
}
