package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const digits = "0123456789"

// Generate produces a verification code of n decimal digits, each drawn
// independently and uniformly from crypto/rand.
func Generate(n int) (string, error) {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", fmt.Errorf("generate verification code: %w", err)
		}
		b[i] = digits[idx.Int64()]
	}
	return string(b), nil
}
