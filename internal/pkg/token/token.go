package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewSecret returns n random bytes hex-encoded. Used for admin API keys and hub secrets.
func NewSecret(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("secret length must be positive, got %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
