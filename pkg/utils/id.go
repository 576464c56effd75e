package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateID returns a random hex string of the given byte length.
func GenerateID(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid id length: %d", length)
	}
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
