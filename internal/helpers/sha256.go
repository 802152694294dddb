package helpers

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256 returns the hex encoded SHA-256 digest of input.
func SHA256(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])
}
