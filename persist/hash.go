package persist

import (
	"crypto/sha256"
	"encoding/hex"
)

func hash(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}

// hashKey returns a file-system safe name for the key.
func hashKey(key string) string {
	return hex.EncodeToString(hash([]byte(key)))
}
