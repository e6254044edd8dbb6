package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash returns the hex SHA-256 of its parts joined by "|". Cache keys,
// session keys and upload prefixes are built from it.
func Hash(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// ShortHash is the first n hex characters of Hash.
func ShortHash(n int, parts ...string) string {
	h := Hash(parts...)
	if n <= 0 || n > len(h) {
		return h
	}
	return h[:n]
}
