package util

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a random URL-safe hex identifier. Used for request ids and
// opaque session tokens; domain entities carry UUIDs instead.
func NewID() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "id-unknown"
	}
	return hex.EncodeToString(b[:])
}
