// Package cache stores search responses so repeated checks of the same claim
// do not spend search API quota.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const keyPrefix = "hallucheck:v1:"

// Key derives a cache key from its parts (provider, depth, query, ...).
// Queries are case- and whitespace-insensitive.
func Key(parts ...string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		normalized[i] = strings.Join(strings.Fields(strings.ToLower(p)), " ")
	}
	hash := sha256.Sum256([]byte(strings.Join(normalized, "\x00")))
	return keyPrefix + hex.EncodeToString(hash[:])
}
