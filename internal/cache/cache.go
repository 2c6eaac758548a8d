package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// EmbeddingKey generates a cache key for an embedding request. The key
// covers provider, model and text so switching models never serves a
// stale vector.
func EmbeddingKey(provider, model, text string) string {
	hash := sha256.Sum256([]byte(provider + "|" + model + "|" + text))
	return "claimlens:v1:" + hex.EncodeToString(hash[:])
}
