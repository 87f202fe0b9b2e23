package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// keyPrefix is bumped whenever cached value shapes change
const keyPrefix = "evidentia:v1:"

// Cache defines the interface for caching. Entries live until Clear or process exit.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Clear() error
}

// Key derives a stable cache key from an operation kind, its input text and parameters
func Key(kind, input string, params ...string) string {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(strings.TrimSpace(input)))
	for _, p := range params {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return keyPrefix + kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// Nop is a cache that never stores anything; every Get misses
type Nop struct{}

func (Nop) Get(string) ([]byte, bool) { return nil, false }
func (Nop) Set(string, []byte) error  { return nil }
func (Nop) Clear() error              { return nil }
