package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Key derives a fixed-length key "prefix:<sha256 hex>" from parts. Each
// part is terminated by a NUL before hashing so ("ab", "c") and ("a", "bc")
// never collide. URLs of any length map to keys safe for file names.
func Key(prefix string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}
