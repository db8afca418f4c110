// Package textid provides deterministic cache keys for encoded sentences.
package textid

import (
	"crypto/sha256"
	"encoding/hex"
)

// TextID returns a stable key for text encoded by model.
// The same model and text always yield the same ID; a different model never collides with it.
func TextID(model, text string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
