package usecase

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentID derives the vector store primary key from message text: the hex
// SHA-256 of its UTF-8 bytes. Identical content always maps to the same id,
// which is what makes re-ingestion overwrite instead of duplicate. Empty
// text returns an empty id, signalling "skip".
func ContentID(text string) string {
	if text == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
