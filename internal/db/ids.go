package db

import (
	"crypto/rand"
	"encoding/hex"
)

const idRandomBytes = 12

// GenerateID creates a prefixed random document id, e.g. "usr_3f9ae2…".
func GenerateID(prefix string) (string, error) {
	b := make([]byte, idRandomBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return prefix + "_" + hex.EncodeToString(b), nil
}
