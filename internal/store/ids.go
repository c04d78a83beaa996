package store

import (
	"encoding/base32"
	"strings"

	"github.com/google/uuid"
)

// NewID returns prefix-<suffix> where suffix is a random 128-bit UUID in lowercase base32
// (26 chars, no padding).
func NewID(prefix string) (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(u[:]))
	return prefix + "-" + suffix, nil
}
