package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// GenerateResetToken returns a raw password-reset secret and the sha256
// digest persisted for lookup. Only the raw value is mailed to the user; the
// store never sees it. The raw token carries 160 bits of entropy and is
// single-use and time-boxed, so a fast hash is sufficient here (passwords
// still go through bcrypt).
func GenerateResetToken() (raw string, hashed string, err error) {
	b := make([]byte, 20)
	if _, err = rand.Read(b); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(b)
	return raw, HashResetToken(raw), nil
}

// HashResetToken maps a raw reset token to its stored lookup value.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
