package internal

import (
	"crypto/rand"
	"encoding/base64"
)

// 48 bytes of entropy per refresh credential; the encoded form carries no
// claims and is matched verbatim against the identity record.
const refreshTokenRawSize = 48

// NewRefreshToken generates an opaque refresh credential from a
// cryptographically secure random source.
func NewRefreshToken() (string, error) {
	var raw [refreshTokenRawSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}

	// base64url, no padding, compact
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}
