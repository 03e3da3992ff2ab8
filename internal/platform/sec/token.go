// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a fresh unguessable token rendered as hex.
//
// byteLength is the entropy in bytes; 32 bytes yields 256 bits of entropy
// and a 64-character printable token. Tokens are never reused: every call
// draws from the operating system's CSPRNG.
func GenerateSecureToken(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
