// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher performs one-way password hashing with a work factor fixed at
// construction time, so verification cost stays predictable per deployment.
//
// bcrypt salts every hash internally, so two hashes of the same password
// never match byte-for-byte, and comparison is constant-time with respect
// to partial matches.
type Hasher struct {
	cost int
}

// NewHasher constructs a [Hasher] with the given bcrypt cost.
// Costs outside bcrypt's supported range fall back to the library default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash transforms a plain-text password into an opaque bcrypt hash.
func (h *Hasher) Hash(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), h.cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// Verify compares a plain-text password with its hashed version.
// A malformed hash is treated as a mismatch, never as an error.
func (h *Hasher) Verify(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
