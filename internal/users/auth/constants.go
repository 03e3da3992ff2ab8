// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

package auth

import "time"

// # Authentication Constraints

const (
	// IdentityTokenTTL is the duration a signed identity token remains valid.
	// It cannot be revoked early, so it matches the session window rather
	// than outliving it.
	IdentityTokenTTL = 24 * time.Hour

	// SessionTTL is the fixed lifetime of a session, set once at creation.
	// There is no sliding expiration: validation never extends the deadline.
	SessionTTL = 24 * time.Hour

	// SessionTokenLength is the byte length of the random session token.
	// 32 bytes = 256 bits of entropy, hex-encoded to 64 printable characters.
	SessionTokenLength = 32

	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (1 hour) for security.
	ResetTokenTTL = 1 * time.Hour

	// ResetTokenLength is the byte length of the random password reset token.
	ResetTokenLength = 32
)

// # Opaque Error Messages

const (
	// loginFailedMessage is returned for unknown email, wrong password, AND
	// non-active account status alike, so callers cannot use the login
	// endpoint as a user-existence oracle.
	loginFailedMessage = "Invalid credentials"

	// invalidSessionMessage is returned when no active session matches a token.
	invalidSessionMessage = "Invalid session token"

	// expiredSessionMessage is returned when a session exists but its deadline passed.
	expiredSessionMessage = "Session expired"
)
