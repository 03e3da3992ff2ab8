// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

/*
Package auth implements credential verification and the session lifecycle for
the Verdano marketplace.

It defines the core domain entities (User, Session) and the logic for
authentication, session supersession, and account credential management.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.

Two credential types coexist deliberately:

  - Identity token: stateless, signed, verified by signature + expiry alone.
    Fast to check, impossible to revoke before expiry.
  - Session token: opaque, store-backed, bound to exactly one session row.
    The only revocable handle; at most one active session exists per user.
*/
package auth

import (
	"time"

	"github.com/verdano/marketplace-api/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Verdano marketplace.
//
// PasswordHash is explicitly omitted from JSON; any path returning a User to
// a caller outside this package must go through [User.Public] as well, so the
// hash can never leak even if the struct tag is accidentally changed.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	Phone        string         `json:"phone,omitempty"`
	Role         sec.UserRole   `json:"role"`
	Status       sec.UserStatus `json:"status"`
	Address      string         `json:"address,omitempty"`
	City         string         `json:"city,omitempty"`
	State        string         `json:"state,omitempty"`
	PostalCode   string         `json:"postal_code,omitempty"`
	Country      string         `json:"country,omitempty"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Public returns a copy of the user with the password hash stripped.
//
// Redaction is a hard invariant of this package: every service method that
// hands a User to the transport layer returns this projection.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	redacted := *u
	redacted.PasswordHash = ""
	return &redacted
}

// CanAuthenticate reports whether the account is allowed to log in.
// Only ACTIVE users may authenticate; PENDING and INACTIVE may not.
func (u *User) CanAuthenticate() bool {
	return u.Status == sec.StatusActive
}

// Session represents a server-side session row bound to a user.
//
// # State Machine
//
// CREATED (active) → INVALIDATED (inactive). The transition happens exactly
// once — on explicit logout, superseding login, expiry detection, or bulk
// cleanup — and never reverses. Rows are never physically deleted; inactive
// rows remain for audit.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"-"` // Opaque 256-bit credential. Returned only by the create path, never on reads.
	ExpiresAt time.Time `json:"expires_at"`
	IsActive  bool      `json:"is_active"`
	UserAgent string    `json:"user_agent,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExpiredAt reports whether the session's fixed deadline has passed at the
// given instant. ExpiresAt is set once at creation and never extended — there
// is no sliding expiration.
func (s *Session) ExpiredAt(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldRole            = "role"
	FieldToken           = "token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldSessionToken    = "session_token"
	FieldUser            = "user"
	FieldSession         = "session"
	FieldMessage         = "message"
	FieldValid           = "valid"
)
