// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// The core never deletes users; profile CRUD beyond these operations belongs
// to the account collaborator package.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account.

		The email uniqueness constraint in storage is the authoritative
		arbiter for duplicate registration; implementations must surface a
		unique violation as apperr.Conflict.

		Returns:
		  - error: apperr.Conflict or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		UpdateLastLogin records the time of a successful authentication.

		Callers treat this as best-effort: a failure here never aborts a login.

		Returns:
		  - error: Persistence failures
	*/
	UpdateLastLogin(context context.Context, userID string, loginTime time.Time) error
}

// # Session Data Access

// SessionRepository defines the persistence contract for session rows.
//
// Sessions are soft-state: every mutation flips isactive, nothing is deleted.
type SessionRepository interface {

	/*
		Create persists a new active session, superseding any currently
		active sessions for the same user.

		Implementations must make the invalidate-then-insert sequence atomic
		per user (row lock or equivalent), so two concurrent logins cannot
		leave zero or two active sessions behind.

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		FindActiveByToken returns the session matching (token, isactive=true).

		Expiry is NOT filtered here: the service layer applies its own clock
		so expiry detection stays deterministic under test.

		Returns:
		  - *Session: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindActiveByToken(context context.Context, token string) (*Session, error)

	/*
		Invalidate flips a single session to inactive by its ID.
		No-op if the session is already inactive.

		Returns:
		  - error: Persistence failures
	*/
	Invalidate(context context.Context, sessionID string) error

	/*
		InvalidateByToken flips a single session to inactive by its token.
		Idempotent: unknown or already-inactive tokens are a silent no-op.

		Returns:
		  - error: Persistence failures
	*/
	InvalidateByToken(context context.Context, token string) error

	/*
		InvalidateAllForUser flips every active session of a user to inactive.
		Used by superseding logins, password resets, and "log out everywhere".

		Returns:
		  - error: Persistence failures
	*/
	InvalidateAllForUser(context context.Context, userID string) error

	/*
		InvalidateExpired flips all active sessions whose deadline lies
		before the given instant. Pure housekeeping: idempotent and safe to
		run concurrently.

		Returns:
		  - error: Persistence failures
	*/
	InvalidateExpired(context context.Context, now time.Time) error
}

// # Volatile Data Access

// ResetTokenRepository defines the contract for storing volatile password reset tokens.
type ResetTokenRepository interface {

	/*
		Set stores a reset token associated with a userID for a limited duration.

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, token string, userID string, ttl time.Duration) error

	/*
		Get retrieves the userID associated with a given reset token.

		Returns:
		  - string: UserID
		  - error: apperr.NotFound if absent or expired
	*/
	Get(context context.Context, token string) (string, error)

	/*
		Delete removes a reset token after successful use.

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, token string) error
}
