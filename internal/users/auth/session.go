// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/verdano/marketplace-api/internal/platform/apperr"
	"github.com/verdano/marketplace-api/internal/platform/sec"
	"github.com/verdano/marketplace-api/pkg/uuid"
)

// # Session Lifecycle

// SessionService owns the server-side session lifecycle: creation with
// supersession, token-based validation with lazy expiry, invalidation, and
// the periodic cleanup sweep.
//
// # Clock Injection
//
// All expiry arithmetic goes through the injected clock so tests can create
// already-expired sessions deterministically. Production uses time.Now.
type SessionService struct {
	sessionRepository SessionRepository
	userRepository    UserRepository
	now               func() time.Time
}

// NewSessionService constructs a [SessionService] backed by the given repositories.
func NewSessionService(sessionRepo SessionRepository, userRepo UserRepository) *SessionService {
	return &SessionService{
		sessionRepository: sessionRepo,
		userRepository:    userRepo,
		now:               time.Now,
	}
}

// WithClock overrides the service clock. Test hook; returns the receiver for chaining.
func (service *SessionService) WithClock(now func() time.Time) *SessionService {
	service.now = now
	return service
}

/*
Create establishes a fresh active session for a user, superseding any
previously active ones.

Description: Generates an unguessable 256-bit token, fixes the expiry at
creation time + 24h, and persists the row. The repository executes the
invalidate-then-insert sequence atomically per user, which enforces the
at-most-one-active-session invariant by construction.

Parameters:
  - context: context.Context
  - userID: string
  - userAgent: string (advisory provenance, may be empty)
  - ipAddress: string (advisory provenance, may be empty)

Returns:
  - *Session: The newly created active session, token included
  - error: Token generation or storage failures
*/
func (service *SessionService) Create(context context.Context, userID, userAgent, ipAddress string) (*Session, error) {

	// Fresh token on every call — tokens are never reused across sessions.
	token, err := sec.GenerateSecureToken(SessionTokenLength)
	if err != nil {
		return nil, fmt.Errorf("session_service_token_generation_failed: %w", err)
	}

	currentTime := service.now()
	session := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: currentTime.Add(SessionTTL),
		IsActive:  true,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: currentTime,
		UpdatedAt: currentTime,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("session_service_create_failed: %w", err)
	}

	return session, nil
}

/*
Validate resolves a session token into its bound user and session metadata.

Description: Looks up (token, active). Expiry is enforced lazily at read time:
an expired-but-still-active row is flipped to inactive here and now, then
rejected. No background sweep is required for correctness.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *User: The bound user, password hash redacted
  - *Session: Session metadata (token never echoed back)
  - error: apperr.Unauthorized for unknown/inactive/expired tokens;
    apperr.NotFound if the bound user record is missing (data-integrity fault)
*/
func (service *SessionService) Validate(context context.Context, token string) (*User, *Session, error) {

	session, err := service.sessionRepository.FindActiveByToken(context, token)
	if err != nil {
		// Unknown and already-invalidated tokens are indistinguishable.
		if apperr.IsNotFound(err) {
			return nil, nil, apperr.Unauthorized(invalidSessionMessage)
		}
		return nil, nil, fmt.Errorf("session_service_lookup_failed: %w", err)
	}

	// Lazy expiry: flip the row before rejecting so the observable state
	// converges even without the cleanup sweep.
	if session.ExpiredAt(service.now()) {
		if err := service.sessionRepository.Invalidate(context, session.ID); err != nil {
			return nil, nil, fmt.Errorf("session_service_expire_flip_failed: %w", err)
		}
		return nil, nil, apperr.Unauthorized(expiredSessionMessage)
	}

	// Referential-integrity fault: an active session must point at a user.
	// Only a confirmed absence maps to 404; connectivity failures propagate.
	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil, apperr.NotFoundMsg("User not found for session")
		}
		return nil, nil, fmt.Errorf("session_service_user_lookup_failed: %w", err)
	}

	// Never echo the token back on the read path.
	session.Token = ""

	return user.Public(), session, nil
}

/*
Invalidate terminates a single session by its token.

Description: Idempotent — unknown tokens and already-inactive sessions are a
silent no-op, so logout can never fail from the caller's perspective.

Returns:
  - error: Storage failures only
*/
func (service *SessionService) Invalidate(context context.Context, token string) error {
	if err := service.sessionRepository.InvalidateByToken(context, token); err != nil {
		return fmt.Errorf("session_service_invalidate_failed: %w", err)
	}
	return nil
}

/*
InvalidateAllForUser terminates every active session of a user ("log out everywhere").

Returns:
  - error: Storage failures
*/
func (service *SessionService) InvalidateAllForUser(context context.Context, userID string) error {
	if err := service.sessionRepository.InvalidateAllForUser(context, userID); err != nil {
		return fmt.Errorf("session_service_invalidate_all_failed: %w", err)
	}
	return nil
}

/*
CleanupExpired flips all active-but-past-expiry sessions to inactive.

Description: Pure hygiene on top of lazy expiry. Idempotent: when nothing is
expired the sweep changes no state, so it is safe to run repeatedly and
concurrently on a periodic schedule.

Returns:
  - error: Storage failures
*/
func (service *SessionService) CleanupExpired(context context.Context) error {
	if err := service.sessionRepository.InvalidateExpired(context, service.now()); err != nil {
		return fmt.Errorf("session_service_cleanup_failed: %w", err)
	}
	return nil
}
