// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

package auth_test

import (
	"context"
	"encoding/hex"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdano/marketplace-api/internal/platform/apperr"
	"github.com/verdano/marketplace-api/internal/platform/sec"
	"github.com/verdano/marketplace-api/internal/users/auth"
	"github.com/verdano/marketplace-api/pkg/uuid"
)

// fixedClock pins the session service's notion of "now".
type fixedClock struct {
	current time.Time
}

func (c *fixedClock) now() time.Time { return c.current }

func (c *fixedClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func newSessionFixture() (*auth.SessionService, *fakeSessionRepository, *fakeUserRepository, *fixedClock) {
	sessionRepo := newFakeSessionRepository()
	userRepo := newFakeUserRepository()
	clock := &fixedClock{current: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	service := auth.NewSessionService(sessionRepo, userRepo).WithClock(clock.now)
	return service, sessionRepo, userRepo, clock
}

func seedActiveUser(t *testing.T, userRepo *fakeUserRepository) *auth.User {
	t.Helper()
	user := &auth.User{
		ID:           uuid.New(),
		Email:        "seller@verdano.app",
		PasswordHash: "$2a$04$irrelevant",
		FirstName:    "Mika",
		LastName:     "Tanaka",
		Role:         sec.RoleSeller,
		Status:       sec.StatusActive,
	}
	require.NoError(t, userRepo.Create(context.Background(), user))
	return user
}

/*
TestSessionService_Create checks token shape, fixed TTL, and activity.
*/
func TestSessionService_Create(t *testing.T) {
	service, _, userRepo, clock := newSessionFixture()
	user := seedActiveUser(t, userRepo)

	session, err := service.Create(context.Background(), user.ID, "Firefox", "203.0.113.7")
	require.NoError(t, err)

	// 256 bits of entropy, hex encoded
	assert.Len(t, session.Token, 64)
	_, decodeErr := hex.DecodeString(session.Token)
	assert.NoError(t, decodeErr)

	// Deadline is fixed at creation: clock + 24h, no sliding window
	assert.Equal(t, clock.current.Add(auth.SessionTTL), session.ExpiresAt)
	assert.True(t, session.IsActive)
	assert.Equal(t, "Firefox", session.UserAgent)
	assert.Equal(t, "203.0.113.7", session.IPAddress)
}

/*
TestSessionService_Create_SupersedesPrevious enforces at most one active
session per user.
*/
func TestSessionService_Create_SupersedesPrevious(t *testing.T) {
	service, sessionRepo, userRepo, _ := newSessionFixture()
	user := seedActiveUser(t, userRepo)

	first, err := service.Create(context.Background(), user.ID, "laptop", "")
	require.NoError(t, err)
	second, err := service.Create(context.Background(), user.ID, "phone", "")
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
	assert.Equal(t, 1, sessionRepo.activeCountFor(user.ID))

	// The superseded token no longer validates
	_, _, err = service.Validate(context.Background(), first.Token)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)

	// The fresh one does
	_, validated, err := service.Validate(context.Background(), second.Token)
	require.NoError(t, err)
	assert.Equal(t, second.ID, validated.ID)
}

/*
TestSessionService_Validate checks the happy path: redacted user, no token echo.
*/
func TestSessionService_Validate(t *testing.T) {
	service, _, userRepo, _ := newSessionFixture()
	user := seedActiveUser(t, userRepo)

	created, err := service.Create(context.Background(), user.ID, "", "")
	require.NoError(t, err)

	validatedUser, validatedSession, err := service.Validate(context.Background(), created.Token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, validatedUser.ID)
	assert.Empty(t, validatedUser.PasswordHash)

	// The token is never echoed back on the read path
	assert.Empty(t, validatedSession.Token)
	assert.Equal(t, created.ID, validatedSession.ID)
}

/*
TestSessionService_Validate_UnknownToken rejects tokens with no session row.
*/
func TestSessionService_Validate_UnknownToken(t *testing.T) {
	service, _, _, _ := newSessionFixture()

	_, _, err := service.Validate(context.Background(), "no-such-token")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
	assert.Equal(t, "Invalid session token", ae.Message)
}

/*
TestSessionService_Validate_LazyExpiry checks that an expired-but-active
session is flipped inactive at read time and rejected.
*/
func TestSessionService_Validate_LazyExpiry(t *testing.T) {
	service, sessionRepo, userRepo, clock := newSessionFixture()
	user := seedActiveUser(t, userRepo)

	created, err := service.Create(context.Background(), user.ID, "", "")
	require.NoError(t, err)

	// Move past the fixed 24h deadline
	clock.advance(auth.SessionTTL + time.Minute)

	_, _, err = service.Validate(context.Background(), created.Token)
	require.Error(t, err)
	assert.Equal(t, "Session expired", apperr.As(err).Message)

	// The row was flipped, not deleted
	stored := sessionRepo.get(created.ID)
	require.NotNil(t, stored)
	assert.False(t, stored.IsActive)

	// A second validate now takes the unknown-token path
	_, _, err = service.Validate(context.Background(), created.Token)
	require.Error(t, err)
	assert.Equal(t, "Invalid session token", apperr.As(err).Message)
}

/*
TestSessionService_Validate_MissingUser covers the data-integrity fault where
an active session points at a vanished user.
*/
func TestSessionService_Validate_MissingUser(t *testing.T) {
	service, _, _, _ := newSessionFixture()

	// Session created for a user that was never stored
	created, err := service.Create(context.Background(), "ghost-user", "", "")
	require.NoError(t, err)

	_, _, err = service.Validate(context.Background(), created.Token)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}

/*
TestSessionService_Validate_UserLookupFailure keeps infrastructure failures
distinct from the 404 a genuinely missing user maps to.
*/
func TestSessionService_Validate_UserLookupFailure(t *testing.T) {
	service, _, userRepo, _ := newSessionFixture()
	user := seedActiveUser(t, userRepo)

	created, err := service.Create(context.Background(), user.ID, "", "")
	require.NoError(t, err)

	// A connectivity fault on the user lookup must not masquerade as 404
	userRepo.findByIDErr = apperr.Internal(assert.AnError)

	_, _, err = service.Validate(context.Background(), created.Token)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperr.As(err).HTTPStatus)
}

/*
TestSessionService_Invalidate_Idempotent checks repeat and unknown-token calls succeed.
*/
func TestSessionService_Invalidate_Idempotent(t *testing.T) {
	service, _, userRepo, _ := newSessionFixture()
	user := seedActiveUser(t, userRepo)

	created, err := service.Create(context.Background(), user.ID, "", "")
	require.NoError(t, err)

	require.NoError(t, service.Invalidate(context.Background(), created.Token))
	require.NoError(t, service.Invalidate(context.Background(), created.Token))
	require.NoError(t, service.Invalidate(context.Background(), "never-existed"))

	_, _, err = service.Validate(context.Background(), created.Token)
	assert.Error(t, err)
}

/*
TestSessionService_CleanupExpired sweeps only past-deadline sessions and is idempotent.
*/
func TestSessionService_CleanupExpired(t *testing.T) {
	service, sessionRepo, userRepo, clock := newSessionFixture()
	expiredOwner := seedActiveUser(t, userRepo)

	freshOwner := &auth.User{
		ID: uuid.New(), Email: "buyer@verdano.app",
		Role: sec.RoleBuyer, Status: sec.StatusActive,
	}
	require.NoError(t, userRepo.Create(context.Background(), freshOwner))

	expired, err := service.Create(context.Background(), expiredOwner.ID, "", "")
	require.NoError(t, err)

	// Second session created 23h later: still inside its own window after the sweep
	clock.advance(23 * time.Hour)
	fresh, err := service.Create(context.Background(), freshOwner.ID, "", "")
	require.NoError(t, err)

	// 2h more puts only the first session past its deadline
	clock.advance(2 * time.Hour)
	require.NoError(t, service.CleanupExpired(context.Background()))

	assert.False(t, sessionRepo.get(expired.ID).IsActive)
	assert.True(t, sessionRepo.get(fresh.ID).IsActive)

	// Idempotent: nothing changes on a second sweep
	require.NoError(t, service.CleanupExpired(context.Background()))
	assert.True(t, sessionRepo.get(fresh.ID).IsActive)
}

/*
TestSessionService_ExactDeadlineBoundary: a session expiring at exactly "now"
is still valid, for the sweep and for validation alike.
*/
func TestSessionService_ExactDeadlineBoundary(t *testing.T) {
	service, sessionRepo, userRepo, clock := newSessionFixture()
	user := seedActiveUser(t, userRepo)

	created, err := service.Create(context.Background(), user.ID, "", "")
	require.NoError(t, err)

	// now == ExpiresAt: not yet past the deadline
	clock.advance(auth.SessionTTL)

	require.NoError(t, service.CleanupExpired(context.Background()))
	assert.True(t, sessionRepo.get(created.ID).IsActive)

	_, _, err = service.Validate(context.Background(), created.Token)
	require.NoError(t, err)

	// One tick later both paths agree it is expired
	clock.advance(time.Nanosecond)
	require.NoError(t, service.CleanupExpired(context.Background()))
	assert.False(t, sessionRepo.get(created.ID).IsActive)
}

/*
TestSessionService_InvalidateAllForUser cuts every session of one user only.
*/
func TestSessionService_InvalidateAllForUser(t *testing.T) {
	service, sessionRepo, userRepo, _ := newSessionFixture()
	target := seedActiveUser(t, userRepo)

	bystander := &auth.User{
		ID: uuid.New(), Email: "buyer@verdano.app",
		Role: sec.RoleBuyer, Status: sec.StatusActive,
	}
	require.NoError(t, userRepo.Create(context.Background(), bystander))

	_, err := service.Create(context.Background(), target.ID, "", "")
	require.NoError(t, err)
	kept, err := service.Create(context.Background(), bystander.ID, "", "")
	require.NoError(t, err)

	require.NoError(t, service.InvalidateAllForUser(context.Background(), target.ID))

	assert.Equal(t, 0, sessionRepo.activeCountFor(target.ID))
	assert.True(t, sessionRepo.get(kept.ID).IsActive)
}
