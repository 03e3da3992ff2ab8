// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

package auth_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/verdano/marketplace-api/internal/platform/apperr"
	"github.com/verdano/marketplace-api/internal/platform/sec"
	"github.com/verdano/marketplace-api/internal/users/auth"
)

type serviceFixture struct {
	service     *auth.Service
	userRepo    *fakeUserRepository
	sessionRepo *fakeSessionRepository
	resetRepo   *fakeResetTokenRepository
	hasher      *sec.Hasher
}

func newServiceFixture() *serviceFixture {
	userRepo := newFakeUserRepository()
	sessionRepo := newFakeSessionRepository()
	resetRepo := newFakeResetTokenRepository()
	hasher := sec.NewHasher(bcrypt.MinCost)

	sessions := auth.NewSessionService(sessionRepo, userRepo)
	service := auth.NewService(userRepo, resetRepo, sessions, fakeTokenProvider{}, hasher)

	return &serviceFixture{
		service:     service,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		resetRepo:   resetRepo,
		hasher:      hasher,
	}
}

// registerActive enrolls a user and promotes them to ACTIVE so login works.
func (f *serviceFixture) registerActive(t *testing.T, email, password string, role sec.UserRole) *auth.User {
	t.Helper()
	result, err := f.service.Register(context.Background(), auth.RegisterInput{
		Email:     email,
		Password:  password,
		FirstName: "Noor",
		LastName:  "Haddad",
		Role:      role,
	})
	require.NoError(t, err)

	f.userRepo.mu.Lock()
	f.userRepo.users[result.User.ID].Status = sec.StatusActive
	f.userRepo.mu.Unlock()

	return result.User
}

// # Registration

/*
TestService_Register checks enrollment: hashing, PENDING status, redaction, token.
*/
func TestService_Register(t *testing.T) {
	fixture := newServiceFixture()

	result, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Email:     "new@verdano.app",
		Password:  "plain-secret-9",
		FirstName: "Ada",
		LastName:  "Osei",
		Role:      sec.RoleBuyer,
	})
	require.NoError(t, err)

	// Accounts start PENDING until activated
	assert.Equal(t, sec.StatusPending, result.User.Status)
	assert.Equal(t, sec.RoleBuyer, result.User.Role)
	assert.Equal(t, "identity-token-for-"+result.User.ID, result.IdentityToken)

	// The returned projection never carries the hash
	assert.Empty(t, result.User.PasswordHash)

	// The stored record carries a hash, never the plain text
	stored, err := fixture.userRepo.FindByID(context.Background(), result.User.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "plain-secret-9", stored.PasswordHash)
	assert.True(t, fixture.hasher.Verify("plain-secret-9", stored.PasswordHash))
}

/*
TestService_Register_DuplicateEmail surfaces Conflict from the pre-check.
*/
func TestService_Register_DuplicateEmail(t *testing.T) {
	fixture := newServiceFixture()
	fixture.registerActive(t, "taken@verdano.app", "password-one", sec.RoleSeller)

	_, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Email:    "taken@verdano.app",
		Password: "password-two",
		Role:     sec.RoleBuyer,
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
	assert.Equal(t, "User with this email already exists", ae.Message)
}

// # Login

/*
TestService_Login checks the full success path: both token tracks, session, stamp.
*/
func TestService_Login(t *testing.T) {
	fixture := newServiceFixture()
	user := fixture.registerActive(t, "seller@verdano.app", "hunter2hunter2", sec.RoleSeller)

	result, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Email:     "seller@verdano.app",
		Password:  "hunter2hunter2",
		UserAgent: "cli/1.0",
		IPAddress: "198.51.100.4",
	})
	require.NoError(t, err)

	assert.Equal(t, "identity-token-for-"+user.ID, result.IdentityToken)
	assert.Len(t, result.SessionToken, 64)
	assert.False(t, result.SessionExpiresAt.IsZero())
	assert.Empty(t, result.User.PasswordHash)

	// Login moment was recorded
	assert.NotNil(t, result.User.LastLoginAt)

	// Exactly one active session exists
	assert.Equal(t, 1, fixture.sessionRepo.activeCountFor(user.ID))
}

/*
TestService_Login_OpaqueFailures verifies unknown email, wrong password, and
non-active statuses are indistinguishable.
*/
func TestService_Login_OpaqueFailures(t *testing.T) {
	fixture := newServiceFixture()
	fixture.registerActive(t, "active@verdano.app", "correct-password", sec.RoleBuyer)

	pending, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Email:    "pending@verdano.app",
		Password: "correct-password",
		Role:     sec.RoleBuyer,
	})
	require.NoError(t, err)
	assert.Equal(t, sec.StatusPending, pending.User.Status)

	inactive := fixture.registerActive(t, "inactive@verdano.app", "correct-password", sec.RoleBuyer)
	fixture.userRepo.mu.Lock()
	fixture.userRepo.users[inactive.ID].Status = sec.StatusInactive
	fixture.userRepo.mu.Unlock()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown_email", "nobody@verdano.app", "correct-password"},
		{"wrong_password", "active@verdano.app", "wrong-password"},
		{"pending_account", "pending@verdano.app", "correct-password"},
		{"inactive_account", "inactive@verdano.app", "correct-password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixture.service.Login(context.Background(), auth.LoginInput{
				Email:    tt.email,
				Password: tt.password,
			})
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
			// Identical message for every failure mode
			assert.Equal(t, "Invalid credentials", ae.Message)
		})
	}
}

/*
TestService_Login_EmailCaseInsensitive: the login email matches regardless of
case, like the LOWER(email) unique index that guards registration.
*/
func TestService_Login_EmailCaseInsensitive(t *testing.T) {
	fixture := newServiceFixture()
	fixture.registerActive(t, "Bob@verdano.app", "hunter2hunter2", sec.RoleBuyer)

	result, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Email: "bob@verdano.app", Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bob@verdano.app", result.User.Email)

	// Registration under a case variant is still a duplicate
	_, err = fixture.service.Register(context.Background(), auth.RegisterInput{
		Email:    "BOB@verdano.app",
		Password: "another-pass",
		Role:     sec.RoleBuyer,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperr.As(err).HTTPStatus)
}

/*
TestService_Login_SupersedesPreviousSession: a second login leaves exactly one
active session.
*/
func TestService_Login_SupersedesPreviousSession(t *testing.T) {
	fixture := newServiceFixture()
	user := fixture.registerActive(t, "seller@verdano.app", "hunter2hunter2", sec.RoleSeller)

	first, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Email: "seller@verdano.app", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	second, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Email: "seller@verdano.app", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionToken, second.SessionToken)
	assert.Equal(t, 1, fixture.sessionRepo.activeCountFor(user.ID))
}

/*
TestService_Login_BestEffortLastLogin: a failed login-time stamp never blocks a login.
*/
func TestService_Login_BestEffortLastLogin(t *testing.T) {
	fixture := newServiceFixture()
	fixture.registerActive(t, "seller@verdano.app", "hunter2hunter2", sec.RoleSeller)

	fixture.userRepo.lastLoginErr = assert.AnError

	result, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Email: "seller@verdano.app", Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionToken)
	assert.Nil(t, result.User.LastLoginAt)
}

// # Logout & Credential Validation

/*
TestService_Logout_Idempotent: logging out twice, or with garbage, succeeds.
*/
func TestService_Logout_Idempotent(t *testing.T) {
	fixture := newServiceFixture()
	user := fixture.registerActive(t, "seller@verdano.app", "hunter2hunter2", sec.RoleSeller)

	result, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Email: "seller@verdano.app", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	require.NoError(t, fixture.service.Logout(context.Background(), result.SessionToken))
	assert.Equal(t, 0, fixture.sessionRepo.activeCountFor(user.ID))

	// Repeat and unknown tokens are silent successes
	require.NoError(t, fixture.service.Logout(context.Background(), result.SessionToken))
	require.NoError(t, fixture.service.Logout(context.Background(), "unknown-token"))
}

/*
TestService_ValidateUser: a known ID yields the redacted profile; an unknown
ID yields (nil, nil) rather than an error.
*/
func TestService_ValidateUser(t *testing.T) {
	fixture := newServiceFixture()
	registered := fixture.registerActive(t, "buyer@verdano.app", "hunter2hunter2", sec.RoleBuyer)

	user, err := fixture.service.ValidateUser(context.Background(), registered.ID)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, "buyer@verdano.app", user.Email)
	assert.Empty(t, user.PasswordHash)

	// Absence is a normal outcome, not an error
	user, err = fixture.service.ValidateUser(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, user)
}

/*
TestService_ValidateCredentials: match yields a redacted user; any mismatch
yields (nil, nil) rather than an error.
*/
func TestService_ValidateCredentials(t *testing.T) {
	fixture := newServiceFixture()
	registered := fixture.registerActive(t, "buyer@verdano.app", "hunter2hunter2", sec.RoleBuyer)

	user, err := fixture.service.ValidateCredentials(context.Background(), "buyer@verdano.app", "hunter2hunter2")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	user, err = fixture.service.ValidateCredentials(context.Background(), "buyer@verdano.app", "wrong")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = fixture.service.ValidateCredentials(context.Background(), "nobody@verdano.app", "hunter2hunter2")
	require.NoError(t, err)
	assert.Nil(t, user)
}

// # Password Management

/*
TestService_ChangePassword rotates the hash without touching sessions.
*/
func TestService_ChangePassword(t *testing.T) {
	fixture := newServiceFixture()
	user := fixture.registerActive(t, "seller@verdano.app", "old-password-1", sec.RoleSeller)

	// Establish a session that must survive the change
	login, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Email: "seller@verdano.app", Password: "old-password-1",
	})
	require.NoError(t, err)

	err = fixture.service.ChangePassword(context.Background(), user.ID, "old-password-1", "new-password-2")
	require.NoError(t, err)

	// New credential works, old one does not
	checked, err := fixture.service.ValidateCredentials(context.Background(), "seller@verdano.app", "new-password-2")
	require.NoError(t, err)
	assert.NotNil(t, checked)

	checked, err = fixture.service.ValidateCredentials(context.Background(), "seller@verdano.app", "old-password-1")
	require.NoError(t, err)
	assert.Nil(t, checked)

	// The session survives: changing a password is not a revocation event
	assert.Equal(t, 1, fixture.sessionRepo.activeCountFor(user.ID))
	_ = login
}

/*
TestService_ChangePassword_WrongCurrent rejects with a field-level error, not 401.
*/
func TestService_ChangePassword_WrongCurrent(t *testing.T) {
	fixture := newServiceFixture()
	user := fixture.registerActive(t, "seller@verdano.app", "old-password-1", sec.RoleSeller)

	err := fixture.service.ChangePassword(context.Background(), user.ID, "not-the-password", "new-password-2")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	assert.Equal(t, "Current password is incorrect", ae.Message)
}

/*
TestService_ChangePassword_UnknownUser treats a vanished principal as stale auth.
*/
func TestService_ChangePassword_UnknownUser(t *testing.T) {
	fixture := newServiceFixture()

	err := fixture.service.ChangePassword(context.Background(), "ghost", "a", "b")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)
}

// # Password Recovery

/*
TestService_PasswordResetFlow covers request, reset, session cutting, and
token single-use.
*/
func TestService_PasswordResetFlow(t *testing.T) {
	fixture := newServiceFixture()
	user := fixture.registerActive(t, "seller@verdano.app", "old-password-1", sec.RoleSeller)

	_, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Email: "seller@verdano.app", Password: "old-password-1",
	})
	require.NoError(t, err)

	token, err := fixture.service.RequestPasswordReset(context.Background(), "seller@verdano.app")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	err = fixture.service.ResetPassword(context.Background(), token, "recovered-pass-3")
	require.NoError(t, err)

	// Recovery cuts every session, unlike ChangePassword
	assert.Equal(t, 0, fixture.sessionRepo.activeCountFor(user.ID))

	// New credential is live
	checked, err := fixture.service.ValidateCredentials(context.Background(), "seller@verdano.app", "recovered-pass-3")
	require.NoError(t, err)
	assert.NotNil(t, checked)

	// The token is single-use
	err = fixture.service.ResetPassword(context.Background(), token, "another-pass-4")
	require.Error(t, err)
}

/*
TestService_RequestPasswordReset_UnknownEmail stays silent to block enumeration.
*/
func TestService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	fixture := newServiceFixture()

	token, err := fixture.service.RequestPasswordReset(context.Background(), "nobody@verdano.app")
	require.NoError(t, err)
	assert.Empty(t, token)
}
