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

// # Contracts & Types

// TokenProvider defines the contract for minting signed identity tokens.
type TokenProvider interface {
	// Issue creates a signed identity token for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account, becomes the subject claim.
	//   - email: The account email, embedded as a claim.
	//   - role: The account role, embedded as a claim.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed token string, or an err if signing fails.
	Issue(userID, email, role string, timeToLive time.Duration) (string, error)
}

// PasswordHasher defines the contract for one-way credential hashing.
type PasswordHasher interface {
	// Hash derives a storable hash from a plain-text password.
	Hash(plainTextPassword string) (string, error)
	// Verify reports whether the plain-text password matches the stored hash.
	// Malformed hashes verify as false, never as an error.
	Verify(plainTextPassword, hash string) bool
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository       UserRepository
	resetTokenRepository ResetTokenRepository
	sessions             *SessionService
	tokenProvider        TokenProvider
	hasher               PasswordHasher
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	resetRepo ResetTokenRepository,
	sessions *SessionService,
	tokenProv TokenProvider,
	hasher PasswordHasher,
) *Service {
	return &Service{
		userRepository:       userRepo,
		resetTokenRepository: resetRepo,
		sessions:             sessions,
		tokenProvider:        tokenProv,
		hasher:               hasher,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new marketplace member.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Role      sec.UserRole
}

// RegisterResult carries the created account and its first identity token.
type RegisterResult struct {
	User          *User
	IdentityToken string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrolls a new buyer or seller. The email pre-check returns a
client-safe Conflict early, but the unique constraint on the email column is
the authoritative arbiter: a concurrent duplicate insert surfaces as the same
Conflict via the storage layer's SQLSTATE 23505 mapping.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *RegisterResult: Created entity (redacted) plus a signed identity token
  - err: Conflict (if email exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*RegisterResult, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("User with this email already exists")
	}

	// Prevent storing plain-text passwords.
	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	// Accounts start PENDING until activated through the account status flow.
	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         input.Role,
		Status:       sec.StatusPending,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// Issue the first identity token so the client can proceed without a
	// separate login round-trip.
	identityToken, err := service.tokenProvider.Issue(user.ID, user.Email, string(user.Role), IdentityTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &RegisterResult{
		User:          user.Public(),
		IdentityToken: identityToken,
	}, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// LoginResult represents a successfully authenticated user with both token tracks.
type LoginResult struct {
	User             *User
	IdentityToken    string
	SessionToken     string
	SessionExpiresAt time.Time
}

/*
Login validates user credentials and establishes a fresh session.

Description: Verifies identity with constant-time password comparison, records
the login time, issues a stateless identity token, and creates a server-side
session that supersedes any previously active one.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Transport-ready identifiers and the redacted user
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {

	// Look up by email. Generic message to prevent enumeration: unknown user,
	// wrong password, and non-active status are indistinguishable to callers.
	user, err := service.userRepository.FindByEmail(context, input.Email)
	if err != nil {
		return nil, apperr.Unauthorized(loginFailedMessage)
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !service.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized(loginFailedMessage)
	}

	// Suspended and pending accounts cannot authenticate.
	if !user.CanAuthenticate() {
		return nil, apperr.Unauthorized(loginFailedMessage)
	}

	// Record the login moment. Best-effort: a failed stamp never blocks a login.
	loginTime := time.Now()
	if err := service.userRepository.UpdateLastLogin(context, user.ID, loginTime); err == nil {
		user.LastLoginAt = &loginTime
	}

	// Mint the stateless identity token
	identityToken, err := service.tokenProvider.Issue(user.ID, user.Email, string(user.Role), IdentityTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Establish the server-side session. Supersedes any active session for
	// this user in the same atomic step.
	session, err := service.sessions.Create(context, user.ID, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginResult{
		User:             user.Public(),
		IdentityToken:    identityToken,
		SessionToken:     session.Token,
		SessionExpiresAt: session.ExpiresAt,
	}, nil
}

/*
Logout invalidates the user's session by its token.

Description: Idempotent: an unknown or already-invalidated token is treated as
success. Identity tokens are untouched and remain valid until natural expiry.

Parameters:
  - context: context.Context
  - sessionToken: string

Returns:
  - err: Storage failures only
*/
func (service *Service) Logout(context context.Context, sessionToken string) error {
	if err := service.sessions.Invalidate(context, sessionToken); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

/*
ValidateUser resolves a user ID into its redacted profile.

Description: Lookup for internal collaborators holding only an ID (e.g. a
token subject claim). Absence is a normal outcome, not an error: an unknown
ID yields (nil, nil).

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Redacted user when the ID exists, nil otherwise
  - err: Infrastructure failures only
*/
func (service *Service) ValidateUser(context context.Context, userID string) (*User, error) {

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("auth_service_validate_user_lookup_failed: %w", err)
	}

	return user.Public(), nil
}

/*
ValidateCredentials re-verifies an email/password pair outside the login flow.

Description: Credential check for internal collaborators. Absence of a match
is a normal outcome, not an error: both unknown email and wrong password
yield (nil, nil).

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *User: Redacted user on match, nil otherwise
  - err: Infrastructure failures only
*/
func (service *Service) ValidateCredentials(context context.Context, email, password string) (*User, error) {

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("auth_service_validate_lookup_failed: %w", err)
	}

	if !service.hasher.Verify(password, user.PasswordHash) {
		return nil, nil
	}

	return user.Public(), nil
}

// # Password Management

/*
ChangePassword allows an authenticated user to rotate their credentials.

Description: Verifies the current password before accepting the new one.
Existing sessions and identity tokens deliberately stay valid; only the
stored hash changes.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - err: Unauthorized (user gone), ValidationError (wrong current password),
    or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {

	// Fetch user by ID. A vanished user means the caller's authentication is stale.
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return apperr.Unauthorized("User not found")
	}

	// Verify the current password before allowing change
	if !service.hasher.Verify(currentPassword, user.PasswordHash) {
		return apperr.ValidationError("Current password is incorrect")
	}

	// Hash the brand new password
	hashedPassword, err := service.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a volatile reset token and saves it to Redis.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Reset token (empty when the email is unknown)
  - err: Generation errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	// Look up user.
	// NOTE: We don't return NOT_FOUND if the email doesn't exist to prevent user enumeration.
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return "", nil
	}

	// Generate reset token
	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	// Save to Redis
	if err := service.resetTokenRepository.Set(context, token, user.ID, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	return token, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token, hashes the new password, updates the DB,
and invalidates every session for the user. Unlike ChangePassword, recovery
implies the credential may be compromised, so all sessions are cut.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - err: Validation or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {

	// Retrieve the userID associated with the reset token from Redis
	userID, err := service.resetTokenRepository.Get(context, token)
	if err != nil {
		return err
	}

	// Hash the new password securely
	hashedPassword, err := service.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	// Update the user's password in persistent storage
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// Security cleanup: invalidate EVERY active session for this user
	_ = service.sessions.InvalidateAllForUser(context, userID)

	// Delete the used token from Redis
	_ = service.resetTokenRepository.Delete(context, token)

	return nil
}
