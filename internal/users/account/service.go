// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/verdano/marketplace-api/internal/platform/apperr"
	"github.com/verdano/marketplace-api/internal/platform/sec"
	"github.com/verdano/marketplace-api/internal/users/auth"
	"github.com/verdano/marketplace-api/pkg/pagination"
)

// # Service Layer

// Service orchestrates business logic for user profiles and the directory.
//
// Every returned user is redacted through Public(); the password hash never
// leaves this layer.
type Service struct {
	accountRepository AccountRepository
	sessions          *auth.SessionService
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accountRepo AccountRepository, sessions *auth.SessionService, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		sessions:          sessions,
		logger:            logger,
	}
}

// # Directory Queries

/*
List returns a page of the user directory.

Parameters:
  - context: context.Context
  - filter: ListFilter (search text, role, status)
  - page: pagination.Params

Returns:
  - []*auth.User: Redacted page of users
  - pagination.Meta: Page metadata with the filtered total
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, filter ListFilter, page pagination.Params) ([]*auth.User, pagination.Meta, error) {

	users, total, err := service.accountRepository.List(context, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("account_service_list_failed: %w", err)
	}

	// Redact before the entities leave the domain
	redacted := make([]*auth.User, 0, len(users))
	for _, user := range users {
		redacted = append(redacted, user.Public())
	}

	return redacted, pagination.NewMeta(page.Page, page.Limit, total), nil
}

/*
Get retrieves the profile of a single user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: Redacted profile
  - error: apperr.NotFound or execution failures
*/
func (service *Service) Get(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

/*
ListSellers returns the public directory of active sellers.

Returns:
  - []SellerInfo: Directory-safe seller projections
  - error: Retrieval failures
*/
func (service *Service) ListSellers(context context.Context) ([]SellerInfo, error) {
	sellers, err := service.accountRepository.FindActiveSellers(context)
	if err != nil {
		return nil, fmt.Errorf("account_service_list_sellers_failed: %w", err)
	}
	return sellers, nil
}

// # Profile Management

// UpdateProfileInput defines the mutable subset of user profile fields.
// Nil pointers mean "leave unchanged".
type UpdateProfileInput struct {
	FirstName  *string
	LastName   *string
	Phone      *string
	Address    *string
	City       *string
	State      *string
	PostalCode *string
	Country    *string
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Owner-gated: only the account holder may modify their profile.
Fetches the existing state, overlays provided fields, and persists the delta.

Parameters:
  - context: context.Context
  - callerID: string (The authenticated principal)
  - userID: string (The target account)
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated, redacted profile
  - error: apperr.Forbidden, apperr.NotFound, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, callerID, userID string, input UpdateProfileInput) (*auth.User, error) {

	// Ownership gate
	if callerID != userID {
		return nil, apperr.Forbidden("You can only update your own profile")
	}

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.City != nil {
		user.City = *input.City
	}
	if input.State != nil {
		user.State = *input.State
	}
	if input.PostalCode != nil {
		user.PostalCode = *input.PostalCode
	}
	if input.Country != nil {
		user.Country = *input.Country
	}

	// Persist changes
	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user.Public(), nil
}

/*
Deactivate performs an idempotent soft-deletion of a user account.

Description: Owner-gated. The row is never removed; the account transitions
to INACTIVE, which blocks future logins, and every active session is cut to
force an immediate global sign-out.

Parameters:
  - context: context.Context
  - callerID: string
  - userID: string

Returns:
  - error: apperr.Forbidden or execution failures
*/
func (service *Service) Deactivate(context context.Context, callerID, userID string) error {

	// Ownership gate
	if callerID != userID {
		return apperr.Forbidden("You can only deactivate your own account")
	}

	if err := service.accountRepository.UpdateStatus(context, userID, sec.StatusInactive); err != nil {
		return fmt.Errorf("account_service_deactivate_failed: %w", err)
	}

	// Force global sign-out for the deactivated account
	_ = service.sessions.InvalidateAllForUser(context, userID)

	service.logger.Warn("user_account_deactivated", slog.String("user_id", userID))

	return nil
}

/*
UpdateStatus transitions an account's lifecycle status.

Description: Drives the PENDING -> ACTIVE activation step after registration
and administrative suspension. Suspending (INACTIVE) also cuts all sessions.

Parameters:
  - context: context.Context
  - userID: string
  - status: sec.UserStatus

Returns:
  - error: Validation or execution failures
*/
func (service *Service) UpdateStatus(context context.Context, userID string, status sec.UserStatus) error {

	if !status.Valid() {
		return apperr.ValidationError("Invalid account status")
	}

	// Existence check so callers get a 404 instead of a silent no-op
	if _, err := service.accountRepository.FindByID(context, userID); err != nil {
		return err
	}

	if err := service.accountRepository.UpdateStatus(context, userID, status); err != nil {
		return fmt.Errorf("account_service_update_status_failed: %w", err)
	}

	if status == sec.StatusInactive {
		_ = service.sessions.InvalidateAllForUser(context, userID)
	}

	service.logger.Info("user_status_updated",
		slog.String("user_id", userID),
		slog.String("status", string(status)),
	)

	return nil
}
