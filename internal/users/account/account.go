// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

/*
Package account handles user profile management and directory queries.

It provides functionalities for marketplace members to view and update their
identity data, deactivate their account, and for internal tooling to browse
and moderate the user directory.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Security: All mutations are owner-gated; reads are authenticated.
*/
package account

import (
	"context"
	"time"

	"github.com/verdano/marketplace-api/internal/platform/sec"
	"github.com/verdano/marketplace-api/internal/users/auth"
	"github.com/verdano/marketplace-api/pkg/pagination"
)

// # Query Types

// ListFilter narrows a directory listing.
//
// Search matches first name, last name, and email case-insensitively.
// Zero values mean "no constraint".
type ListFilter struct {
	Search string
	Role   sec.UserRole
	Status sec.UserStatus
}

// SellerInfo is the public directory view of an active seller.
// It exposes only what a buyer needs to see.
type SellerInfo struct {
	ID        string     `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	City      string     `json:"city"`
	Country   string     `json:"country"`
	MemberFor time.Time  `json:"member_since"`
	LastSeen  *time.Time `json:"last_seen,omitempty"`
}

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		List returns a page of the user directory plus the unfiltered total.

		Parameters:
		  - context: context.Context
		  - filter: ListFilter
		  - page: pagination.Params

		Returns:
		  - []*auth.User: The requested page
		  - int: Total rows matching the filter
		  - error: Retrieval failures
	*/
	List(context context.Context, filter ListFilter, page pagination.Params) ([]*auth.User, int, error)

	/*
		Update modifies the mutable profile fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		UpdateStatus transitions an account's lifecycle status.

		Parameters:
		  - context: context.Context
		  - id: string
		  - status: sec.UserStatus

		Returns:
		  - error: Execution failures
	*/
	UpdateStatus(context context.Context, id string, status sec.UserStatus) error

	/*
		FindActiveSellers lists every seller account in ACTIVE status.

		Returns:
		  - []SellerInfo: Directory-safe seller projections
		  - error: Retrieval failures
	*/
	FindActiveSellers(context context.Context) ([]SellerInfo, error)
}
