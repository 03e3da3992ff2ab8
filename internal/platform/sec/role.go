// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

package sec

// # User Roles

// UserRole represents the marketplace capacity an account was registered with.
type UserRole string

const (
	// Lists and sells products on the marketplace
	RoleSeller UserRole = "seller"

	// Browses and purchases products
	RoleBuyer UserRole = "buyer"
)

// Valid reports whether the role is one of the known marketplace roles.
func (r UserRole) Valid() bool {
	return r == RoleSeller || r == RoleBuyer
}

// # Account Status

// UserStatus represents the lifecycle state of an account.
//
// Only ACTIVE users may authenticate; PENDING accounts exist between
// registration and activation, INACTIVE accounts are soft-deleted or
// administratively disabled.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
	StatusPending  UserStatus = "pending"
)

// Valid reports whether the status is a known lifecycle state.
func (s UserStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive || s == StatusPending
}
