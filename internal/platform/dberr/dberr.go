// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Why a bridge?
//
// The store's uniqueness constraint is the authoritative arbiter for
// duplicate-identity races: the application-level existence pre-check in
// registration is only a fast path. This package turns the SQLSTATE the
// constraint raises into the domain [apperr.Conflict] callers expect.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/verdano/marketplace-api/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// conflictMessage is the client-safe message used when the error is a unique
// constraint violation (SQLSTATE 23505).
func Wrap(err error, conflictMessage string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Unique violation mapping — the authoritative Conflict trigger
	if IsUniqueViolation(err) {
		return apperr.Conflict(conflictMessage)
	}

	// 3. Unknown query errors (including connectivity failures) become
	// Internal errors, kept distinct from the domain taxonomy.
	return apperr.Internal(err)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
