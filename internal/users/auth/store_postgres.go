// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdano/marketplace-api/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `
	id, email, passwordhash, firstname, lastname, phone, role, status,
	address, city, state, postalcode, country, lastloginat, createdat, updatedat`

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Role,
		&user.Status,
		&user.Address,
		&user.City,
		&user.State,
		&user.PostalCode,
		&user.Country,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are
initialized if not provided. The unique index on email is the authoritative
arbiter for duplicate registration: a concurrent insert racing past the
service-level pre-check lands here as SQLSTATE 23505 and is surfaced as
apperr.Conflict.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, email, passwordhash, firstname, lastname, phone, role, status,
			address, city, state, postalcode, country, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Role,
		user.Status,
		user.Address,
		user.City,
		user.State,
		user.PostalCode,
		user.Country,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "User with this email already exists")
	}

	return nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: Case-insensitive, matching the unique index on LOWER(email):
whoever registered as Bob@x.com logs in as bob@x.com.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT` + userColumns + `
		FROM users.account
		WHERE LOWER(email) = LOWER($1)`

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err), "")
	}

	return user, nil
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: dberr.ErrNotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT` + userColumns + `
		FROM users.account
		WHERE id = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err), "")
	}

	return user, nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
UpdateLastLogin stamps the most recent successful authentication time.

Parameters:
  - context: context.Context
  - userID: string
  - loginTime: time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdateLastLogin(context context.Context, userID string, loginTime time.Time) error {
	const query = `
		UPDATE users.account
		SET lastloginat = $2, updatedat = $2
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, loginTime)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_last_login_failed: %w", err)
	}

	return nil
}

// # Session Repository

// PostgresSessionRepository implements the SessionRepository interface.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PostgreSQL implementation of SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

/*
Create persists a new active session, superseding any currently active ones.

Description: Runs inside a single transaction that first locks the owning
account row (SELECT ... FOR UPDATE), then flips every active session of that
user to inactive, then inserts the fresh row. Two concurrent logins therefore
serialize on the row lock: the loser supersedes the winner, and exactly one
session remains active either way.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Storage failures
*/
func (repository *PostgresSessionRepository) Create(context context.Context, session *Session) error {
	const lockQuery = `SELECT id FROM users.account WHERE id = $1 FOR UPDATE`
	const supersedeQuery = `
		UPDATE users.session
		SET isactive = FALSE, updatedat = $2
		WHERE userid = $1 AND isactive = TRUE`
	const insertQuery = `
		INSERT INTO users.session (
			id, userid, token, expiresat, isactive, useragent, ipaddress, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	session.UpdatedAt = session.CreatedAt

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	// Serialize concurrent logins for the same user on the account row.
	var lockedID string
	if err := transaction.QueryRow(context, lockQuery, session.UserID).Scan(&lockedID); err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_session_repo_lock_failed: %w", err), "")
	}

	if _, err := transaction.Exec(context, supersedeQuery, session.UserID, session.CreatedAt); err != nil {
		return fmt.Errorf("postgres_session_repo_supersede_failed: %w", err)
	}

	if _, err := transaction.Exec(context, insertQuery,
		session.ID,
		session.UserID,
		session.Token,
		session.ExpiresAt,
		session.IsActive,
		session.UserAgent,
		session.IPAddress,
		session.CreatedAt,
		session.UpdatedAt,
	); err != nil {
		return dberr.Wrap(err, "Session token collision")
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_session_repo_commit_failed: %w", err)
	}

	return nil
}

/*
FindActiveByToken retrieves a session by its token, active rows only.

Description: Deliberately does not filter on expiresat. The service layer owns
the clock and decides expiry, flipping stale rows lazily.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *Session: Hydrated session metadata
  - error: dberr.ErrNotFound or execution errors
*/
func (repository *PostgresSessionRepository) FindActiveByToken(context context.Context, token string) (*Session, error) {
	const query = `
		SELECT id, userid, token, expiresat, isactive, useragent, ipaddress, createdat, updatedat
		FROM users.session
		WHERE token = $1 AND isactive = TRUE`

	session := &Session{}
	err := repository.pool.QueryRow(context, query, token).Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&session.ExpiresAt,
		&session.IsActive,
		&session.UserAgent,
		&session.IPAddress,
		&session.CreatedAt,
		&session.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_session_repo_find_failed: %w", err), "")
	}

	return session, nil
}

/*
Invalidate flips a specific session to inactive by its ID.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Execution failures
*/
func (repository *PostgresSessionRepository) Invalidate(context context.Context, sessionID string) error {
	const query = `
		UPDATE users.session
		SET isactive = FALSE, updatedat = $2
		WHERE id = $1 AND isactive = TRUE`

	_, err := repository.pool.Exec(context, query, sessionID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_session_repo_invalidate_failed: %w", err)
	}
	return nil
}

/*
InvalidateByToken flips a session to inactive by its token.

Description: Idempotent by construction: matching zero rows is success.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Execution failures
*/
func (repository *PostgresSessionRepository) InvalidateByToken(context context.Context, token string) error {
	const query = `
		UPDATE users.session
		SET isactive = FALSE, updatedat = $2
		WHERE token = $1 AND isactive = TRUE`

	_, err := repository.pool.Exec(context, query, token, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_session_repo_invalidate_token_failed: %w", err)
	}
	return nil
}

/*
InvalidateAllForUser flips every active session of a user to inactive.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Batch invalidation failures
*/
func (repository *PostgresSessionRepository) InvalidateAllForUser(context context.Context, userID string) error {
	const query = `
		UPDATE users.session
		SET isactive = FALSE, updatedat = $2
		WHERE userid = $1 AND isactive = TRUE`

	_, err := repository.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_session_repo_invalidate_all_failed: %w", err)
	}
	return nil
}

/*
InvalidateExpired flips all active sessions past their deadline to inactive.

Description: Housekeeping sweep. Rows stay in the table for audit; nothing is
deleted here.

Parameters:
  - context: context.Context
  - now: time.Time (The sweep's notion of "current")

Returns:
  - error: Cleanup failures
*/
func (repository *PostgresSessionRepository) InvalidateExpired(context context.Context, now time.Time) error {
	// Strictly past-deadline, same comparison Validate applies: a session
	// expiring at exactly $1 is still valid and must survive the sweep.
	const query = `
		UPDATE users.session
		SET isactive = FALSE, updatedat = $1
		WHERE isactive = TRUE AND expiresat < $1`

	_, err := repository.pool.Exec(context, query, now)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_invalidate_expired_failed: %w", err)
	}
	return nil
}
