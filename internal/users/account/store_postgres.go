// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdano/marketplace-api/internal/platform/apperr"
	"github.com/verdano/marketplace-api/internal/platform/database/schema"
	"github.com/verdano/marketplace-api/internal/platform/sec"
	"github.com/verdano/marketplace-api/internal/users/auth"
	"github.com/verdano/marketplace-api/pkg/pagination"
)

// # Repository Implementation

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation for profile management.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

func accountColumns() string {
	t := schema.UserAccount
	return strings.Join([]string{
		t.ID, t.Email, t.Password, t.FirstName, t.LastName, t.Phone,
		t.Role, t.Status, t.Address, t.City, t.State, t.PostalCode,
		t.Country, t.LastLoginAt, t.CreatedAt, t.UpdatedAt,
	}, ", ")
}

func scanAccount(row pgx.Row) (*auth.User, error) {
	user := &auth.User{}
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
FindByID retrieves a user record from the users.account table.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *auth.User: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		accountColumns(), schema.UserAccount.Table, schema.UserAccount.ID,
	)

	user, err := scanAccount(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
List returns a filtered, paginated slice of the user directory.

Description: Builds the WHERE clause dynamically from the filter. Search uses
a single ILIKE term across first name, last name, and email. The total count
runs against the same predicate so page metadata stays consistent with the
returned rows.

Parameters:
  - context: context.Context
  - filter: ListFilter
  - page: pagination.Params

Returns:
  - []*auth.User: The requested page, newest accounts first
  - int: Total matching rows
  - error: Retrieval failures
*/
func (repository *PostgresAccountRepository) List(context context.Context, filter ListFilter, page pagination.Params) ([]*auth.User, int, error) {
	t := schema.UserAccount

	conditions := []string{"TRUE"}
	arguments := []any{}

	if filter.Search != "" {
		arguments = append(arguments, "%"+filter.Search+"%")
		position := len(arguments)
		conditions = append(conditions, fmt.Sprintf(
			"(%s ILIKE $%d OR %s ILIKE $%d OR %s ILIKE $%d)",
			t.FirstName, position, t.LastName, position, t.Email, position,
		))
	}

	if filter.Role != "" {
		arguments = append(arguments, filter.Role)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", t.Role, len(arguments)))
	}

	if filter.Status != "" {
		arguments = append(arguments, filter.Status)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", t.Status, len(arguments)))
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, t.Table, where)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, arguments...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_count_failed: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY %s DESC
		LIMIT $%d OFFSET $%d`,
		accountColumns(), t.Table, where, t.CreatedAt, len(arguments)+1, len(arguments)+2,
	)
	arguments = append(arguments, page.Limit, page.Offset())

	rows, err := repository.pool.Query(context, listQuery, arguments...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var users []*auth.User
	for rows.Next() {
		user, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	return users, total, nil
}

/*
Update modifies the mutable profile metadata of a user.

Description: Syncs the name, contact, and address fields while refreshing
the updatedat timestamp. Email, role, and credentials are out of scope here.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: Update failures
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	t := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = $10
		WHERE %s = $1`,
		t.Table,
		t.FirstName, t.LastName, t.Phone, t.Address, t.City,
		t.State, t.PostalCode, t.Country, t.UpdatedAt,
		t.ID,
	)

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Address,
		user.City,
		user.State,
		user.PostalCode,
		user.Country,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_failed: %w", err)
	}

	return nil
}

/*
UpdateStatus transitions the account lifecycle column.

Parameters:
  - context: context.Context
  - id: string
  - status: sec.UserStatus

Returns:
  - error: Execution failures
*/
func (repository *PostgresAccountRepository) UpdateStatus(context context.Context, id string, status sec.UserStatus) error {
	t := schema.UserAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		t.Table, t.Status, t.UpdatedAt, t.ID)

	_, err := repository.pool.Exec(context, query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_status_failed: %w", err)
	}
	return nil
}

/*
FindActiveSellers lists every ACTIVE seller, newest members first.

Returns:
  - []SellerInfo: Directory-safe projections
  - error: Retrieval failures
*/
func (repository *PostgresAccountRepository) FindActiveSellers(context context.Context) ([]SellerInfo, error) {
	t := schema.UserAccount
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
		ORDER BY %s DESC`,
		t.ID, t.FirstName, t.LastName, t.City, t.Country, t.CreatedAt, t.LastLoginAt,
		t.Table,
		t.Role, t.Status,
		t.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, sec.RoleSeller, sec.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_find_sellers_failed: %w", err)
	}
	defer rows.Close()

	var sellers []SellerInfo
	for rows.Next() {
		var seller SellerInfo
		if err := rows.Scan(
			&seller.ID,
			&seller.FirstName,
			&seller.LastName,
			&seller.City,
			&seller.Country,
			&seller.MemberFor,
			&seller.LastSeen,
		); err != nil {
			return nil, fmt.Errorf("postgres_account_repo_seller_scan_failed: %w", err)
		}
		sellers = append(sellers, seller)
	}

	return sellers, nil
}
