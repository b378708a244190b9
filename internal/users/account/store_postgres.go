// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoangbui/komiko/internal/platform/apperr"
	"github.com/hoangbui/komiko/internal/platform/database/schema"
)

// # PostgreSQL Repository

// userRepository implements the [UserRepository] interface using pgx.
type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a PostgreSQL backed user store.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

// userColumns is the shared column list for user reads.
func userColumns() string {
	u := schema.UserAccount
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role,
		u.IsCreator, u.IsCreatorEnabled, u.CreatorDisabledAt,
		u.CreatedAt, u.UpdatedAt, u.DeletedAt,
	)
}

// scanUser maps a single result row onto a [User] entity.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsCreator,
		&user.IsCreatorEnabled,
		&user.CreatorDisabledAt,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user")
		}
		return nil, fmt.Errorf("postgres: failed to find user: %w", err)
	}
	return user, nil
}

// Create persists a new user account.
func (repository *userRepository) Create(context context.Context, user *User) error {
	u := schema.UserAccount

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, u.Table, u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.IsCreator, u.IsCreatorEnabled)

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsCreator,
		user.IsCreatorEnabled,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to create user: %w", err)
	}

	return nil
}

// FindByID returns the active user with the given ID.
func (repository *userRepository) FindByID(context context.Context, id string) (*User, error) {
	u := schema.UserAccount
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL",
		userColumns(), u.Table, u.ID, u.DeletedAt)

	return scanUser(repository.pool.QueryRow(context, query, id))
}

// FindByEmail returns the active user with the given email.
func (repository *userRepository) FindByEmail(context context.Context, email string) (*User, error) {
	u := schema.UserAccount
	query := fmt.Sprintf("SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1) AND %s IS NULL",
		userColumns(), u.Table, u.Email, u.DeletedAt)

	return scanUser(repository.pool.QueryRow(context, query, email))
}

// FindByUsername returns the active user with the given username.
func (repository *userRepository) FindByUsername(context context.Context, username string) (*User, error) {
	u := schema.UserAccount
	query := fmt.Sprintf("SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1) AND %s IS NULL",
		userColumns(), u.Table, u.Username, u.DeletedAt)

	return scanUser(repository.pool.QueryRow(context, query, username))
}
