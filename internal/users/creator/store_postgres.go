// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package creator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoangbui/komiko/internal/platform/apperr"
	"github.com/hoangbui/komiko/internal/platform/database/schema"
)

// # Flag Repository

// flagRepository implements the [FlagRepository] interface using pgx.
type flagRepository struct {
	pool *pgxpool.Pool
}

// NewFlagRepository constructs a PostgreSQL backed flag store.
func NewFlagRepository(pool *pgxpool.Pool) FlagRepository {
	return &flagRepository{pool: pool}
}

// SetCreatorHub writes the creator flags and the disable timestamp.
func (repository *flagRepository) SetCreatorHub(context context.Context, userID string, enabled bool, disabledAt *time.Time) error {
	u := schema.UserAccount

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $1, %s = $2, %s = NOW()
		WHERE %s = $3 AND %s IS NULL
	`, u.Table, u.IsCreator, u.IsCreatorEnabled, u.CreatorDisabledAt, u.UpdatedAt, u.ID, u.DeletedAt)

	tag, err := repository.pool.Exec(context, query, enabled, disabledAt, userID)
	if err != nil {
		return fmt.Errorf("postgres: failed to set creatorhub flags: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}

	return nil
}

// ListExpired returns disabled accounts stamped before the cutoff.
func (repository *flagRepository) ListExpired(context context.Context, cutoff time.Time) ([]string, error) {
	u := schema.UserAccount

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = FALSE
		  AND %s IS NOT NULL
		  AND %s < $1
		  AND %s IS NULL
		ORDER BY %s ASC
	`, u.ID, u.Table, u.IsCreatorEnabled, u.CreatorDisabledAt, u.CreatorDisabledAt, u.DeletedAt, u.CreatorDisabledAt)

	rows, err := repository.pool.Query(context, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list expired creators: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan expired creator: %w", err)
		}
		userIDs = append(userIDs, userID)
	}

	return userIDs, rows.Err()
}

// ClearDisabledAt removes the disable stamp without touching flags.
func (repository *flagRepository) ClearDisabledAt(context context.Context, userID string) error {
	u := schema.UserAccount

	query := fmt.Sprintf("UPDATE %s SET %s = NULL, %s = NOW() WHERE %s = $1",
		u.Table, u.CreatorDisabledAt, u.UpdatedAt, u.ID)

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return fmt.Errorf("postgres: failed to clear disable stamp: %w", err)
	}

	return nil
}

// # Profile Repository

// profileRepository implements the [ProfileRepository] interface using pgx.
type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository constructs a PostgreSQL backed profile store.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

// Find returns the profile for the given user.
func (repository *profileRepository) Find(context context.Context, userID string) (*CreatorProfile, error) {
	p := schema.UserCreatorProfile

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`, p.UserID, p.DisplayName, p.Bio, p.AvatarKey, p.AvatarURL, p.Links, p.CreatedAt, p.UpdatedAt,
		p.Table, p.UserID)

	profile := &CreatorProfile{}
	err := repository.pool.QueryRow(context, query, userID).Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.Bio,
		&profile.AvatarKey,
		&profile.AvatarURL,
		&profile.Links,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Creator profile")
		}
		return nil, fmt.Errorf("postgres: failed to find creator profile: %w", err)
	}

	return profile, nil
}

// Upsert writes the full profile state, inserting when absent.
func (repository *profileRepository) Upsert(context context.Context, profile *CreatorProfile) error {
	p := schema.UserCreatorProfile

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = NOW()
	`, p.Table, p.UserID, p.DisplayName, p.Bio, p.AvatarKey, p.AvatarURL, p.Links,
		p.UserID,
		p.DisplayName, p.DisplayName,
		p.Bio, p.Bio,
		p.AvatarKey, p.AvatarKey,
		p.AvatarURL, p.AvatarURL,
		p.Links, p.Links,
		p.UpdatedAt)

	_, err := repository.pool.Exec(context, query,
		profile.UserID,
		profile.DisplayName,
		profile.Bio,
		profile.AvatarKey,
		profile.AvatarURL,
		profile.Links,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to upsert creator profile: %w", err)
	}

	return nil
}

// Delete destroys the profile. It reports whether a row existed.
func (repository *profileRepository) Delete(context context.Context, userID string) (bool, error) {
	p := schema.UserCreatorProfile

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", p.Table, p.UserID)

	tag, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return false, fmt.Errorf("postgres: failed to delete creator profile: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
