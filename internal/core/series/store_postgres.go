// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package series

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoangbui/komiko/internal/platform/apperr"
	"github.com/hoangbui/komiko/internal/platform/database/schema"
)

// # PostgreSQL Repository

// seriesRepository implements the [SeriesRepository] interface using pgx.
type seriesRepository struct {
	pool *pgxpool.Pool
}

// NewSeriesRepository constructs a PostgreSQL backed series store.
func NewSeriesRepository(pool *pgxpool.Pool) SeriesRepository {
	return &seriesRepository{pool: pool}
}

// List returns a filtered, paginated slice of series and the total count.
func (repository *seriesRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Series, int, error) {
	s := schema.CoreSeries

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s IS NULL
	`,
		s.ID, s.OwnerID, s.Title, s.Slug, s.Description, s.CreatedAt, s.UpdatedAt, s.DeletedAt,
		s.Table,
		s.DeletedAt,
	))

	// Owner Filtering
	if filter.OwnerID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", s.OwnerID, argID))
		args = append(args, filter.OwnerID)
		argID++
	}

	// Title Search Filtering
	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", s.Title, argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC", s.CreatedAt))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list series: %w", err)
	}
	defer rows.Close()

	var result []*Series
	var totalCount int

	for rows.Next() {
		entry := &Series{}
		err := rows.Scan(
			&entry.ID,
			&entry.OwnerID,
			&entry.Title,
			&entry.Slug,
			&entry.Description,
			&entry.CreatedAt,
			&entry.UpdatedAt,
			&entry.DeletedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan series: %w", err)
		}
		result = append(result, entry)
	}

	return result, totalCount, nil
}

// FindByID returns the active series with the given ID.
func (repository *seriesRepository) FindByID(context context.Context, id string) (*Series, error) {
	s := schema.CoreSeries

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`,
		s.ID, s.OwnerID, s.Title, s.Slug, s.Description, s.CreatedAt, s.UpdatedAt, s.DeletedAt,
		s.Table,
		s.ID, s.DeletedAt,
	)

	entry := &Series{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&entry.ID,
		&entry.OwnerID,
		&entry.Title,
		&entry.Slug,
		&entry.Description,
		&entry.CreatedAt,
		&entry.UpdatedAt,
		&entry.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("series")
		}
		return nil, fmt.Errorf("postgres: failed to find series: %w", err)
	}

	return entry, nil
}

// Create persists a new series.
func (repository *seriesRepository) Create(context context.Context, entry *Series) error {
	s := schema.CoreSeries

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
	`, s.Table, s.ID, s.OwnerID, s.Title, s.Slug, s.Description)

	_, err := repository.pool.Exec(context, query,
		entry.ID,
		entry.OwnerID,
		entry.Title,
		entry.Slug,
		entry.Description,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to create series: %w", err)
	}

	return nil
}

// Update applies partial changes to an owned series.
func (repository *seriesRepository) Update(context context.Context, id string, ownerID string, title, description *string) error {
	s := schema.CoreSeries

	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf("UPDATE %s SET %s = NOW()", s.Table, s.UpdatedAt))

	var args []any
	argID := 1

	if title != nil {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", s.Title, argID))
		args = append(args, *title)
		argID++
	}

	if description != nil {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", s.Description, argID))
		args = append(args, *description)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" WHERE %s = $%d AND %s = $%d AND %s IS NULL",
		s.ID, argID, s.OwnerID, argID+1, s.DeletedAt))
	args = append(args, id, ownerID)

	result, err := repository.pool.Exec(context, queryBuilder.String(), args...)
	if err != nil {
		return fmt.Errorf("postgres: failed to update series: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("series")
	}

	return nil
}

// SoftDelete marks an owned series as deleted.
func (repository *seriesRepository) SoftDelete(context context.Context, id string, ownerID string) error {
	s := schema.CoreSeries

	query := fmt.Sprintf("UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s = $2 AND %s IS NULL",
		s.Table, s.DeletedAt, s.ID, s.OwnerID, s.DeletedAt)

	result, err := repository.pool.Exec(context, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete series: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("series")
	}

	return nil
}
