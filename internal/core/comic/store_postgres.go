// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

/*
Package comic provides the PostgreSQL implementation for the content domain's data access.

It utilizes advanced Postgres features to keep the lifecycle queries efficient:
  - JSON Aggregation: Retrieves contributor groups in a single round-trip.
  - Window Functions: Calculates total result counts without a separate 'COUNT' query.
  - ACID Transactions: Ensures atomicity when replacing contributor sets alongside patches.

The repository follows an "Aggregate" pattern where contributor rows are managed
through the main repository instance to maintain domain integrity.
*/
package comic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoangbui/komiko/internal/platform/apperr"
	"github.com/hoangbui/komiko/internal/platform/database/schema"
)

// # PostgreSQL Repositories

// comicRepository implements the [ComicRepository] interface using pgx.
type comicRepository struct {
	pool *pgxpool.Pool
}

// NewComicRepository constructs a PostgreSQL backed comic store.
func NewComicRepository(pool *pgxpool.Pool) ComicRepository {
	return &comicRepository{pool: pool}
}

// contributorRow mirrors a single 'core.comiccontributor' junction row.
type contributorRow struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// # Query Fragments

// selectColumns returns the aliased column list shared by all read queries.
func selectColumns() string {
	c := schema.CoreComic
	return fmt.Sprintf(`
		c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s,
		c.%s, c.%s, c.%s, c.%s,
		c.%s, c.%s, c.%s, c.%s, c.%s, c.%s,
		c.%s, c.%s, c.%s, c.%s, c.%s, c.%s,
		COALESCE((
			SELECT json_agg(json_build_object('role', cc.%s, 'name', cc.%s, 'position', cc.%s))
			FROM %s cc
			WHERE cc.%s = c.%s
		), '[]') as contributors`,
		c.ID, c.OwnerID, c.SeriesID, c.Title, c.Subtitle, c.Slug, c.Description, c.Genres, c.Tags,
		c.Status, c.PublishStatus, c.PublishedAt, c.ScheduledAt,
		c.FileKey, c.FileURL, c.FileName, c.FileSize, c.FileType, c.PageOrder,
		c.ThumbnailKey, c.ThumbnailURL, c.AgreedAt, c.CreatedAt, c.UpdatedAt, c.DeletedAt,
		schema.CoreComicContributor.Role,
		schema.CoreComicContributor.Name,
		schema.CoreComicContributor.Position,
		schema.CoreComicContributor.Table,
		schema.CoreComicContributor.ComicID, c.ID,
	)
}

// scanComic maps a single result row onto a hydrated [Comic] entity.
func scanComic(row pgx.Row, extraTargets ...any) (*Comic, error) {
	comic := &Comic{}
	var contributorsJSON []byte

	targets := []any{
		&comic.ID,
		&comic.OwnerID,
		&comic.SeriesID,
		&comic.Title,
		&comic.Subtitle,
		&comic.Slug,
		&comic.Description,
		&comic.Genres,
		&comic.Tags,
		&comic.Status,
		&comic.PublishStatus,
		&comic.PublishedAt,
		&comic.ScheduledAt,
		&comic.File.Key,
		&comic.File.URL,
		&comic.File.Name,
		&comic.File.Size,
		&comic.File.Type,
		&comic.PageOrder,
		&comic.ThumbnailKey,
		&comic.ThumbnailURL,
		&comic.AgreedAt,
		&comic.CreatedAt,
		&comic.UpdatedAt,
		&comic.DeletedAt,
	}
	targets = append(targets, extraTargets...)
	targets = append(targets, &contributorsJSON)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	var rows []contributorRow
	if err := json.Unmarshal(contributorsJSON, &rows); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal contributors: %w", err)
	}
	comic.Contributors = groupContributors(rows)

	return comic, nil
}

// groupContributors folds junction rows back into ordered role groups.
func groupContributors(rows []contributorRow) []ContributorGroup {
	if len(rows) == 0 {
		return nil
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Role != rows[j].Role {
			return rows[i].Role < rows[j].Role
		}
		return rows[i].Position < rows[j].Position
	})

	var groups []ContributorGroup
	for _, row := range rows {
		if len(groups) == 0 || groups[len(groups)-1].Role != row.Role {
			groups = append(groups, ContributorGroup{Role: row.Role})
		}
		last := len(groups) - 1
		groups[last].Names = append(groups[last].Names, row.Name)
	}

	return groups
}

// # Comic Repository Implementation

/*
List returns a filtered, paginated slice of comics and the total count.

Description: Uses COUNT(*) OVER() to retrieve the total record count
without a second query, and a json_agg sub-query to hydrate contributor
groups without N+1 overhead.

Parameters:
  - context: context.Context
  - filter: Filter (Owner, status, search, sorting)
  - limit: int
  - offset: int

Returns:
  - []*Comic: Slice of hydrated comic entities
  - int: Total count matching filters
  - error: Database execution errors
*/
func (repository *comicRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Comic, int, error) {

	// Query build initialization
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString("SELECT " + selectColumns() + ", COUNT(*) OVER() AS total_count")
	queryBuilder.WriteString(fmt.Sprintf(" FROM %s c WHERE c.%s IS NULL",
		schema.CoreComic.Table, schema.CoreComic.DeletedAt))

	// Apply Filters (Dynamic WHERE clause construction)
	if filter.OwnerID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.%s = $%d", schema.CoreComic.OwnerID, argID))
		args = append(args, filter.OwnerID)
		argID++
	}

	// Series Filtering
	if filter.SeriesID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.%s = $%d", schema.CoreComic.SeriesID, argID))
		args = append(args, filter.SeriesID)
		argID++
	}

	// Coarse Status Filtering
	if len(filter.Status) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.%s = ANY($%d)", schema.CoreComic.Status, argID))
		args = append(args, filter.Status)
		argID++
	}

	// Publish Status Filtering
	if len(filter.PublishStatus) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.%s = ANY($%d)", schema.CoreComic.PublishStatus, argID))
		args = append(args, filter.PublishStatus)
		argID++
	}

	// Genre / Tag Membership Filtering
	if filter.Genre != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND $%d = ANY(c.%s)", argID, schema.CoreComic.Genres))
		args = append(args, filter.Genre)
		argID++
	}

	if filter.Tag != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND $%d = ANY(c.%s)", argID, schema.CoreComic.Tags))
		args = append(args, filter.Tag)
		argID++
	}

	// Title Search Filtering
	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.%s ILIKE $%d", schema.CoreComic.Title, argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	// Apply Sorting Logic
	sortColumn := fmt.Sprintf("c.%s", schema.CoreComic.CreatedAt) // default
	switch filter.Sort {
	case "az", "za":
		sortColumn = fmt.Sprintf("c.%s", schema.CoreComic.Title)
	case "published":
		sortColumn = fmt.Sprintf("c.%s", schema.CoreComic.PublishedAt)
	case "latest":
		sortColumn = fmt.Sprintf("c.%s", schema.CoreComic.CreatedAt)
	}

	// Apply Sorting Direction
	sortDir := "DESC"
	if strings.ToLower(filter.SortDir) == "asc" || filter.Sort == "az" {
		sortDir = "ASC"
	}
	if filter.Sort == "za" {
		sortDir = "DESC"
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s %s, c.%s DESC", sortColumn, sortDir, schema.CoreComic.ID))

	// Pagination injection
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	// Query Execution
	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list comics: %w", err)
	}
	defer rows.Close()

	var comics []*Comic
	var totalCount int

	for rows.Next() {
		comic, err := scanComic(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan comic: %w", err)
		}
		comics = append(comics, comic)
	}

	return comics, totalCount, nil
}

/*
FindByID retrieves an active comic record by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUID primary key of the target comic)

Returns:
  - *Comic: The fully hydrated comic entity including contributor groups
  - error: apperr.NotFound if the comic does not exist or is soft-deleted
*/
func (repository *comicRepository) FindByID(context context.Context, id string) (*Comic, error) {
	query := fmt.Sprintf("SELECT %s FROM %s c WHERE c.%s = $1 AND c.%s IS NULL",
		selectColumns(), schema.CoreComic.Table, schema.CoreComic.ID, schema.CoreComic.DeletedAt)

	comic, err := scanComicRow(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, err
	}
	return comic, nil
}

/*
FindOwned retrieves an active comic scoped to its owner.

Description: The owner predicate is part of the WHERE clause, so a comic
owned by a different user produces the same apperr.NotFound as a missing
record. Existence never leaks across accounts.

Parameters:
  - context: context.Context
  - id: string (UUID primary key of the target comic)
  - ownerID: string (UUID of the required owner)

Returns:
  - *Comic: The fully hydrated comic entity
  - error: apperr.NotFound if missing, soft-deleted or not owned by ownerID
*/
func (repository *comicRepository) FindOwned(context context.Context, id string, ownerID string) (*Comic, error) {
	query := fmt.Sprintf("SELECT %s FROM %s c WHERE c.%s = $1 AND c.%s = $2 AND c.%s IS NULL",
		selectColumns(), schema.CoreComic.Table,
		schema.CoreComic.ID, schema.CoreComic.OwnerID, schema.CoreComic.DeletedAt)

	comic, err := scanComicRow(repository.pool.QueryRow(context, query, id, ownerID))
	if err != nil {
		return nil, err
	}
	return comic, nil
}

// scanComicRow wraps scanComic with the shared single-row error mapping.
func scanComicRow(row pgx.Row) (*Comic, error) {
	comic, err := scanComic(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("comic")
		}
		return nil, fmt.Errorf("postgres: failed to find comic: %w", err)
	}
	return comic, nil
}

/*
Create persists a new comic entity and its contributor rows.

Description: Executes the insertion within a single transaction so that
a contributor constraint failure rolls back the core record as well.

Parameters:
  - context: context.Context
  - comic: *Comic (The domain entity containing metadata and contributor groups)

Returns:
  - error: Returns nil on a committed sequence or reports SQL failures
*/
func (repository *comicRepository) Create(context context.Context, comic *Comic) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer transaction.Rollback(context)

	c := schema.CoreComic
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s,
			%s, %s,
			%s, %s, %s, %s, %s, %s,
			%s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`,
		c.Table,
		c.ID, c.OwnerID, c.SeriesID, c.Title, c.Subtitle, c.Slug, c.Description, c.Genres, c.Tags,
		c.Status, c.PublishStatus,
		c.FileKey, c.FileURL, c.FileName, c.FileSize, c.FileType, c.PageOrder,
		c.ThumbnailKey, c.ThumbnailURL, c.AgreedAt,
	)

	_, err = transaction.Exec(context, query,
		comic.ID,
		comic.OwnerID,
		comic.SeriesID,
		comic.Title,
		comic.Subtitle,
		comic.Slug,
		comic.Description,
		comic.Genres,
		comic.Tags,
		comic.Status,
		comic.PublishStatus,
		comic.File.Key,
		comic.File.URL,
		comic.File.Name,
		comic.File.Size,
		comic.File.Type,
		comic.PageOrder,
		comic.ThumbnailKey,
		comic.ThumbnailURL,
		comic.AgreedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to create comic: %w", err)
	}

	// Contributor group synchronization
	if len(comic.Contributors) > 0 {
		if err := repository.replaceContributors(context, transaction, comic.ID, comic.Contributors); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit create transaction: %w", err)
	}

	return nil
}

/*
Update applies a PATCH-style partial update to an owned comic.

Description: Uses a dynamic strings.Builder to construct the SET block
from the fields present in the patch, bounded by both the primary key and
the owner column. A non-nil Contributors slice triggers a full wipe and
replace of the contributor set inside the same transaction.

Parameters:
  - context: context.Context
  - id: string (Target UUID)
  - ownerID: string (UUID of the required owner)
  - patch: Patch (Whitelisted field updates)

Returns:
  - error: apperr.NotFound if no active owned row matched, otherwise execution errors
*/
func (repository *comicRepository) Update(context context.Context, id string, ownerID string, patch Patch) error {

	// Dynamic PATCH assembly
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf("UPDATE %s SET %s = NOW()", schema.CoreComic.Table, schema.CoreComic.UpdatedAt))

	var args []any
	argID := 1

	appendSet := func(column string, value any) {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	// Field-by-field whitelist application
	if patch.Title != nil {
		appendSet(schema.CoreComic.Title, *patch.Title)
	}

	// Subtitle
	if patch.Subtitle != nil {
		appendSet(schema.CoreComic.Subtitle, *patch.Subtitle)
	}

	// Description
	if patch.Description != nil {
		appendSet(schema.CoreComic.Description, *patch.Description)
	}

	// Genres
	if patch.Genres != nil {
		appendSet(schema.CoreComic.Genres, patch.Genres)
	}

	// Tags
	if patch.Tags != nil {
		appendSet(schema.CoreComic.Tags, patch.Tags)
	}

	// Series membership
	if patch.SeriesID != nil {
		appendSet(schema.CoreComic.SeriesID, *patch.SeriesID)
	}

	// Thumbnail
	if patch.ThumbnailURL != nil {
		appendSet(schema.CoreComic.ThumbnailURL, *patch.ThumbnailURL)
	}
	if patch.thumbnailKey != nil {
		appendSet(schema.CoreComic.ThumbnailKey, *patch.thumbnailKey)
	}

	// Lifecycle fields stamped by the service layer
	if patch.Status != nil {
		appendSet(schema.CoreComic.Status, *patch.Status)
	}
	if patch.publishStatus != nil {
		appendSet(schema.CoreComic.PublishStatus, *patch.publishStatus)
	}
	if patch.publishedAt != nil {
		appendSet(schema.CoreComic.PublishedAt, *patch.publishedAt)
	}

	// Owner-scoped WHERE constraint
	queryBuilder.WriteString(fmt.Sprintf(" WHERE %s = $%d AND %s = $%d AND %s IS NULL",
		schema.CoreComic.ID, argID, schema.CoreComic.OwnerID, argID+1, schema.CoreComic.DeletedAt))
	args = append(args, id, ownerID)

	// Transaction boundary so contributor rewrites roll back with the core row
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: update transaction begin failed: %w", err)
	}
	defer transaction.Rollback(context)

	response, err := transaction.Exec(context, queryBuilder.String(), args...)
	if err != nil {
		return fmt.Errorf("postgres: failed to update comic: %w", err)
	}

	if response.RowsAffected() == 0 {
		return apperr.NotFound("comic")
	}

	// Full contributor set replacement
	if patch.Contributors != nil {
		if err := repository.replaceContributors(context, transaction, id, patch.Contributors); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: update transaction commit failed: %w", err)
	}

	return nil
}

/*
replaceContributors synchronizes the contributor junction rows.

Description: Implements a "Clear and Insert" strategy. All rows for the
comic are deleted first, then the new groups are flattened into ordered
rows and queued through a pgx.Batch to bound network round-trips.

Parameters:
  - context: context.Context
  - transaction: pgx.Tx (The active transaction boundary)
  - comicID: string (UUID of the parent comic)
  - groups: []ContributorGroup (The replacement set)

Returns:
  - error: Structural execution failures
*/
func (repository *comicRepository) replaceContributors(context context.Context, transaction pgx.Tx, comicID string, groups []ContributorGroup) error {
	cc := schema.CoreComicContributor

	// Clear phase
	delQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", cc.Table, cc.ComicID)
	if _, err := transaction.Exec(context, delQuery, comicID); err != nil {
		return fmt.Errorf("postgres: failed to clear contributors: %w", err)
	}

	if len(groups) == 0 {
		return nil
	}

	// Batch insert phase
	insQuery := fmt.Sprintf("INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)",
		cc.Table, cc.ComicID, cc.Role, cc.Name, cc.Position)

	batch := &pgx.Batch{}
	for _, group := range groups {
		for position, name := range group.Names {
			batch.Queue(insQuery, comicID, group.Role, name, position)
		}
	}

	response := transaction.SendBatch(context, batch)
	if err := response.Close(); err != nil {
		return fmt.Errorf("postgres: failed to batch insert contributors: %w", err)
	}

	return nil
}

/*
SetLifecycle persists a publish-state transition on an owned comic.

Description: Builds the SET block from the change descriptor, applying
timestamp stamps and clears exactly as requested. The owner predicate is
part of the WHERE clause so the transition cannot touch foreign records.

Parameters:
  - context: context.Context
  - id: string (Target UUID)
  - ownerID: string (UUID of the required owner)
  - change: LifecycleChange (Target state and timestamp effects)

Returns:
  - error: apperr.NotFound if no active owned row matched, otherwise execution errors
*/
func (repository *comicRepository) SetLifecycle(context context.Context, id string, ownerID string, change LifecycleChange) error {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf("UPDATE %s SET %s = NOW()", schema.CoreComic.Table, schema.CoreComic.UpdatedAt))

	var args []any
	argID := 1

	appendSet := func(column string, value any) {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	appendSet(schema.CoreComic.PublishStatus, change.PublishStatus)

	if change.Status != nil {
		appendSet(schema.CoreComic.Status, *change.Status)
	}

	// PublishedAt: stamp or clear, never both
	if change.SetPublishedAt != nil {
		appendSet(schema.CoreComic.PublishedAt, *change.SetPublishedAt)
	} else if change.ClearPublishedAt {
		queryBuilder.WriteString(fmt.Sprintf(", %s = NULL", schema.CoreComic.PublishedAt))
	}

	// ScheduledAt: stamp or clear, never both
	if change.SetScheduledAt != nil {
		appendSet(schema.CoreComic.ScheduledAt, *change.SetScheduledAt)
	} else if change.ClearScheduledAt {
		queryBuilder.WriteString(fmt.Sprintf(", %s = NULL", schema.CoreComic.ScheduledAt))
	}

	queryBuilder.WriteString(fmt.Sprintf(" WHERE %s = $%d AND %s = $%d AND %s IS NULL",
		schema.CoreComic.ID, argID, schema.CoreComic.OwnerID, argID+1, schema.CoreComic.DeletedAt))
	args = append(args, id, ownerID)

	result, err := repository.pool.Exec(context, queryBuilder.String(), args...)
	if err != nil {
		return fmt.Errorf("postgres: failed to set comic lifecycle: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("comic")
	}

	return nil
}

/*
SoftDelete hides an owned comic without physical row removal.

Description: Stamps the deletedat column with NOW(). Because all read
queries carry a global 'deletedat IS NULL' predicate, the record drops
out of discovery while remaining available for auditing.

Parameters:
  - context: context.Context
  - id: string (Target UUID)
  - ownerID: string (UUID of the required owner)

Returns:
  - error: apperr.NotFound if missing, already deleted or not owned
*/
func (repository *comicRepository) SoftDelete(context context.Context, id string, ownerID string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s = $2 AND %s IS NULL",
		schema.CoreComic.Table, schema.CoreComic.DeletedAt,
		schema.CoreComic.ID, schema.CoreComic.OwnerID, schema.CoreComic.DeletedAt)

	result, err := repository.pool.Exec(context, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete comic: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("comic")
	}

	return nil
}
