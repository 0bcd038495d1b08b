package bucketlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	database "github.com/FACorreiaa/go-trip-planner/app/db"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	ListItems(ctx context.Context, userID uuid.UUID) ([]types.BucketlistItem, error)
	GetItem(ctx context.Context, userID, itemID uuid.UUID) (*types.BucketlistItem, error)
	CreateItem(ctx context.Context, item types.BucketlistItem) error
	PatchItem(ctx context.Context, userID, itemID uuid.UUID, completed *bool, tripID *uuid.UUID) (*types.BucketlistItem, error)
	LinkTrip(ctx context.Context, userID, itemID, tripID uuid.UUID) (uuid.UUID, error)
	DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	db     database.Querier
}

func NewRepository(db database.Querier, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		db:     db,
	}
}

const itemColumns = `id, user_id, type, title, destination, description, completed, trip_id, created_at, updated_at`

func scanItem(row pgx.Row) (*types.BucketlistItem, error) {
	var (
		item     types.BucketlistItem
		itemType string
	)
	if err := row.Scan(&item.ID, &item.UserID, &itemType, &item.Title, &item.Destination,
		&item.Description, &item.Completed, &item.TripID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	item.Type = types.BucketlistType(itemType)
	return &item, nil
}

func (r *RepositoryImpl) ListItems(ctx context.Context, userID uuid.UUID) ([]types.BucketlistItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+itemColumns+` FROM bucketlist_items WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query bucketlist", slog.Any("error", err))
		return nil, fmt.Errorf("failed to query bucketlist: %w", err)
	}
	defer rows.Close()

	items := []types.BucketlistItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bucketlist item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bucketlist: %w", err)
	}
	return items, nil
}

func (r *RepositoryImpl) GetItem(ctx context.Context, userID, itemID uuid.UUID) (*types.BucketlistItem, error) {
	item, err := scanItem(r.db.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM bucketlist_items WHERE id = $1 AND user_id = $2`, itemID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("bucketlist item %s not found: %w", itemID, types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get bucketlist item: %w", err)
	}
	return item, nil
}

func (r *RepositoryImpl) CreateItem(ctx context.Context, item types.BucketlistItem) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO bucketlist_items (`+itemColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		item.ID, item.UserID, string(item.Type), item.Title, item.Destination, item.Description,
		item.Completed, item.TripID, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert bucketlist item", slog.Any("error", err))
		return fmt.Errorf("failed to insert bucketlist item: %w", err)
	}
	return nil
}

// PatchItem updates completed and trip_id when supplied; nil leaves the column as is.
func (r *RepositoryImpl) PatchItem(ctx context.Context, userID, itemID uuid.UUID, completed *bool, tripID *uuid.UUID) (*types.BucketlistItem, error) {
	item, err := scanItem(r.db.QueryRow(ctx, `
        UPDATE bucketlist_items
        SET completed = COALESCE($3, completed),
            trip_id = COALESCE($4, trip_id),
            updated_at = NOW()
        WHERE id = $1 AND user_id = $2
        RETURNING `+itemColumns,
		itemID, userID, completed, tripID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("bucketlist item %s not found: %w", itemID, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to patch bucketlist item", slog.Any("error", err))
		return nil, fmt.Errorf("failed to patch bucketlist item: %w", err)
	}
	return item, nil
}

// LinkTrip sets trip_id only while it is still empty and returns the trip id the
// item ends up linked to, which differs from tripID when another promotion won.
func (r *RepositoryImpl) LinkTrip(ctx context.Context, userID, itemID, tripID uuid.UUID) (uuid.UUID, error) {
	var linked uuid.UUID
	err := r.db.QueryRow(ctx, `
        UPDATE bucketlist_items
        SET trip_id = $3, updated_at = NOW()
        WHERE id = $1 AND user_id = $2 AND trip_id IS NULL
        RETURNING trip_id`,
		itemID, userID, tripID).Scan(&linked)
	if err == nil {
		return linked, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		// Real storage failure, not a lost race
		r.logger.ErrorContext(ctx, "Failed to link trip", slog.Any("error", err))
		return uuid.Nil, fmt.Errorf("failed to link trip: %w", err)
	}

	// No row updated: either the item is gone or someone linked it first
	item, err := r.GetItem(ctx, userID, itemID)
	if err != nil {
		return uuid.Nil, err
	}
	if item.TripID == nil {
		return uuid.Nil, fmt.Errorf("bucketlist item %s could not be linked: %w", itemID, types.ErrConflict)
	}
	return *item.TripID, nil
}

func (r *RepositoryImpl) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bucketlist_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete bucketlist item", slog.Any("error", err))
		return fmt.Errorf("failed to delete bucketlist item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bucketlist item %s not found: %w", itemID, types.ErrNotFound)
	}
	return nil
}
