package trips

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	database "github.com/FACorreiaa/go-trip-planner/app/db"
	"github.com/FACorreiaa/go-trip-planner/internal/api/schema"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository persists trips. Every lookup is scoped to the owning user so a foreign
// trip is indistinguishable from a missing one.
type Repository interface {
	CreateTrip(ctx context.Context, trip types.Trip) error
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
	ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error)
	UpdateTrip(ctx context.Context, trip *types.Trip) error
	SaveDays(ctx context.Context, userID, tripID uuid.UUID, days []types.TripDay) (time.Time, error)
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error
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

const tripColumns = `id, user_id, title, destination, start_date, end_date, total_budget, currency, status, days, created_at, updated_at`

func (r *RepositoryImpl) CreateTrip(ctx context.Context, trip types.Trip) error {
	days, err := encodeDays(trip.Days)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO trips (` + tripColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `
	_, err = r.db.Exec(ctx, query,
		trip.ID, trip.UserID, trip.Title, trip.Destination, trip.StartDate.TimePtr(), trip.EndDate.TimePtr(),
		trip.TotalBudget, trip.Currency, string(trip.Status), days, trip.CreatedAt, trip.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to create trip", slog.Any("error", err))
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1 AND user_id = $2`
	trip, err := scanTrip(r.db.QueryRow(ctx, query, tripID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("trip %s not found: %w", tripID, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to get trip", slog.Any("error", err), slog.String("tripID", tripID.String()))
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return trip, nil
}

func (r *RepositoryImpl) ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list trips", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	trips := make([]types.Trip, 0)
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan trip", slog.Any("error", err))
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, *trip)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating trip rows", slog.Any("error", err))
		return nil, fmt.Errorf("error iterating trip rows: %w", err)
	}
	return trips, nil
}

func (r *RepositoryImpl) UpdateTrip(ctx context.Context, trip *types.Trip) error {
	days, err := encodeDays(trip.Days)
	if err != nil {
		return err
	}
	query := `
        UPDATE trips
        SET title = $3, destination = $4, start_date = $5, end_date = $6, total_budget = $7,
            currency = $8, status = $9, days = $10, updated_at = $11
        WHERE id = $1 AND user_id = $2
    `
	tag, err := r.db.Exec(ctx, query,
		trip.ID, trip.UserID, trip.Title, trip.Destination, trip.StartDate.TimePtr(), trip.EndDate.TimePtr(),
		trip.TotalBudget, trip.Currency, string(trip.Status), days, trip.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update trip", slog.Any("error", err))
		return fmt.Errorf("failed to update trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip %s not found: %w", trip.ID, types.ErrNotFound)
	}
	return nil
}

// SaveDays replaces the day collection in a single statement.
func (r *RepositoryImpl) SaveDays(ctx context.Context, userID, tripID uuid.UUID, days []types.TripDay) (time.Time, error) {
	payload, err := encodeDays(days)
	if err != nil {
		return time.Time{}, err
	}
	now := time.Now().UTC()
	tag, err := r.db.Exec(ctx, `UPDATE trips SET days = $3, updated_at = $4 WHERE id = $1 AND user_id = $2`,
		tripID, userID, payload, now)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to save itinerary days", slog.Any("error", err))
		return time.Time{}, fmt.Errorf("failed to save itinerary days: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Deleted meanwhile, or not owned by userID
		return time.Time{}, fmt.Errorf("trip %s not found: %w", tripID, types.ErrNotFound)
	}
	return now, nil
}

func (r *RepositoryImpl) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM trips WHERE id = $1 AND user_id = $2`, tripID, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete trip", slog.Any("error", err))
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip %s not found: %w", tripID, types.ErrNotFound)
	}
	return nil
}

func scanTrip(row pgx.Row) (*types.Trip, error) {
	var (
		trip               types.Trip
		startDate, endDate *time.Time
		status             string
		days               []byte
	)
	err := row.Scan(
		&trip.ID, &trip.UserID, &trip.Title, &trip.Destination, &startDate, &endDate,
		&trip.TotalBudget, &trip.Currency, &status, &days, &trip.CreatedAt, &trip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if startDate != nil {
		trip.StartDate = types.NewDate(*startDate)
	}
	if endDate != nil {
		trip.EndDate = types.NewDate(*endDate)
	}
	trip.Status = types.TripStatus(status)
	trip.Days, err = decodeDays(days)
	if err != nil {
		return nil, fmt.Errorf("trip %s: %w", trip.ID, err)
	}
	return &trip, nil
}

func encodeDays(days []types.TripDay) ([]byte, error) {
	if days == nil {
		days = []types.TripDay{}
	}
	b, err := json.Marshal(days)
	if err != nil {
		return nil, fmt.Errorf("failed to encode itinerary days: %w", err)
	}
	return b, nil
}

// decodeDays parses the stored JSONB and re-validates it, so a corrupted record never
// reaches the itinerary or budget code.
func decodeDays(raw []byte) ([]types.TripDay, error) {
	days := make([]types.TripDay, 0)
	if len(raw) == 0 {
		return days, nil
	}
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, fmt.Errorf("stored itinerary is not valid JSON: %w", err)
	}
	if err := schema.CheckDays(days); err != nil {
		return nil, fmt.Errorf("stored itinerary is invalid: %v", err)
	}
	for i := range days {
		if days[i].Activities == nil {
			days[i].Activities = []types.TripActivity{}
		}
	}
	return days, nil
}
