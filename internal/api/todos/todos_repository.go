package todos

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
	TripOwned(ctx context.Context, userID, tripID uuid.UUID) (bool, error)
	ListTodos(ctx context.Context, tripID uuid.UUID) ([]types.TripTodo, error)
	CreateTodo(ctx context.Context, todo *types.TripTodo, orderIndex *int) error
	UpdateTodo(ctx context.Context, tripID, todoID uuid.UUID, req types.UpdateTodoRequest) (*types.TripTodo, error)
	DeleteTodo(ctx context.Context, tripID, todoID uuid.UUID) error
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

func (r *RepositoryImpl) TripOwned(ctx context.Context, userID, tripID uuid.UUID) (bool, error) {
	var owned bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1 AND user_id = $2)`, tripID, userID,
	).Scan(&owned)
	if err != nil {
		return false, fmt.Errorf("failed to check trip ownership: %w", err)
	}
	return owned, nil
}

// ListTodos returns the trip's todos ordered by order_index.
func (r *RepositoryImpl) ListTodos(ctx context.Context, tripID uuid.UUID) ([]types.TripTodo, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, trip_id, title, completed, order_index, created_at
        FROM trip_todos
        WHERE trip_id = $1
        ORDER BY order_index, created_at`, tripID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query todos", slog.Any("error", err))
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	todos := []types.TripTodo{}
	for rows.Next() {
		var t types.TripTodo
		if err := rows.Scan(&t.ID, &t.TripID, &t.Title, &t.Completed, &t.OrderIndex, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}
	return todos, nil
}

// CreateTodo inserts the todo. A nil orderIndex appends after the current last entry.
func (r *RepositoryImpl) CreateTodo(ctx context.Context, todo *types.TripTodo, orderIndex *int) error {
	// Appends after the last todo unless an explicit index was sent; the first todo gets 0
	err := r.db.QueryRow(ctx, `
        INSERT INTO trip_todos (id, trip_id, title, completed, order_index, created_at)
        VALUES ($1, $2, $3, FALSE,
                COALESCE($4, (SELECT MAX(order_index) + 1 FROM trip_todos WHERE trip_id = $2), 0),
                $5)
        RETURNING order_index`,
		todo.ID, todo.TripID, todo.Title, orderIndex, todo.CreatedAt,
	).Scan(&todo.OrderIndex)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert todo", slog.Any("error", err))
		return fmt.Errorf("failed to insert todo: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) UpdateTodo(ctx context.Context, tripID, todoID uuid.UUID, req types.UpdateTodoRequest) (*types.TripTodo, error) {
	var t types.TripTodo
	err := r.db.QueryRow(ctx, `
        UPDATE trip_todos
        SET title = COALESCE($3, title),
            completed = COALESCE($4, completed),
            order_index = COALESCE($5, order_index)
        WHERE id = $1 AND trip_id = $2
        RETURNING id, trip_id, title, completed, order_index, created_at`,
		todoID, tripID, req.Title, req.Completed, req.OrderIndex,
	).Scan(&t.ID, &t.TripID, &t.Title, &t.Completed, &t.OrderIndex, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("todo %s not found: %w", todoID, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to update todo", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	return &t, nil
}

func (r *RepositoryImpl) DeleteTodo(ctx context.Context, tripID, todoID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM trip_todos WHERE id = $1 AND trip_id = $2`, todoID, tripID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete todo", slog.Any("error", err))
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("todo %s not found: %w", todoID, types.ErrNotFound)
	}
	return nil
}
