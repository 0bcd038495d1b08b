package todos

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service manages a trip's checklist. Every call is scoped through the parent trip.
type Service interface {
	List(ctx context.Context, userID, tripID uuid.UUID) ([]types.TripTodo, error)
	Create(ctx context.Context, userID, tripID uuid.UUID, req types.CreateTodoRequest) (*types.TripTodo, error)
	Update(ctx context.Context, userID, tripID, todoID uuid.UUID, req types.UpdateTodoRequest) (*types.TripTodo, error)
	Delete(ctx context.Context, userID, tripID, todoID uuid.UUID) error
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) authorize(ctx context.Context, userID, tripID uuid.UUID) error {
	owned, err := s.repo.TripOwned(ctx, userID, tripID)
	if err != nil {
		return err
	}
	if !owned {
		return fmt.Errorf("trip %s: %w", tripID, types.ErrNotFound)
	}
	return nil
}

func (s *ServiceImpl) List(ctx context.Context, userID, tripID uuid.UUID) ([]types.TripTodo, error) {
	ctx, span := otel.Tracer("TodoService").Start(ctx, "List", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	if err := s.authorize(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip not accessible")
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	todos, err := s.repo.ListTodos(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list todos")
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	span.SetStatus(codes.Ok, "Todos listed")
	return todos, nil
}

func (s *ServiceImpl) Create(ctx context.Context, userID, tripID uuid.UUID, req types.CreateTodoRequest) (*types.TripTodo, error) {
	ctx, span := otel.Tracer("TodoService").Start(ctx, "Create", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Create"), slog.String("tripID", tripID.String()))

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, types.NewValidationError("title", "is required")
	}
	if err := s.authorize(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip not accessible")
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	todo := &types.TripTodo{
		ID:        uuid.New(),
		TripID:    tripID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateTodo(ctx, todo, req.OrderIndex); err != nil {
		l.ErrorContext(ctx, "Failed to create todo", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create todo")
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	l.InfoContext(ctx, "Todo created", slog.String("todoID", todo.ID.String()), slog.Int("order", todo.OrderIndex))
	span.SetStatus(codes.Ok, "Todo created")
	return todo, nil
}

func (s *ServiceImpl) Update(ctx context.Context, userID, tripID, todoID uuid.UUID, req types.UpdateTodoRequest) (*types.TripTodo, error) {
	ctx, span := otel.Tracer("TodoService").Start(ctx, "Update", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.String("todo.id", todoID.String()),
	))
	defer span.End()

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, types.NewValidationError("title", "must not be empty")
		}
		req.Title = &title
	}
	if err := s.authorize(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip not accessible")
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	todo, err := s.repo.UpdateTodo(ctx, tripID, todoID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update todo")
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	span.SetStatus(codes.Ok, "Todo updated")
	return todo, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, userID, tripID, todoID uuid.UUID) error {
	ctx, span := otel.Tracer("TodoService").Start(ctx, "Delete", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.String("todo.id", todoID.String()),
	))
	defer span.End()

	if err := s.authorize(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip not accessible")
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if err := s.repo.DeleteTodo(ctx, tripID, todoID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete todo")
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	span.SetStatus(codes.Ok, "Todo deleted")
	return nil
}
