package bucketlist

import (
	"context"
	"errors"
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

// TripManager is the part of the trip lifecycle the bucketlist drives.
type TripManager interface {
	CreateTrip(ctx context.Context, userID uuid.UUID, req types.CreateTripRequest) (*types.Trip, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error
}

type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]types.BucketlistItem, error)
	Create(ctx context.Context, userID uuid.UUID, req types.CreateBucketlistItemRequest) (*types.BucketlistItem, error)
	Patch(ctx context.Context, userID uuid.UUID, req types.PatchBucketlistItemRequest) (*types.BucketlistItem, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID) error
	Promote(ctx context.Context, userID, itemID uuid.UUID) (uuid.UUID, bool, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	trips  TripManager
}

func NewServiceImpl(repo Repository, trips TripManager, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		trips:  trips,
	}
}

func (s *ServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]types.BucketlistItem, error) {
	ctx, span := otel.Tracer("BucketlistService").Start(ctx, "List", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	items, err := s.repo.ListItems(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list bucketlist")
		return nil, fmt.Errorf("failed to list bucketlist: %w", err)
	}
	span.SetStatus(codes.Ok, "Bucketlist listed")
	return items, nil
}

func (s *ServiceImpl) Create(ctx context.Context, userID uuid.UUID, req types.CreateBucketlistItemRequest) (*types.BucketlistItem, error) {
	ctx, span := otel.Tracer("BucketlistService").Start(ctx, "Create", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	verr := &types.ValidationError{}
	title := strings.TrimSpace(req.Title)
	destination := strings.TrimSpace(req.Destination)
	if title == "" {
		verr.Add("title", "is required")
	}
	if destination == "" {
		verr.Add("destination", "is required")
	}
	if err := verr.OrNil(); err != nil {
		span.SetStatus(codes.Error, "Invalid item")
		return nil, err
	}

	now := time.Now().UTC()
	item := types.BucketlistItem{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        types.BucketlistTypeDestination,
		Title:       title,
		Destination: destination,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Type != nil {
		item.Type = *req.Type
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create bucketlist item", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create item")
		return nil, fmt.Errorf("failed to create bucketlist item: %w", err)
	}
	span.SetStatus(codes.Ok, "Item created")
	return &item, nil
}

// Patch updates completion and trip linkage. A trip id must belong to the caller.
func (s *ServiceImpl) Patch(ctx context.Context, userID uuid.UUID, req types.PatchBucketlistItemRequest) (*types.BucketlistItem, error) {
	ctx, span := otel.Tracer("BucketlistService").Start(ctx, "Patch", trace.WithAttributes(
		attribute.String("item.id", req.ID.String()),
	))
	defer span.End()

	if req.TripID != nil {
		if _, err := s.trips.GetTrip(ctx, userID, *req.TripID); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Trip not accessible")
			if errors.Is(err, types.ErrNotFound) {
				return nil, types.NewValidationError("trip_id", "does not reference one of your trips")
			}
			return nil, fmt.Errorf("failed to verify trip: %w", err)
		}
	}

	item, err := s.repo.PatchItem(ctx, userID, req.ID, req.Completed, req.TripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to patch item")
		return nil, fmt.Errorf("failed to patch bucketlist item: %w", err)
	}
	span.SetStatus(codes.Ok, "Item patched")
	return item, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	ctx, span := otel.Tracer("BucketlistService").Start(ctx, "Delete", trace.WithAttributes(
		attribute.String("item.id", itemID.String()),
	))
	defer span.End()

	if err := s.repo.DeleteItem(ctx, userID, itemID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete item")
		return fmt.Errorf("failed to delete bucketlist item: %w", err)
	}
	span.SetStatus(codes.Ok, "Item deleted")
	return nil
}

// Promote turns an item into a trip. An item already linked to a trip returns that
// trip with created=false. Completion is never touched.
func (s *ServiceImpl) Promote(ctx context.Context, userID, itemID uuid.UUID) (uuid.UUID, bool, error) {
	ctx, span := otel.Tracer("BucketlistService").Start(ctx, "Promote", trace.WithAttributes(
		attribute.String("item.id", itemID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Promote"), slog.String("itemID", itemID.String()))

	item, err := s.repo.GetItem(ctx, userID, itemID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Item not found")
		return uuid.Nil, false, fmt.Errorf("failed to load bucketlist item: %w", err)
	}
	if item.TripID != nil {
		span.SetStatus(codes.Ok, "Item already promoted")
		return *item.TripID, false, nil
	}

	// blank item text falls back to the trip defaults
	trip, err := s.trips.CreateTrip(ctx, userID, types.CreateTripRequest{
		Title:       textOrNil(item.Title),
		Destination: textOrNil(item.Destination),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create trip")
		return uuid.Nil, false, fmt.Errorf("failed to create trip from bucketlist item: %w", err)
	}

	linked, err := s.repo.LinkTrip(ctx, userID, itemID, trip.ID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to link promoted trip", slog.Any("error", err), slog.String("tripID", trip.ID.String()))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to link trip")
		return uuid.Nil, false, fmt.Errorf("failed to link trip: %w", err)
	}
	if linked != trip.ID {
		// a concurrent promotion linked first
		if err = s.trips.DeleteTrip(ctx, userID, trip.ID); err != nil {
			l.WarnContext(ctx, "Failed to remove duplicate promoted trip", slog.Any("error", err))
		}
		span.SetStatus(codes.Ok, "Item already promoted")
		return linked, false, nil
	}

	l.InfoContext(ctx, "Bucketlist item promoted", slog.String("tripID", trip.ID.String()))
	span.SetStatus(codes.Ok, "Item promoted")
	return trip.ID, true, nil
}

func textOrNil(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
