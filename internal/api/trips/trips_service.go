package trips

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
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/api/budget"
	"github.com/FACorreiaa/go-trip-planner/internal/api/schema"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// TodoLister loads a trip's checklist for the details view.
type TodoLister interface {
	ListTodos(ctx context.Context, tripID uuid.UUID) ([]types.TripTodo, error)
}

// Service is the trip lifecycle manager: creation, drafts, plan attachment and the
// forward-only status machine.
type Service interface {
	CreateTrip(ctx context.Context, userID uuid.UUID, req types.CreateTripRequest) (*types.Trip, error)
	ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
	GetTripDetails(ctx context.Context, userID, tripID uuid.UUID) (*types.TripDetails, error)
	UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, req types.UpdateTripRequest) (*types.Trip, error)
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error
	EnsureDraft(ctx context.Context, userID uuid.UUID, existingID *uuid.UUID) (uuid.UUID, bool, error)
	AttachPlan(ctx context.Context, userID, tripID uuid.UUID, plan types.TripPlan) (*types.Trip, error)
	AdvanceStatus(ctx context.Context, userID, tripID uuid.UUID, target types.TripStatus) (*types.Trip, error)
	GetBudget(ctx context.Context, userID, tripID uuid.UUID) (*types.BudgetBreakdown, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	todos  TodoLister
	now    func() time.Time
}

func NewServiceImpl(repo Repository, todos TodoLister, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		todos:  todos,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *ServiceImpl) CreateTrip(ctx context.Context, userID uuid.UUID, req types.CreateTripRequest) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "CreateTrip", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateTrip"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Creating trip")

	if err := checkNotBlank(req.Title, req.Destination, req.Currency); err != nil {
		span.SetStatus(codes.Error, "Blank fields")
		return nil, err
	}
	if err := checkDates(req.StartDate, req.EndDate); err != nil {
		span.SetStatus(codes.Error, "Invalid dates")
		return nil, err
	}

	now := s.now()
	trip := types.Trip{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       orDefault(req.Title, types.DefaultTripTitle),
		Destination: orDefault(req.Destination, types.DefaultTripDestination),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TotalBudget: req.TotalBudget,
		Currency:    orDefault(req.Currency, types.DefaultCurrency),
		Status:      types.TripStatusPlanned,
		Days:        []types.TripDay{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	// Any valid status is accepted at creation, transitions come later
	if req.Status != nil {
		trip.Status = *req.Status
	}

	if err := s.repo.CreateTrip(ctx, trip); err != nil {
		l.ErrorContext(ctx, "Failed to create trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create trip")
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	metrics.Get().TripsCreatedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("origin", "form")))
	l.InfoContext(ctx, "Trip created", slog.String("tripID", trip.ID.String()))
	span.SetStatus(codes.Ok, "Trip created")
	return &trip, nil
}

func (s *ServiceImpl) ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "ListTrips", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	trips, err := s.repo.ListTrips(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list trips", slog.Any("error", err), slog.String("userID", userID.String()))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list trips")
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	span.SetAttributes(attribute.Int("trips.count", len(trips)))
	span.SetStatus(codes.Ok, "Trips listed")
	return trips, nil
}

func (s *ServiceImpl) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GetTrip", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	trip, err := s.repo.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get trip")
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	span.SetStatus(codes.Ok, "Trip fetched")
	return trip, nil
}

// GetTripDetails loads the trip and its checklist concurrently and derives the budget.
func (s *ServiceImpl) GetTripDetails(ctx context.Context, userID, tripID uuid.UUID) (*types.TripDetails, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GetTripDetails", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetTripDetails"), slog.String("tripID", tripID.String()))

	var (
		trip  *types.Trip
		todos []types.TripTodo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trip, err = s.repo.GetTrip(gctx, userID, tripID)
		return err
	})
	g.Go(func() error {
		var err error
		todos, err = s.todos.ListTodos(gctx, tripID)
		return err
	})
	if err := g.Wait(); err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			l.ErrorContext(ctx, "Failed to load trip details", slog.Any("error", err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load trip details")
		return nil, fmt.Errorf("failed to load trip details: %w", err)
	}
	if todos == nil {
		todos = []types.TripTodo{}
	}

	span.SetStatus(codes.Ok, "Trip details loaded")
	return &types.TripDetails{
		Trip:   trip,
		Budget: budget.ForTrip(trip),
		Todos:  todos,
	}, nil
}

func (s *ServiceImpl) UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, req types.UpdateTripRequest) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "UpdateTrip", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateTrip"), slog.String("tripID", tripID.String()))

	if err := checkNotBlank(req.Title, req.Destination, req.Currency); err != nil {
		span.SetStatus(codes.Error, "Blank fields")
		return nil, err
	}

	trip, err := s.repo.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip not found")
		return nil, fmt.Errorf("failed to load trip for update: %w", err)
	}

	if req.Title != nil {
		trip.Title = *req.Title
	}
	if req.Destination != nil {
		trip.Destination = *req.Destination
	}
	if req.StartDate != nil {
		trip.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		trip.EndDate = req.EndDate
	}
	if req.TotalBudget != nil {
		trip.TotalBudget = req.TotalBudget
	}
	if req.Currency != nil {
		trip.Currency = *req.Currency
	}
	if err = checkDates(trip.StartDate, trip.EndDate); err != nil {
		span.SetStatus(codes.Error, "Invalid dates")
		return nil, err
	}
	trip.UpdatedAt = s.now()

	if err = s.repo.UpdateTrip(ctx, trip); err != nil {
		l.ErrorContext(ctx, "Failed to update trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update trip")
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	l.InfoContext(ctx, "Trip updated")
	span.SetStatus(codes.Ok, "Trip updated")
	return trip, nil
}

func (s *ServiceImpl) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	ctx, span := otel.Tracer("TripService").Start(ctx, "DeleteTrip", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	if err := s.repo.DeleteTrip(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete trip")
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	s.logger.InfoContext(ctx, "Trip deleted", slog.String("tripID", tripID.String()))
	span.SetStatus(codes.Ok, "Trip deleted")
	return nil
}

// EnsureDraft returns existingID when it resolves to one of the user's trips and
// otherwise creates a placeholder trip. The bool reports whether a trip was created.
func (s *ServiceImpl) EnsureDraft(ctx context.Context, userID uuid.UUID, existingID *uuid.UUID) (uuid.UUID, bool, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "EnsureDraft", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.Bool("trip.existing_id_supplied", existingID != nil),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "EnsureDraft"), slog.String("userID", userID.String()))

	if existingID != nil {
		trip, err := s.repo.GetTrip(ctx, userID, *existingID)
		switch {
		case err == nil:
			span.SetStatus(codes.Ok, "Existing trip reused")
			return trip.ID, false, nil
		case errors.Is(err, types.ErrNotFound):
			l.InfoContext(ctx, "Supplied trip id does not resolve, creating a new draft", slog.String("tripID", existingID.String()))
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to resolve trip")
			return uuid.Nil, false, fmt.Errorf("failed to resolve trip: %w", err)
		}
	}

	now := s.now()
	trip := types.Trip{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       types.DefaultTripTitle,
		Destination: types.DefaultTripDestination,
		Currency:    types.DefaultCurrency,
		Status:      types.TripStatusPlanned,
		Days:        []types.TripDay{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateTrip(ctx, trip); err != nil {
		l.ErrorContext(ctx, "Failed to create draft trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create draft trip")
		return uuid.Nil, false, fmt.Errorf("failed to create draft trip: %w", err)
	}

	metrics.Get().TripsCreatedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("origin", "draft")))
	l.InfoContext(ctx, "Draft trip created", slog.String("tripID", trip.ID.String()))
	span.SetStatus(codes.Ok, "Draft trip created")
	return trip.ID, true, nil
}

// AttachPlan replaces the trip's days wholesale and renames the trip after the plan's
// destination. A draft trip becomes planned; later statuses are left alone.
func (s *ServiceImpl) AttachPlan(ctx context.Context, userID, tripID uuid.UUID, plan types.TripPlan) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "AttachPlan", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("trip.id", tripID.String()),
		attribute.String("plan.destination", plan.Destination),
		attribute.Int("plan.days", len(plan.Days)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "AttachPlan"), slog.String("tripID", tripID.String()))

	destination := strings.TrimSpace(plan.Destination)
	if destination == "" {
		span.SetStatus(codes.Error, "Invalid plan")
		return nil, types.NewValidationError("destination", "is required")
	}
	if len(plan.Days) == 0 {
		span.SetStatus(codes.Error, "Invalid plan")
		return nil, types.NewValidationError("days", "is required")
	}
	if err := schema.CheckDays(plan.Days); err != nil {
		span.SetStatus(codes.Error, "Invalid plan")
		return nil, err
	}

	trip, err := s.repo.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip not found")
		return nil, fmt.Errorf("failed to load trip for plan: %w", err)
	}

	trip.Destination = destination
	trip.Title = "Trip to " + destination
	trip.Days = plan.Days
	if trip.Status == types.TripStatusDraft {
		trip.Status = types.TripStatusPlanned
	}
	trip.UpdatedAt = s.now()

	if err = s.repo.UpdateTrip(ctx, trip); err != nil {
		l.ErrorContext(ctx, "Failed to attach plan", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to attach plan")
		return nil, fmt.Errorf("failed to attach plan: %w", err)
	}

	metrics.Get().PlansAttachedTotal.Add(ctx, 1)
	l.InfoContext(ctx, "Plan attached", slog.String("destination", destination), slog.Int("days", len(plan.Days)))
	span.SetStatus(codes.Ok, "Plan attached")
	return trip, nil
}

// AdvanceStatus moves the trip exactly one step forward in its lifecycle.
func (s *ServiceImpl) AdvanceStatus(ctx context.Context, userID, tripID uuid.UUID, target types.TripStatus) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "AdvanceStatus", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("trip.id", tripID.String()),
		attribute.String("trip.target_status", string(target)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "AdvanceStatus"), slog.String("tripID", tripID.String()))

	if !target.Valid() {
		span.SetStatus(codes.Error, "Unknown status")
		return nil, types.NewValidationError("status", "must be one of: draft, planned, active, completed")
	}

	trip, err := s.repo.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip not found")
		return nil, fmt.Errorf("failed to load trip for status change: %w", err)
	}

	if !trip.Status.CanAdvanceTo(target) {
		l.WarnContext(ctx, "Rejected status transition", slog.String("from", string(trip.Status)), slog.String("to", string(target)))
		span.SetStatus(codes.Error, "Invalid transition")
		return nil, fmt.Errorf("cannot move trip from %s to %s: %w", trip.Status, target, types.ErrInvalidTransition)
	}

	trip.Status = target
	trip.UpdatedAt = s.now()
	if err = s.repo.UpdateTrip(ctx, trip); err != nil {
		l.ErrorContext(ctx, "Failed to update trip status", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update status")
		return nil, fmt.Errorf("failed to update trip status: %w", err)
	}

	metrics.Get().StatusTransitionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(target))))
	l.InfoContext(ctx, "Trip status advanced", slog.String("status", string(target)))
	span.SetStatus(codes.Ok, "Status advanced")
	return trip, nil
}

// GetBudget recomputes the breakdown from the stored activities.
func (s *ServiceImpl) GetBudget(ctx context.Context, userID, tripID uuid.UUID) (*types.BudgetBreakdown, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GetBudget", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	trip, err := s.repo.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip not found")
		return nil, fmt.Errorf("failed to load trip for budget: %w", err)
	}
	b := budget.ForTrip(trip)
	span.SetAttributes(attribute.Float64("budget.total", b.Total), attribute.Bool("budget.over", b.OverBudget))
	span.SetStatus(codes.Ok, "Budget computed")
	return &b, nil
}

// orDefault keeps a sent value as is; blank values were rejected by checkNotBlank.
func orDefault(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

// checkNotBlank rejects text fields that were sent but hold only whitespace.
func checkNotBlank(title, destination, currency *string) error {
	verr := &types.ValidationError{}
	for _, f := range []struct {
		name  string
		value *string
	}{{"title", title}, {"destination", destination}, {"currency", currency}} {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			verr.Add(f.name, "must not be blank")
		}
	}
	return verr.OrNil()
}

func checkDates(start, end *types.Date) error {
	if start != nil && end != nil && end.Before(start.Time) {
		return types.NewValidationError("end_date", "must not be before start_date")
	}
	return nil
}
