package suggestions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Itinerary is the mutation path accepted suggestions go through.
type Itinerary interface {
	AddActivity(ctx context.Context, userID, tripID uuid.UUID, dayNumber int, activity types.TripActivity) (*types.Itinerary, error)
}

type TripReader interface {
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
}

type Service interface {
	ListForTrip(ctx context.Context, userID, tripID uuid.UUID) ([]types.TripActivitySeed, error)
	Accept(ctx context.Context, userID, tripID uuid.UUID, seedID string, dayNumber int) (*types.Itinerary, error)
}

type ServiceImpl struct {
	logger    *slog.Logger
	catalog   *Catalog
	tracker   *Tracker
	trips     TripReader
	itinerary Itinerary
}

func NewServiceImpl(catalog *Catalog, tracker *Tracker, trips TripReader, itinerary Itinerary, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		catalog:   catalog,
		tracker:   tracker,
		trips:     trips,
		itinerary: itinerary,
	}
}

// ListForTrip returns the catalog seeds for the trip's destination. A seed is marked
// added once accepted in this session or when the itinerary already holds its title.
func (s *ServiceImpl) ListForTrip(ctx context.Context, userID, tripID uuid.UUID) ([]types.TripActivitySeed, error) {
	ctx, span := otel.Tracer("SuggestionService").Start(ctx, "ListForTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	trip, err := s.trips.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip not found")
		return nil, fmt.Errorf("failed to load trip for suggestions: %w", err)
	}

	seeds := s.catalog.SuggestionsFor(trip.Destination)
	for i := range seeds {
		seeds[i].Added = s.added(trip, seeds[i])
	}
	span.SetAttributes(attribute.Int("suggestions.count", len(seeds)))
	span.SetStatus(codes.Ok, "Suggestions listed")
	return seeds, nil
}

// Accept adds the seed to the given day through the itinerary. A seed already added
// to the trip is a conflict.
func (s *ServiceImpl) Accept(ctx context.Context, userID, tripID uuid.UUID, seedID string, dayNumber int) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("SuggestionService").Start(ctx, "Accept", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.String("suggestion.id", seedID),
		attribute.Int("day.number", dayNumber),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Accept"), slog.String("tripID", tripID.String()), slog.String("seedID", seedID))

	trip, err := s.trips.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip not found")
		return nil, fmt.Errorf("failed to load trip for suggestion: %w", err)
	}

	// Seed ids are only valid for the trip's own destination
	seed, ok := lo.Find(s.catalog.SuggestionsFor(trip.Destination), func(sd types.TripActivitySeed) bool {
		return sd.ID == seedID
	})
	if !ok {
		span.SetStatus(codes.Error, "Unknown suggestion")
		return nil, fmt.Errorf("suggestion %s for %q: %w", seedID, trip.Destination, types.ErrNotFound)
	}
	// Reserve before writing so two concurrent accepts cannot both add the seed
	if s.added(trip, seed) || !s.tracker.Reserve(tripID, seedID) {
		span.SetStatus(codes.Error, "Suggestion already added")
		return nil, fmt.Errorf("suggestion %q already added: %w", seed.Title, types.ErrConflict)
	}

	itin, err := s.itinerary.AddActivity(ctx, userID, tripID, dayNumber, seed.TripActivity)
	if err != nil {
		// Free the reservation, the seed was never added
		s.tracker.Release(tripID, seedID)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to add suggestion")
		return nil, fmt.Errorf("failed to add suggestion: %w", err)
	}

	metrics.Get().SuggestionsAcceptedTotal.Add(ctx, 1)
	l.InfoContext(ctx, "Suggestion accepted", slog.String("title", seed.Title), slog.Int("day", dayNumber))
	span.SetStatus(codes.Ok, "Suggestion accepted")
	return itin, nil
}

func (s *ServiceImpl) added(trip *types.Trip, seed types.TripActivitySeed) bool {
	if s.tracker.Accepted(trip.ID, seed.ID) {
		return true
	}
	// Fall back to a title match for seeds added in an earlier session
	title := Normalize(seed.Title)
	return lo.SomeBy(trip.Days, func(d types.TripDay) bool {
		return lo.SomeBy(d.Activities, func(a types.TripActivity) bool { return Normalize(a.Title) == title })
	})
}
