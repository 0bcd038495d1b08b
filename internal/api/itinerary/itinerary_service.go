package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/api/budget"
	"github.com/FACorreiaa/go-trip-planner/internal/api/schema"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// TripStore is the slice of the trip repository the itinerary needs. Days are
// persisted wholesale, one statement per mutation.
type TripStore interface {
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
	SaveDays(ctx context.Context, userID, tripID uuid.UUID, days []types.TripDay) (time.Time, error)
}

// Service edits the day/activity structure of a trip. Every mutation returns the
// updated itinerary with a recomputed budget.
type Service interface {
	GetItinerary(ctx context.Context, userID, tripID uuid.UUID) (*types.Itinerary, error)
	AddActivity(ctx context.Context, userID, tripID uuid.UUID, dayNumber int, activity types.TripActivity) (*types.Itinerary, error)
	EditActivity(ctx context.Context, userID, tripID uuid.UUID, dayNumber, index int, activity types.TripActivity) (*types.Itinerary, error)
	DeleteActivity(ctx context.Context, userID, tripID uuid.UUID, dayNumber, index int) (*types.Itinerary, error)
	ExportCalendar(ctx context.Context, userID, tripID uuid.UUID) ([]byte, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	store  TripStore
	now    func() time.Time
}

func NewServiceImpl(store TripStore, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *ServiceImpl) GetItinerary(ctx context.Context, userID, tripID uuid.UUID) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GetItinerary", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	trip, err := s.store.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip not found")
		return nil, fmt.Errorf("failed to load itinerary: %w", err)
	}
	itin := budget.ItineraryOf(trip)
	span.SetStatus(codes.Ok, "Itinerary loaded")
	return &itin, nil
}

// AddActivity inserts the activity into its slot position on the given day. The day
// after the last existing one is created on demand.
func (s *ServiceImpl) AddActivity(ctx context.Context, userID, tripID uuid.UUID, dayNumber int, activity types.TripActivity) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "AddActivity", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.Int("day.number", dayNumber),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "AddActivity"), slog.String("tripID", tripID.String()))

	activity = withDefaults(activity)
	if err := schema.CheckActivity(activity); err != nil {
		span.SetStatus(codes.Error, "Invalid activity")
		return nil, err
	}
	if dayNumber < 1 {
		span.SetStatus(codes.Error, "Invalid day")
		return nil, types.NewValidationError("day_number", "must be greater than or equal to 1")
	}

	trip, err := s.store.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip not found")
		return nil, fmt.Errorf("failed to load trip for activity: %w", err)
	}

	// Mutate a copy; trip.Days stays as loaded until the save succeeds
	days := cloneDays(trip.Days)
	_, idx, found := lo.FindIndexOf(days, func(d types.TripDay) bool { return d.DayNumber == dayNumber })
	if !found {
		// Only the next day may be appended, anything further would leave a gap
		if dayNumber > len(days)+1 {
			span.SetStatus(codes.Error, "Invalid day")
			return nil, types.NewValidationError("day_number",
				fmt.Sprintf("must be at most %d, days are numbered contiguously", len(days)+1))
		}
		days = append(days, types.TripDay{
			DayNumber:  dayNumber,
			Title:      fmt.Sprintf("Day %d", dayNumber),
			Activities: []types.TripActivity{},
		})
		idx = len(days) - 1
		l.DebugContext(ctx, "Created day for activity", slog.Int("day", dayNumber))
	}
	days[idx].Activities = insertBySlot(days[idx].Activities, activity)

	return s.save(ctx, span, l, trip, days, "add")
}

// EditActivity replaces the activity at index and re-slots it.
func (s *ServiceImpl) EditActivity(ctx context.Context, userID, tripID uuid.UUID, dayNumber, index int, activity types.TripActivity) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "EditActivity", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.Int("day.number", dayNumber),
		attribute.Int("activity.index", index),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "EditActivity"), slog.String("tripID", tripID.String()))

	activity = withDefaults(activity)
	if err := schema.CheckActivity(activity); err != nil {
		span.SetStatus(codes.Error, "Invalid activity")
		return nil, err
	}

	trip, err := s.store.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip not found")
		return nil, fmt.Errorf("failed to load trip for activity: %w", err)
	}

	days := cloneDays(trip.Days)
	dayIdx, err := locate(days, dayNumber, index)
	if err != nil {
		span.SetStatus(codes.Error, "Activity not found")
		return nil, err
	}
	// Remove and re-insert so a changed time slot moves the activity
	remaining := slices.Delete(days[dayIdx].Activities, index, index+1)
	days[dayIdx].Activities = insertBySlot(remaining, activity)

	return s.save(ctx, span, l, trip, days, "edit")
}

// DeleteActivity removes one activity. A day left without activities is kept.
func (s *ServiceImpl) DeleteActivity(ctx context.Context, userID, tripID uuid.UUID, dayNumber, index int) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "DeleteActivity", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.Int("day.number", dayNumber),
		attribute.Int("activity.index", index),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "DeleteActivity"), slog.String("tripID", tripID.String()))

	trip, err := s.store.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip not found")
		return nil, fmt.Errorf("failed to load trip for activity: %w", err)
	}

	days := cloneDays(trip.Days)
	dayIdx, err := locate(days, dayNumber, index)
	if err != nil {
		span.SetStatus(codes.Error, "Activity not found")
		return nil, err
	}
	days[dayIdx].Activities = slices.Delete(days[dayIdx].Activities, index, index+1)

	return s.save(ctx, span, l, trip, days, "delete")
}

func (s *ServiceImpl) save(ctx context.Context, span trace.Span, l *slog.Logger, trip *types.Trip, days []types.TripDay, op string) (*types.Itinerary, error) {
	updatedAt, err := s.store.SaveDays(ctx, trip.UserID, trip.ID, days)
	if err != nil {
		l.ErrorContext(ctx, "Failed to save itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save itinerary")
		return nil, fmt.Errorf("failed to save itinerary: %w", err)
	}
	trip.Days = days
	trip.UpdatedAt = updatedAt

	// Budget is always recomputed from the saved days
	itin := budget.ItineraryOf(trip)
	m := metrics.Get()
	m.ItineraryMutationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
	if itin.Budget.OverBudget {
		m.OverBudgetTotal.Add(ctx, 1)
		l.InfoContext(ctx, "Itinerary is over budget", slog.Float64("overage", itin.Budget.Overage))
	}

	span.SetAttributes(attribute.Float64("budget.total", itin.Budget.Total))
	span.SetStatus(codes.Ok, "Itinerary saved")
	return &itin, nil
}

var slotHour = map[types.TimeSlot]int{
	types.TimeSlotMorning:   9,
	types.TimeSlotAfternoon: 14,
	types.TimeSlotEvening:   19,
}

// ExportCalendar renders the itinerary as an iCalendar document, one event per
// activity. Trips without a start date are anchored on today.
func (s *ServiceImpl) ExportCalendar(ctx context.Context, userID, tripID uuid.UUID) ([]byte, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "ExportCalendar", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	trip, err := s.store.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip not found")
		return nil, fmt.Errorf("failed to load trip for calendar: %w", err)
	}

	// Day 1 starts on the trip's start date, or today for undated trips
	now := s.now()
	anchor := now
	if trip.StartDate != nil {
		anchor = trip.StartDate.Time
	}
	anchor = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//trip-planner//itinerary//EN")

	events := 0
	for _, day := range trip.Days {
		date := anchor.AddDate(0, 0, day.DayNumber-1)
		for i, a := range day.Activities {
			start := date.Add(time.Duration(slotHour[a.TimeSlot]) * time.Hour)
			ev := cal.AddEvent(fmt.Sprintf("%s-%d-%d@trip-planner", trip.ID, day.DayNumber, i))
			ev.SetDtStampTime(now)
			ev.SetStartAt(start)
			ev.SetEndAt(start.Add(time.Duration(a.DurationMinutes) * time.Minute))
			ev.SetSummary(a.Title)
			ev.SetLocation(a.LocationName)
			if a.Description != "" {
				ev.SetDescription(a.Description)
			}
			events++
		}
	}

	span.SetAttributes(attribute.Int("calendar.events", events))
	span.SetStatus(codes.Ok, "Calendar exported")
	return []byte(cal.Serialize()), nil
}

func withDefaults(a types.TripActivity) types.TripActivity {
	if a.DurationMinutes == 0 {
		a.DurationMinutes = types.DefaultDurationMinutes
	}
	return a
}

// insertBySlot places a after the last activity whose slot is not later than its own.
func insertBySlot(activities []types.TripActivity, a types.TripActivity) []types.TripActivity {
	_, last, ok := lo.FindLastIndexOf(activities, func(x types.TripActivity) bool {
		return x.TimeSlot.Order() <= a.TimeSlot.Order()
	})
	at := 0
	if ok {
		at = last + 1
	}
	return slices.Insert(activities, at, a)
}

func locate(days []types.TripDay, dayNumber, index int) (int, error) {
	_, dayIdx, ok := lo.FindIndexOf(days, func(d types.TripDay) bool { return d.DayNumber == dayNumber })
	if !ok {
		return 0, fmt.Errorf("day %d: %w", dayNumber, types.ErrNotFound)
	}
	if index < 0 || index >= len(days[dayIdx].Activities) {
		return 0, fmt.Errorf("activity %d on day %d: %w", index, dayNumber, types.ErrNotFound)
	}
	return dayIdx, nil
}

func cloneDays(days []types.TripDay) []types.TripDay {
	out := make([]types.TripDay, len(days))
	for i, d := range days {
		out[i] = d
		out[i].Activities = slices.Clone(d.Activities)
		if out[i].Activities == nil {
			out[i].Activities = []types.TripActivity{}
		}
	}
	return out
}
