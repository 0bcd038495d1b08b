package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
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

// ErrGeneratorFailed wraps transport or provider failures of the plan generator.
var ErrGeneratorFailed = errors.New("plan generator failed")

// TripPlanner is the part of the trip lifecycle the chat drives.
type TripPlanner interface {
	EnsureDraft(ctx context.Context, userID uuid.UUID, existingID *uuid.UUID) (uuid.UUID, bool, error)
	AttachPlan(ctx context.Context, userID, tripID uuid.UUID, plan types.TripPlan) (*types.Trip, error)
}

type Service interface {
	Chat(ctx context.Context, userID uuid.UUID, req types.ChatRequest) (*types.ChatResponse, error)
}

type ServiceImpl struct {
	logger    *slog.Logger
	generator PlanGenerator
	trips     TripPlanner
	sequencer *Sequencer
}

func NewServiceImpl(generator PlanGenerator, trips TripPlanner, sequencer *Sequencer, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		generator: generator,
		trips:     trips,
		sequencer: sequencer,
	}
}

// Chat runs one planning turn against the trip named in req, creating a draft trip
// when none is given. A reply that arrives after a newer request for the same trip
// is returned with Stale set and never attached.
func (s *ServiceImpl) Chat(ctx context.Context, userID uuid.UUID, req types.ChatRequest) (*types.ChatResponse, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "Chat", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.Int64("chat.request_id", req.RequestID),
		attribute.Int("chat.messages", len(req.Messages)),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "Chat"), slog.Int64("requestID", req.RequestID))
	m := metrics.Get()

	tripID, created, err := s.trips.EnsureDraft(ctx, userID, req.TripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to resolve trip")
		return nil, fmt.Errorf("failed to resolve trip for chat: %w", err)
	}
	span.SetAttributes(attribute.String("trip.id", tripID.String()), attribute.Bool("trip.created", created))
	l = l.With(slog.String("tripID", tripID.String()))

	if err := s.sequencer.Begin(tripID, req.RequestID); err != nil {
		m.PlannerRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "rejected_stale")))
		span.SetStatus(codes.Error, "Stale request")
		return nil, err
	}

	resp := &types.ChatResponse{
		TripID:    tripID,
		RequestID: req.RequestID,
		Message:   types.ChatMessage{Role: "assistant"},
	}

	start := time.Now()
	reply, err := s.generator.Generate(ctx, req.Messages)
	m.PlannerDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		l.ErrorContext(ctx, "Plan generator failed", slog.Any("error", err))
		m.PlannerRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "generator_error")))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generator failed")
		return nil, fmt.Errorf("%w: %v", ErrGeneratorFailed, err)
	}

	if !s.sequencer.IsLatest(tripID, req.RequestID) {
		l.InfoContext(ctx, "Discarding reply superseded by a newer request")
		m.PlannerRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "stale")))
		span.SetAttributes(attribute.Bool("chat.stale", true))
		resp.Stale = true
		return resp, nil
	}

	resp.Message.Content = reply.Text
	if len(reply.Calls) == 0 {
		m.PlannerRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "message")))
		span.SetStatus(codes.Ok, "Assistant replied")
		return resp, nil
	}

	call, err := DecodeToolCall(reply.Calls[0])
	if err != nil {
		l.WarnContext(ctx, "Model called an unknown tool", slog.Any("error", err))
		m.PlannerRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "unknown_tool")))
		resp.Error = err.Error()
		return resp, nil
	}
	resp.ToolName = call.ToolName()

	switch c := call.(type) {
	case GenerateTripPlanCall:
		if err := s.attachPlan(ctx, userID, tripID, req.RequestID, c, resp); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to attach plan")
			return nil, err
		}
	}
	if resp.Stale {
		l.InfoContext(ctx, "Plan not attached, request superseded while validating")
		m.PlannerRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "stale")))
		span.SetAttributes(attribute.Bool("chat.stale", true))
		return resp, nil
	}

	outcome := "plan"
	if resp.Error != "" {
		outcome = "invalid_plan"
	}
	m.PlannerRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	span.SetStatus(codes.Ok, "Chat turn handled")
	return resp, nil
}

// attachPlan validates the tool arguments and stores the plan. Validation failures,
// including ones the trip store raises, are written to resp; only storage failures
// are returned.
func (s *ServiceImpl) attachPlan(ctx context.Context, userID, tripID uuid.UUID, requestID int64, call GenerateTripPlanCall, resp *types.ChatResponse) error {
	l := s.logger.With(slog.String("method", "attachPlan"), slog.String("tripID", tripID.String()))

	plan, err := schema.ValidatePlan(call.Arguments)
	if err != nil {
		return rejectPlan(ctx, l, err, resp)
	}

	var trip *types.Trip
	// The sequencer lock is held across the write so a newer request cannot begin
	// between the freshness check and the attach.
	latest, err := s.sequencer.Commit(tripID, requestID, func() error {
		var attachErr error
		trip, attachErr = s.trips.AttachPlan(ctx, userID, tripID, *plan)
		return attachErr
	})
	if !latest {
		resp.Stale = true
		resp.Message.Content = ""
		return nil
	}
	if err != nil {
		var verr *types.ValidationError
		if errors.As(err, &verr) {
			return rejectPlan(ctx, l, err, resp)
		}
		return fmt.Errorf("failed to attach generated plan: %w", err)
	}

	itin := budget.ItineraryOf(trip)
	resp.Plan = plan
	resp.Itinerary = &itin
	if resp.Message.Content == "" {
		resp.Message.Content = fmt.Sprintf("Here is your %d-day plan for %s.", len(plan.Days), plan.Destination)
	}
	return nil
}

// rejectPlan turns a validation error into the chat-visible error fields.
func rejectPlan(ctx context.Context, l *slog.Logger, err error, resp *types.ChatResponse) error {
	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("failed to validate generated plan: %w", err)
	}
	l.InfoContext(ctx, "Generated plan rejected", slog.Int("fieldErrors", len(verr.Fields)))
	resp.Error = "The generated plan was invalid and was not saved"
	resp.FieldErrors = verr.Fields
	return nil
}
