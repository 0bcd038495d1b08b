package trips

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
	"github.com/FACorreiaa/go-trip-planner/internal/api/budget"
	"github.com/FACorreiaa/go-trip-planner/internal/api/schema"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

// ListTrips godoc
// @Summary      List trips
// @Description  Lists the caller's trips, newest first.
// @Tags         Trips
// @Produce      json
// @Success      200 {array} types.Trip
// @Failure      401 {object} map[string]any "Unauthorized"
// @Failure      500 {object} map[string]any "Internal Server Error"
// @Security     BearerAuth
// @Router       /trips [get]
func (h *HandlerImpl) ListTrips(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "ListTrips")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListTrips"))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Unauthorized")
		return
	}

	trips, err := h.service.ListTrips(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Service failed to list trips", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list trips")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Trips listed")
	api.WriteJSONResponse(w, r, http.StatusOK, trips)
}

// CreateTrip godoc
// @Summary      Create a trip
// @Description  Creates a trip. Omitted fields default to title "New Trip", destination "TBD", currency "EUR", status "planned".
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Param        trip body types.CreateTripRequest false "Trip fields"
// @Success      201 {object} types.IDResponse
// @Failure      400 {object} map[string]any "Validation error"
// @Failure      401 {object} map[string]any "Unauthorized"
// @Failure      500 {object} map[string]any "Internal Server Error"
// @Security     BearerAuth
// @Router       /trips [post]
func (h *HandlerImpl) CreateTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "CreateTrip")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateTrip"))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Unauthorized")
		return
	}

	var req types.CreateTripRequest
	if r.ContentLength != 0 {
		if err := api.DecodeAndValidate(w, r, &req); err != nil {
			l.WarnContext(ctx, "Invalid create trip request", slog.Any("error", err))
			span.SetStatus(codes.Error, "Bad request")
			api.ServiceErrorResponse(w, r, err)
			return
		}
	}

	trip, err := h.service.CreateTrip(ctx, userID, req)
	if err != nil {
		l.ErrorContext(ctx, "Service failed to create trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create trip")
		api.ServiceErrorResponse(w, r, err)
		return
	}

	span.SetAttributes(attribute.String("trip.id", trip.ID.String()))
	span.SetStatus(codes.Ok, "Trip created")
	api.WriteJSONResponse(w, r, http.StatusCreated, types.IDResponse{ID: trip.ID})
}

// DeleteTrip godoc
// @Summary      Delete a trip
// @Tags         Trips
// @Produce      json
// @Param        id query string true "Trip ID"
// @Success      200 {object} types.SuccessResponse
// @Failure      400 {object} map[string]any "Invalid id"
// @Failure      401 {object} map[string]any "Unauthorized"
// @Failure      404 {object} map[string]any "Not found"
// @Security     BearerAuth
// @Router       /trips [delete]
func (h *HandlerImpl) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "DeleteTrip")
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeleteTrip"))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		return
	}
	tripID, ok := api.QueryUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTrip(ctx, userID, tripID); err != nil {
		l.WarnContext(ctx, "Service failed to delete trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete trip")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Trip deleted")
	api.WriteJSONResponse(w, r, http.StatusOK, types.SuccessResponse{Success: true})
}

// EnsureDraft godoc
// @Summary      Ensure a draft trip exists
// @Description  Returns trip_id when it resolves to one of the caller's trips, otherwise creates a placeholder trip.
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Param        body body types.EnsureDraftRequest false "Existing trip id"
// @Success      200 {object} types.IDResponse "Existing trip"
// @Success      201 {object} types.IDResponse "Created trip"
// @Security     BearerAuth
// @Router       /trips/draft [post]
func (h *HandlerImpl) EnsureDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "EnsureDraft")
	defer span.End()
	l := h.logger.With(slog.String("handler", "EnsureDraft"))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		return
	}

	var req types.EnsureDraftRequest
	if r.ContentLength != 0 {
		if err := api.DecodeAndValidate(w, r, &req); err != nil {
			api.ServiceErrorResponse(w, r, err)
			return
		}
	}

	id, created, err := h.service.EnsureDraft(ctx, userID, req.TripID)
	if err != nil {
		l.ErrorContext(ctx, "Service failed to ensure draft", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to ensure draft")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	span.SetStatus(codes.Ok, "Draft ensured")
	api.WriteJSONResponse(w, r, status, types.IDResponse{ID: id})
}

// GetTrip godoc
// @Summary      Get trip details
// @Description  Returns the trip, its budget breakdown and its todos.
// @Tags         Trips
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Success      200 {object} types.TripDetails
// @Failure      404 {object} map[string]any "Not found"
// @Security     BearerAuth
// @Router       /trips/{tripID} [get]
func (h *HandlerImpl) GetTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "GetTrip")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetTrip"))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		return
	}
	tripID, ok := api.URLParamUUID(w, r, "tripID")
	if !ok {
		return
	}

	details, err := h.service.GetTripDetails(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get trip")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Trip fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, details)
}

// UpdateTrip godoc
// @Summary      Update trip fields
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Param        trip body types.UpdateTripRequest true "Fields to change"
// @Success      200 {object} types.Trip
// @Failure      400 {object} map[string]any "Validation error"
// @Failure      404 {object} map[string]any "Not found"
// @Security     BearerAuth
// @Router       /trips/{tripID} [patch]
func (h *HandlerImpl) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "UpdateTrip")
	defer span.End()
	l := h.logger.With(slog.String("handler", "UpdateTrip"))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		return
	}
	tripID, ok := api.URLParamUUID(w, r, "tripID")
	if !ok {
		return
	}

	var req types.UpdateTripRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		api.ServiceErrorResponse(w, r, err)
		return
	}

	trip, err := h.service.UpdateTrip(ctx, userID, tripID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update trip")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Trip updated")
	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

// UpdateStatus godoc
// @Summary      Advance trip status
// @Description  Only the next status in draft, planned, active, completed is accepted.
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Param        body body types.UpdateTripStatusRequest true "Target status"
// @Success      200 {object} types.Trip
// @Failure      409 {object} map[string]any "Invalid transition"
// @Security     BearerAuth
// @Router       /trips/{tripID}/status [put]
func (h *HandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req types.UpdateTripStatusRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		api.ServiceErrorResponse(w, r, err)
		return
	}
	h.advance(w, r, req.Status)
}

// StartTrip godoc
// @Summary      Start a planned trip
// @Tags         Trips
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Success      200 {object} types.Trip
// @Failure      409 {object} map[string]any "Invalid transition"
// @Security     BearerAuth
// @Router       /trips/{tripID}/start [post]
func (h *HandlerImpl) StartTrip(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, types.TripStatusActive)
}

// CompleteTrip godoc
// @Summary      Complete an active trip
// @Tags         Trips
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Success      200 {object} types.Trip
// @Failure      409 {object} map[string]any "Invalid transition"
// @Security     BearerAuth
// @Router       /trips/{tripID}/complete [post]
func (h *HandlerImpl) CompleteTrip(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, types.TripStatusCompleted)
}

func (h *HandlerImpl) advance(w http.ResponseWriter, r *http.Request, target types.TripStatus) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "AdvanceStatus")
	defer span.End()
	l := h.logger.With(slog.String("handler", "AdvanceStatus"), slog.String("target", string(target)))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		return
	}
	tripID, ok := api.URLParamUUID(w, r, "tripID")
	if !ok {
		return
	}

	trip, err := h.service.AdvanceStatus(ctx, userID, tripID, target)
	if err != nil {
		if !errors.Is(err, types.ErrInvalidTransition) && !errors.Is(err, types.ErrNotFound) {
			l.ErrorContext(ctx, "Service failed to advance status", slog.Any("error", err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to advance status")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Status advanced")
	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

// AttachPlan godoc
// @Summary      Attach a plan to a trip
// @Description  Validates the plan and replaces the trip's days wholesale.
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Param        plan body types.TripPlan true "Trip plan"
// @Success      200 {object} types.Itinerary
// @Failure      400 {object} map[string]any "Validation error"
// @Security     BearerAuth
// @Router       /trips/{tripID}/plan [put]
func (h *HandlerImpl) AttachPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "AttachPlan")
	defer span.End()
	l := h.logger.With(slog.String("handler", "AttachPlan"))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		return
	}
	tripID, ok := api.URLParamUUID(w, r, "tripID")
	if !ok {
		return
	}

	raw, err := api.ReadRawBody(w, r)
	if err != nil {
		api.ServiceErrorResponse(w, r, err)
		return
	}
	plan, err := schema.ValidatePlan(raw)
	if err != nil {
		l.WarnContext(ctx, "Rejected plan", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid plan")
		api.ServiceErrorResponse(w, r, err)
		return
	}

	trip, err := h.service.AttachPlan(ctx, userID, tripID, *plan)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to attach plan")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Plan attached")
	api.WriteJSONResponse(w, r, http.StatusOK, budget.ItineraryOf(trip))
}

// GetBudget godoc
// @Summary      Budget breakdown
// @Description  Recomputes the category and per-day rollup from the current activities.
// @Tags         Trips
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Success      200 {object} types.BudgetBreakdown
// @Failure      404 {object} map[string]any "Not found"
// @Security     BearerAuth
// @Router       /trips/{tripID}/budget [get]
func (h *HandlerImpl) GetBudget(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "GetBudget")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetBudget"))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		return
	}
	tripID, ok := api.URLParamUUID(w, r, "tripID")
	if !ok {
		return
	}

	b, err := h.service.GetBudget(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to compute budget")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Budget computed")
	api.WriteJSONResponse(w, r, http.StatusOK, b)
}
