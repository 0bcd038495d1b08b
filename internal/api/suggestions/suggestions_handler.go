package suggestions

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
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

// ListSuggestions godoc
// @Summary      Suggested activities for a trip
// @Description  Catalog seeds for the trip's destination; added marks seeds already in the itinerary.
// @Tags         Suggestions
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Success      200 {array} types.TripActivitySeed
// @Failure      404 {object} map[string]any "Not found"
// @Security     BearerAuth
// @Router       /trips/{tripID}/suggestions [get]
func (h *HandlerImpl) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SuggestionHandler").Start(r.Context(), "ListSuggestions")
	defer span.End()

	userID, ok := auth.RequireUserID(w, r, h.logger)
	if !ok {
		return
	}
	tripID, ok := api.URLParamUUID(w, r, "tripID")
	if !ok {
		return
	}

	seeds, err := h.service.ListForTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list suggestions")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, seeds)
}

// AcceptSuggestion godoc
// @Summary      Add a suggestion to the itinerary
// @Tags         Suggestions
// @Accept       json
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Param        suggestionID path string true "Suggestion ID"
// @Param        body body types.AcceptSuggestionRequest true "Target day"
// @Success      201 {object} types.Itinerary
// @Failure      404 {object} map[string]any "Not found"
// @Failure      409 {object} map[string]any "Already added"
// @Security     BearerAuth
// @Router       /trips/{tripID}/suggestions/{suggestionID} [post]
func (h *HandlerImpl) AcceptSuggestion(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SuggestionHandler").Start(r.Context(), "AcceptSuggestion")
	defer span.End()
	l := h.logger.With(slog.String("handler", "AcceptSuggestion"))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		return
	}
	tripID, ok := api.URLParamUUID(w, r, "tripID")
	if !ok {
		return
	}
	seedID := chi.URLParam(r, "suggestionID")

	var req types.AcceptSuggestionRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		api.ServiceErrorResponse(w, r, err)
		return
	}

	itin, err := h.service.Accept(ctx, userID, tripID, seedID, req.DayNumber)
	if err != nil {
		l.InfoContext(ctx, "Suggestion not accepted", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to accept suggestion")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Suggestion accepted")
	api.WriteJSONResponse(w, r, http.StatusCreated, itin)
}
