package itinerary

import (
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
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

// GetItinerary godoc
// @Summary      Get itinerary
// @Description  Returns the trip's days and a freshly computed budget.
// @Tags         Itinerary
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Success      200 {object} types.Itinerary
// @Failure      404 {object} map[string]any "Not found"
// @Security     BearerAuth
// @Router       /trips/{tripID}/itinerary [get]
func (h *HandlerImpl) GetItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GetItinerary")
	defer span.End()

	userID, ok := auth.RequireUserID(w, r, h.logger)
	if !ok {
		return
	}
	tripID, ok := api.URLParamUUID(w, r, "tripID")
	if !ok {
		return
	}

	itin, err := h.service.GetItinerary(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get itinerary")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Itinerary fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, itin)
}

// AddActivity godoc
// @Summary      Add an activity
// @Description  Inserts the activity into its time slot. Posting to the day after the last creates it.
// @Tags         Itinerary
// @Accept       json
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Param        dayNumber path int true "Day number"
// @Param        activity body types.TripActivity true "Activity"
// @Success      201 {object} types.Itinerary
// @Failure      400 {object} map[string]any "Validation error"
// @Failure      404 {object} map[string]any "Not found"
// @Security     BearerAuth
// @Router       /trips/{tripID}/days/{dayNumber}/activities [post]
func (h *HandlerImpl) AddActivity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "AddActivity")
	defer span.End()
	l := h.logger.With(slog.String("handler", "AddActivity"))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		return
	}
	tripID, ok := api.URLParamUUID(w, r, "tripID")
	if !ok {
		return
	}
	dayNumber, ok := api.URLParamInt(w, r, "dayNumber")
	if !ok {
		return
	}
	activity, ok := h.readActivity(w, r)
	if !ok {
		span.SetStatus(codes.Error, "Invalid activity")
		return
	}

	itin, err := h.service.AddActivity(ctx, userID, tripID, dayNumber, *activity)
	if err != nil {
		l.WarnContext(ctx, "Failed to add activity", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to add activity")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Activity added")
	api.WriteJSONResponse(w, r, http.StatusCreated, itin)
}

// EditActivity godoc
// @Summary      Replace an activity
// @Tags         Itinerary
// @Accept       json
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Param        dayNumber path int true "Day number"
// @Param        index path int true "Activity index within the day"
// @Param        activity body types.TripActivity true "Activity"
// @Success      200 {object} types.Itinerary
// @Failure      400 {object} map[string]any "Validation error"
// @Failure      404 {object} map[string]any "Not found"
// @Security     BearerAuth
// @Router       /trips/{tripID}/days/{dayNumber}/activities/{index} [put]
func (h *HandlerImpl) EditActivity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "EditActivity")
	defer span.End()
	l := h.logger.With(slog.String("handler", "EditActivity"))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		return
	}
	tripID, ok := api.URLParamUUID(w, r, "tripID")
	if !ok {
		return
	}
	dayNumber, ok := api.URLParamInt(w, r, "dayNumber")
	if !ok {
		return
	}
	index, ok := api.URLParamInt(w, r, "index")
	if !ok {
		return
	}
	activity, ok := h.readActivity(w, r)
	if !ok {
		return
	}

	itin, err := h.service.EditActivity(ctx, userID, tripID, dayNumber, index, *activity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to edit activity")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Activity edited")
	api.WriteJSONResponse(w, r, http.StatusOK, itin)
}

// DeleteActivity godoc
// @Summary      Delete an activity
// @Tags         Itinerary
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Param        dayNumber path int true "Day number"
// @Param        index path int true "Activity index within the day"
// @Success      200 {object} types.Itinerary
// @Failure      404 {object} map[string]any "Not found"
// @Security     BearerAuth
// @Router       /trips/{tripID}/days/{dayNumber}/activities/{index} [delete]
func (h *HandlerImpl) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "DeleteActivity")
	defer span.End()

	userID, ok := auth.RequireUserID(w, r, h.logger)
	if !ok {
		return
	}
	tripID, ok := api.URLParamUUID(w, r, "tripID")
	if !ok {
		return
	}
	dayNumber, ok := api.URLParamInt(w, r, "dayNumber")
	if !ok {
		return
	}
	index, ok := api.URLParamInt(w, r, "index")
	if !ok {
		return
	}

	itin, err := h.service.DeleteActivity(ctx, userID, tripID, dayNumber, index)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete activity")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Activity deleted")
	api.WriteJSONResponse(w, r, http.StatusOK, itin)
}

// ExportCalendar godoc
// @Summary      Export itinerary as iCalendar
// @Tags         Itinerary
// @Produce      text/calendar
// @Param        tripID path string true "Trip ID"
// @Success      200 {string} string "VCALENDAR document"
// @Failure      404 {object} map[string]any "Not found"
// @Security     BearerAuth
// @Router       /trips/{tripID}/calendar.ics [get]
func (h *HandlerImpl) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "ExportCalendar")
	defer span.End()

	userID, ok := auth.RequireUserID(w, r, h.logger)
	if !ok {
		return
	}
	tripID, ok := api.URLParamUUID(w, r, "tripID")
	if !ok {
		return
	}

	doc, err := h.service.ExportCalendar(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to export calendar")
		api.ServiceErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "trip-"+tripID.String()+".ics"))
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(doc); err != nil {
		h.logger.ErrorContext(ctx, "Failed to write calendar", slog.Any("error", err))
	}
	span.SetStatus(codes.Ok, "Calendar exported")
}

func (h *HandlerImpl) readActivity(w http.ResponseWriter, r *http.Request) (*types.TripActivity, bool) {
	raw, err := api.ReadRawBody(w, r)
	if err != nil {
		api.ServiceErrorResponse(w, r, err)
		return nil, false
	}
	activity, err := schema.ValidateActivity(raw)
	if err != nil {
		api.ServiceErrorResponse(w, r, err)
		return nil, false
	}
	return activity, true
}
