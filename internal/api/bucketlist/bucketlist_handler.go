package bucketlist

import (
	"log/slog"
	"net/http"

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

// ListItems godoc
// @Summary      List bucketlist items
// @Tags         Bucketlist
// @Produce      json
// @Success      200 {array} types.BucketlistItem
// @Security     BearerAuth
// @Router       /bucketlist [get]
func (h *HandlerImpl) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BucketlistHandler").Start(r.Context(), "ListItems")
	defer span.End()

	userID, ok := auth.RequireUserID(w, r, h.logger)
	if !ok {
		return
	}
	items, err := h.service.List(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list bucketlist")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, items)
}

// CreateItem godoc
// @Summary      Add a bucketlist item
// @Tags         Bucketlist
// @Accept       json
// @Produce      json
// @Param        item body types.CreateBucketlistItemRequest true "Item"
// @Success      201 {object} types.BucketlistItem
// @Failure      400 {object} map[string]any "Validation error"
// @Security     BearerAuth
// @Router       /bucketlist [post]
func (h *HandlerImpl) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BucketlistHandler").Start(r.Context(), "CreateItem")
	defer span.End()

	userID, ok := auth.RequireUserID(w, r, h.logger)
	if !ok {
		return
	}
	var req types.CreateBucketlistItemRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		api.ServiceErrorResponse(w, r, err)
		return
	}

	item, err := h.service.Create(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create item")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, item)
}

// PatchItem godoc
// @Summary      Update a bucketlist item
// @Description  Sets completed and/or links a trip owned by the caller.
// @Tags         Bucketlist
// @Accept       json
// @Produce      json
// @Param        item body types.PatchBucketlistItemRequest true "Changes"
// @Success      200 {object} types.BucketlistItem
// @Failure      400 {object} map[string]any "Validation error"
// @Failure      404 {object} map[string]any "Not found"
// @Security     BearerAuth
// @Router       /bucketlist [patch]
func (h *HandlerImpl) PatchItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BucketlistHandler").Start(r.Context(), "PatchItem")
	defer span.End()

	userID, ok := auth.RequireUserID(w, r, h.logger)
	if !ok {
		return
	}
	var req types.PatchBucketlistItemRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		api.ServiceErrorResponse(w, r, err)
		return
	}

	item, err := h.service.Patch(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to patch item")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, item)
}

// DeleteItem godoc
// @Summary      Delete a bucketlist item
// @Tags         Bucketlist
// @Produce      json
// @Param        id query string true "Item ID"
// @Success      200 {object} types.SuccessResponse
// @Failure      404 {object} map[string]any "Not found"
// @Security     BearerAuth
// @Router       /bucketlist [delete]
func (h *HandlerImpl) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BucketlistHandler").Start(r.Context(), "DeleteItem")
	defer span.End()

	userID, ok := auth.RequireUserID(w, r, h.logger)
	if !ok {
		return
	}
	itemID, ok := api.QueryUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(ctx, userID, itemID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete item")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.SuccessResponse{Success: true})
}

// PromoteItem godoc
// @Summary      Promote a bucketlist item to a trip
// @Description  Creates a trip from the item once; later calls return the same trip.
// @Tags         Bucketlist
// @Produce      json
// @Param        itemID path string true "Item ID"
// @Success      200 {object} types.PromoteResponse "Already promoted"
// @Success      201 {object} types.PromoteResponse "Trip created"
// @Failure      404 {object} map[string]any "Not found"
// @Security     BearerAuth
// @Router       /bucketlist/{itemID}/promote [post]
func (h *HandlerImpl) PromoteItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BucketlistHandler").Start(r.Context(), "PromoteItem")
	defer span.End()
	l := h.logger.With(slog.String("handler", "PromoteItem"))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		return
	}
	itemID, ok := api.URLParamUUID(w, r, "itemID")
	if !ok {
		return
	}

	tripID, created, err := h.service.Promote(ctx, userID, itemID)
	if err != nil {
		l.WarnContext(ctx, "Promotion failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to promote item")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	span.SetStatus(codes.Ok, "Item promoted")
	api.WriteJSONResponse(w, r, status, types.PromoteResponse{TripID: tripID, Created: created})
}
