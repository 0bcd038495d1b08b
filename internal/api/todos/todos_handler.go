package todos

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

// ListTodos godoc
// @Summary      List trip todos
// @Tags         Todos
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Success      200 {array} types.TripTodo
// @Failure      404 {object} map[string]any "Not found"
// @Security     BearerAuth
// @Router       /trips/{tripID}/todos [get]
func (h *HandlerImpl) ListTodos(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TodoHandler").Start(r.Context(), "ListTodos")
	defer span.End()

	userID, ok := auth.RequireUserID(w, r, h.logger)
	if !ok {
		return
	}
	tripID, ok := api.URLParamUUID(w, r, "tripID")
	if !ok {
		return
	}

	todos, err := h.service.List(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list todos")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, todos)
}

// CreateTodo godoc
// @Summary      Add a trip todo
// @Description  Without order_index the todo is appended after the last one.
// @Tags         Todos
// @Accept       json
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Param        todo body types.CreateTodoRequest true "Todo"
// @Success      201 {object} types.TripTodo
// @Failure      400 {object} map[string]any "Validation error"
// @Failure      404 {object} map[string]any "Not found"
// @Security     BearerAuth
// @Router       /trips/{tripID}/todos [post]
func (h *HandlerImpl) CreateTodo(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TodoHandler").Start(r.Context(), "CreateTodo")
	defer span.End()

	userID, ok := auth.RequireUserID(w, r, h.logger)
	if !ok {
		return
	}
	tripID, ok := api.URLParamUUID(w, r, "tripID")
	if !ok {
		return
	}
	var req types.CreateTodoRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		api.ServiceErrorResponse(w, r, err)
		return
	}

	todo, err := h.service.Create(ctx, userID, tripID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create todo")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Todo created")
	api.WriteJSONResponse(w, r, http.StatusCreated, todo)
}

// UpdateTodo godoc
// @Summary      Update a trip todo
// @Tags         Todos
// @Accept       json
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Param        todoID path string true "Todo ID"
// @Param        todo body types.UpdateTodoRequest true "Fields to change"
// @Success      200 {object} types.TripTodo
// @Failure      404 {object} map[string]any "Not found"
// @Security     BearerAuth
// @Router       /trips/{tripID}/todos/{todoID} [patch]
func (h *HandlerImpl) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TodoHandler").Start(r.Context(), "UpdateTodo")
	defer span.End()

	userID, ok := auth.RequireUserID(w, r, h.logger)
	if !ok {
		return
	}
	tripID, ok := api.URLParamUUID(w, r, "tripID")
	if !ok {
		return
	}
	todoID, ok := api.URLParamUUID(w, r, "todoID")
	if !ok {
		return
	}
	var req types.UpdateTodoRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		api.ServiceErrorResponse(w, r, err)
		return
	}

	todo, err := h.service.Update(ctx, userID, tripID, todoID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update todo")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, todo)
}

// DeleteTodo godoc
// @Summary      Delete a trip todo
// @Tags         Todos
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Param        todoID path string true "Todo ID"
// @Success      200 {object} types.SuccessResponse
// @Failure      404 {object} map[string]any "Not found"
// @Security     BearerAuth
// @Router       /trips/{tripID}/todos/{todoID} [delete]
func (h *HandlerImpl) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TodoHandler").Start(r.Context(), "DeleteTodo")
	defer span.End()

	userID, ok := auth.RequireUserID(w, r, h.logger)
	if !ok {
		return
	}
	tripID, ok := api.URLParamUUID(w, r, "tripID")
	if !ok {
		return
	}
	todoID, ok := api.URLParamUUID(w, r, "todoID")
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, userID, tripID, todoID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete todo")
		api.ServiceErrorResponse(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.SuccessResponse{Success: true})
}
