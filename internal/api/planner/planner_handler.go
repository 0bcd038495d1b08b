package planner

import (
	"errors"
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

// Chat godoc
// @Summary      Planning chat turn
// @Description  Sends the conversation to the planning model. A generate_trip_plan tool call is validated and attached to the trip; invalid plans are reported in the error field.
// @Tags         Planner
// @Accept       json
// @Produce      json
// @Param        body body types.ChatRequest true "Conversation"
// @Success      200 {object} types.ChatResponse
// @Failure      400 {object} map[string]any "Invalid request"
// @Failure      409 {object} map[string]any "Stale request id"
// @Failure      502 {object} map[string]any "Plan generator unavailable"
// @Security     BearerAuth
// @Router       /planner/chat [post]
func (h *HandlerImpl) Chat(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "Chat")
	defer span.End()
	l := h.logger.With(slog.String("handler", "Chat"))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		return
	}

	var req types.ChatRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		api.ServiceErrorResponse(w, r, err)
		return
	}

	resp, err := h.service.Chat(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Chat failed")
		if errors.Is(err, ErrGeneratorFailed) {
			api.ErrorResponse(w, r, http.StatusBadGateway, "The planning assistant is unavailable, please try again")
			return
		}
		api.ServiceErrorResponse(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Chat handled")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}
