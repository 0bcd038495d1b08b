package types

import "github.com/google/uuid"

// TripActivitySeed is a catalog suggestion. ID is stable across renders.
type TripActivitySeed struct {
	ID string `json:"id" example:"3f1a9c0d4b7e2a55"`
	TripActivity
	Added bool `json:"added"`
}

type AcceptSuggestionRequest struct {
	DayNumber int `json:"day_number" validate:"required,gte=1"`
}

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant" example:"user"`
	Content string `json:"content" validate:"required" example:"Plan three days in Lisbon"`
}

// ChatRequest is one planning turn. RequestID must grow monotonically per trip.
type ChatRequest struct {
	TripID    *uuid.UUID    `json:"trip_id,omitempty"`
	RequestID int64         `json:"request_id" validate:"required,gte=1"`
	Messages  []ChatMessage `json:"messages" validate:"required,min=1,dive"`
}

type ChatResponse struct {
	TripID      uuid.UUID    `json:"trip_id"`
	RequestID   int64        `json:"request_id"`
	Message     ChatMessage  `json:"message"`
	ToolName    string       `json:"tool_name,omitempty"`
	Plan        *TripPlan    `json:"plan,omitempty"`
	Itinerary   *Itinerary   `json:"itinerary,omitempty"`
	Error       string       `json:"error,omitempty"`
	FieldErrors []FieldError `json:"field_errors,omitempty"`
	Stale       bool         `json:"stale"`
}
