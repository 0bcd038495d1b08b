package types

import (
	"time"

	"github.com/google/uuid"
)

// TripTodo is an ordered checklist entry scoped to a trip.
type TripTodo struct {
	ID         uuid.UUID `json:"id"`
	TripID     uuid.UUID `json:"trip_id"`
	Title      string    `json:"title" example:"Book airport transfer"`
	Completed  bool      `json:"completed"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateTodoRequest struct {
	Title      string `json:"title" validate:"required,max=200"`
	OrderIndex *int   `json:"order_index,omitempty" validate:"omitempty,gte=0"`
}

type UpdateTodoRequest struct {
	Title      *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Completed  *bool   `json:"completed,omitempty"`
	OrderIndex *int    `json:"order_index,omitempty" validate:"omitempty,gte=0"`
}
