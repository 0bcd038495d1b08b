package types

import (
	"time"

	"github.com/google/uuid"
)

type BucketlistType string

const (
	BucketlistTypeDestination BucketlistType = "destination"
	BucketlistTypeExperience  BucketlistType = "experience"
)

// BucketlistItem is a wishlist entry; TripID is set once a trip is created from it.
type BucketlistItem struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	Type        BucketlistType `json:"type" example:"destination" swaggertype:"string"`
	Title       string         `json:"title" example:"See the northern lights"`
	Destination string         `json:"destination" example:"Tromsø"`
	Description *string        `json:"description,omitempty"`
	Completed   bool           `json:"completed"`
	TripID      *uuid.UUID     `json:"trip_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type CreateBucketlistItemRequest struct {
	Type        *BucketlistType `json:"type,omitempty" validate:"omitempty,oneof=destination experience" swaggertype:"string"`
	Title       string          `json:"title" validate:"required,max=200"`
	Destination string          `json:"destination" validate:"required,max=200"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=500"`
}

type PatchBucketlistItemRequest struct {
	ID        uuid.UUID  `json:"id" validate:"required"`
	Completed *bool      `json:"completed,omitempty"`
	TripID    *uuid.UUID `json:"trip_id,omitempty"`
}

type PromoteResponse struct {
	TripID  uuid.UUID `json:"trip_id"`
	Created bool      `json:"created"`
}
