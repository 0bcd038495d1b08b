package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type TripStatus string

const (
	TripStatusDraft     TripStatus = "draft"
	TripStatusPlanned   TripStatus = "planned"
	TripStatusActive    TripStatus = "active"
	TripStatusCompleted TripStatus = "completed"
)

// tripStatusOrder is the only allowed progression; a trip moves one step forward at a time.
var tripStatusOrder = []TripStatus{TripStatusDraft, TripStatusPlanned, TripStatusActive, TripStatusCompleted}

func (s TripStatus) rank() int {
	for i, st := range tripStatusOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a known trip status.
func (s TripStatus) Valid() bool { return s.rank() >= 0 }

// CanAdvanceTo reports whether next is the status immediately after s.
func (s TripStatus) CanAdvanceTo(next TripStatus) bool {
	from, to := s.rank(), next.rank()
	return from >= 0 && to == from+1
}

// Before reports whether s comes strictly earlier than other in the lifecycle.
func (s TripStatus) Before(other TripStatus) bool {
	return s.rank() >= 0 && s.rank() < other.rank()
}

const (
	DefaultTripTitle       = "New Trip"
	DefaultTripDestination = "TBD"
	DefaultCurrency        = "EUR"
)

// Date is a calendar date serialised as YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(t time.Time) *Date {
	y, m, d := t.Date()
	return &Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("date must use the YYYY-MM-DD format: %w", err)
	}
	d.Time = t
	return nil
}

// TimePtr returns the underlying time, or nil for a nil date.
func (d *Date) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// Trip is a user-owned travel plan. Days hold the itinerary.
type Trip struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title" example:"Trip to Lisbon"`
	Destination string     `json:"destination" example:"Lisbon"`
	StartDate   *Date      `json:"start_date,omitempty" swaggertype:"string" example:"2025-06-01"`
	EndDate     *Date      `json:"end_date,omitempty" swaggertype:"string" example:"2025-06-04"`
	TotalBudget *float64   `json:"total_budget,omitempty" example:"1200"`
	Currency    string     `json:"currency" example:"EUR"`
	Status      TripStatus `json:"status" example:"planned"`
	Days        []TripDay  `json:"days"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateTripRequest struct {
	Title       *string     `json:"title,omitempty" validate:"omitempty,max=200"`
	Destination *string     `json:"destination,omitempty" validate:"omitempty,max=200"`
	StartDate   *Date       `json:"start_date,omitempty" swaggertype:"string"`
	EndDate     *Date       `json:"end_date,omitempty" swaggertype:"string"`
	TotalBudget *float64    `json:"total_budget,omitempty" validate:"omitempty,gte=0"`
	Currency    *string     `json:"currency,omitempty" validate:"omitempty,max=10"`
	Status      *TripStatus `json:"status,omitempty" validate:"omitempty,oneof=draft planned active completed" swaggertype:"string"`
}

type UpdateTripRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Destination *string  `json:"destination,omitempty" validate:"omitempty,min=1,max=200"`
	StartDate   *Date    `json:"start_date,omitempty" swaggertype:"string"`
	EndDate     *Date    `json:"end_date,omitempty" swaggertype:"string"`
	TotalBudget *float64 `json:"total_budget,omitempty" validate:"omitempty,gte=0"`
	Currency    *string  `json:"currency,omitempty" validate:"omitempty,min=1,max=10"`
}

type UpdateTripStatusRequest struct {
	Status TripStatus `json:"status" validate:"required,oneof=draft planned active completed" swaggertype:"string"`
}

type EnsureDraftRequest struct {
	TripID *uuid.UUID `json:"trip_id,omitempty"`
}

type IDResponse struct {
	ID uuid.UUID `json:"id"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// TripDetails is a trip with its derived budget and checklist.
type TripDetails struct {
	Trip   *Trip           `json:"trip"`
	Budget BudgetBreakdown `json:"budget"`
	Todos  []TripTodo      `json:"todos"`
}
