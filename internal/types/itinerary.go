package types

import "github.com/google/uuid"

type TimeSlot string

const (
	TimeSlotMorning   TimeSlot = "morning"
	TimeSlotAfternoon TimeSlot = "afternoon"
	TimeSlotEvening   TimeSlot = "evening"
)

// Order returns the position of the slot within a day, -1 for unknown slots.
func (s TimeSlot) Order() int {
	switch s {
	case TimeSlotMorning:
		return 0
	case TimeSlotAfternoon:
		return 1
	case TimeSlotEvening:
		return 2
	}
	return -1
}

type CostCategory string

const (
	CostCategoryFood      CostCategory = "food"
	CostCategoryActivity  CostCategory = "activity"
	CostCategoryTransport CostCategory = "transport"
	CostCategoryShopping  CostCategory = "shopping"
	CostCategoryOther     CostCategory = "other"
)

const DefaultDurationMinutes = 60

// TripActivity is one time-slotted entry of a day.
type TripActivity struct {
	Title           string       `json:"title" example:"Belém Tower"`
	Description     string       `json:"description,omitempty"`
	TimeSlot        TimeSlot     `json:"time_slot" example:"morning" swaggertype:"string"`
	LocationName    string       `json:"location_name" example:"Belém"`
	Latitude        float64      `json:"latitude" example:"38.6916"`
	Longitude       float64      `json:"longitude" example:"-9.2160"`
	EstimatedCost   float64      `json:"estimated_cost" example:"10"`
	CostCategory    CostCategory `json:"cost_category" example:"activity" swaggertype:"string"`
	DurationMinutes int          `json:"duration_minutes" example:"90"`
}

type TripDay struct {
	DayNumber  int            `json:"day_number" example:"1"`
	Title      string         `json:"title" example:"Historic Lisbon"`
	Activities []TripActivity `json:"activities"`
}

// TripPlan is the validated output of the planning flow, unpacked into a Trip.
type TripPlan struct {
	Destination string    `json:"destination" example:"Lisbon"`
	Days        []TripDay `json:"days"`
}

// Itinerary is the editable day/activity view of a trip with its fresh budget.
type Itinerary struct {
	TripID      uuid.UUID       `json:"trip_id"`
	Destination string          `json:"destination"`
	Days        []TripDay       `json:"days"`
	Budget      BudgetBreakdown `json:"budget"`
}
