// Package budget rolls a trip's activity costs up into category and per-day totals.
// Results are always derived from the current activity set and never stored.
package budget

import (
	"github.com/samber/lo"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Compute buckets every activity cost by category and compares the total against
// totalBudget when one is set.
func Compute(days []types.TripDay, totalBudget *float64, currency string) types.BudgetBreakdown {
	if currency == "" {
		currency = types.DefaultCurrency
	}
	b := types.BudgetBreakdown{
		Currency: currency,
		PerDay:   make([]types.DayCost, 0, len(days)),
	}

	for _, day := range days {
		for _, a := range day.Activities {
			switch a.CostCategory {
			case types.CostCategoryFood:
				b.Food += a.EstimatedCost
			case types.CostCategoryActivity:
				b.Activities += a.EstimatedCost
			case types.CostCategoryTransport:
				b.Transport += a.EstimatedCost
			default:
				// shopping has no bucket of its own
				b.Other += a.EstimatedCost
			}
		}
		b.PerDay = append(b.PerDay, types.DayCost{
			DayNumber: day.DayNumber,
			Total:     lo.SumBy(day.Activities, func(a types.TripActivity) float64 { return a.EstimatedCost }),
		})
	}
	b.Total = b.Accommodation + b.Food + b.Activities + b.Transport + b.Other

	if totalBudget != nil {
		limit := *totalBudget
		b.TotalBudget = &limit
		if b.Total > limit {
			b.OverBudget = true
			b.Overage = b.Total - limit
		} else {
			remaining := limit - b.Total
			b.Remaining = &remaining
		}
	}
	return b
}

// ForTrip computes the breakdown for a persisted trip.
func ForTrip(trip *types.Trip) types.BudgetBreakdown {
	return Compute(trip.Days, trip.TotalBudget, trip.Currency)
}

// ActivityCount returns how many activities the days hold.
func ActivityCount(days []types.TripDay) int {
	return lo.SumBy(days, func(d types.TripDay) int { return len(d.Activities) })
}

// ItineraryOf pairs a trip's days with a freshly computed breakdown.
func ItineraryOf(trip *types.Trip) types.Itinerary {
	return types.Itinerary{
		TripID:      trip.ID,
		Destination: trip.Destination,
		Days:        trip.Days,
		Budget:      ForTrip(trip),
	}
}
