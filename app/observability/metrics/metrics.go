package metrics

import (
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the trip planner's domain instruments.
type AppMetrics struct {
	TripsCreatedTotal        metric.Int64Counter
	PlansAttachedTotal       metric.Int64Counter
	StatusTransitionsTotal   metric.Int64Counter
	ItineraryMutationsTotal  metric.Int64Counter
	OverBudgetTotal          metric.Int64Counter
	SuggestionsAcceptedTotal metric.Int64Counter
	PlannerRequestsTotal     metric.Int64Counter
	PlannerDurationSeconds   metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments once from the global MeterProvider. Call it
// after the provider is installed; instruments created earlier bind to the no-op provider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("trip-planner")
		m := &AppMetrics{}
		m.TripsCreatedTotal = counter(meter, "trips_created_total", "Trips created, by origin", "{trip}")
		m.PlansAttachedTotal = counter(meter, "trip_plans_attached_total", "Validated plans attached to trips", "{plan}")
		m.StatusTransitionsTotal = counter(meter, "trip_status_transitions_total", "Trip status transitions, by target status", "{transition}")
		m.ItineraryMutationsTotal = counter(meter, "itinerary_mutations_total", "Itinerary activity mutations, by operation", "{mutation}")
		m.OverBudgetTotal = counter(meter, "budget_over_total", "Budget recomputations that ended over budget", "{rollup}")
		m.SuggestionsAcceptedTotal = counter(meter, "suggestions_accepted_total", "Catalog suggestions added to itineraries", "{suggestion}")
		m.PlannerRequestsTotal = counter(meter, "planner_requests_total", "Planning chat turns, by outcome", "{request}")

		var err error
		m.PlannerDurationSeconds, err = meter.Float64Histogram(
			"planner_generation_duration_seconds",
			metric.WithDescription("Duration of plan generator calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			slog.Error("Metrics: failed to create planner_generation_duration_seconds", slog.Any("error", err))
		}
		appMetrics = m
	})
}

func counter(meter metric.Meter, name, description, unit string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		slog.Error("Metrics: failed to create counter", slog.String("name", name), slog.Any("error", err))
	}
	return c
}

// Get returns the instruments, initialising them on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
