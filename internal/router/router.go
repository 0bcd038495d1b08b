package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
	"github.com/FACorreiaa/go-trip-planner/internal/container"
)

// chatRateLimit caps planning turns per user; each one is a paid model call.
const chatRateLimit = 20

// SetupRouter mounts the public endpoints and the authenticated /api/v1 routes.
// Server-wide middleware (request id, logging, recovery) is applied in main.
func SetupRouter(c *container.Container, cfg *config.Config, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Authenticate(logger, cfg.JWT))

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", c.TripHandler.ListTrips)
			r.Post("/", c.TripHandler.CreateTrip)
			r.Delete("/", c.TripHandler.DeleteTrip)
			r.Post("/draft", c.TripHandler.EnsureDraft)

			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", c.TripHandler.GetTrip)
				r.Patch("/", c.TripHandler.UpdateTrip)
				r.Put("/status", c.TripHandler.UpdateStatus)
				r.Post("/start", c.TripHandler.StartTrip)
				r.Post("/complete", c.TripHandler.CompleteTrip)
				r.Put("/plan", c.TripHandler.AttachPlan)
				r.Get("/budget", c.TripHandler.GetBudget)

				r.Get("/itinerary", c.ItineraryHandler.GetItinerary)
				r.Get("/calendar.ics", c.ItineraryHandler.ExportCalendar)
				r.Post("/days/{dayNumber}/activities", c.ItineraryHandler.AddActivity)
				r.Put("/days/{dayNumber}/activities/{index}", c.ItineraryHandler.EditActivity)
				r.Delete("/days/{dayNumber}/activities/{index}", c.ItineraryHandler.DeleteActivity)

				r.Get("/suggestions", c.SuggestionHandler.ListSuggestions)
				r.Post("/suggestions/{suggestionID}", c.SuggestionHandler.AcceptSuggestion)

				r.Get("/todos", c.TodoHandler.ListTodos)
				r.Post("/todos", c.TodoHandler.CreateTodo)
				r.Patch("/todos/{todoID}", c.TodoHandler.UpdateTodo)
				r.Delete("/todos/{todoID}", c.TodoHandler.DeleteTodo)
			})
		})

		r.Route("/bucketlist", func(r chi.Router) {
			r.Get("/", c.BucketlistHandler.ListItems)
			r.Post("/", c.BucketlistHandler.CreateItem)
			r.Patch("/", c.BucketlistHandler.PatchItem)
			r.Delete("/", c.BucketlistHandler.DeleteItem)
			r.Post("/{itemID}/promote", c.BucketlistHandler.PromoteItem)
		})

		r.Group(func(r chi.Router) {
			r.Use(httprate.Limit(chatRateLimit, time.Minute, httprate.WithKeyFuncs(userKey)))
			r.Post("/planner/chat", c.PlannerHandler.Chat)
		})
	})

	return r
}

// userKey rate limits per authenticated user, falling back to the client IP.
func userKey(r *http.Request) (string, error) {
	if userID, ok := auth.GetUserIDFromContext(r.Context()); ok {
		return userID, nil
	}
	return httprate.KeyByIP(r)
}
