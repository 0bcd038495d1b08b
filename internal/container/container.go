package container

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-trip-planner/app/db"
	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api/bucketlist"
	"github.com/FACorreiaa/go-trip-planner/internal/api/itinerary"
	"github.com/FACorreiaa/go-trip-planner/internal/api/planner"
	"github.com/FACorreiaa/go-trip-planner/internal/api/suggestions"
	"github.com/FACorreiaa/go-trip-planner/internal/api/todos"
	"github.com/FACorreiaa/go-trip-planner/internal/api/trips"
)

const defaultSessionTTL = 24 * time.Hour

// Container holds all application dependencies
type Container struct {
	Config            *config.Config
	Logger            *slog.Logger
	Pool              *pgxpool.Pool
	DatabaseURL       string
	TripHandler       *trips.HandlerImpl
	ItineraryHandler  *itinerary.HandlerImpl
	TodoHandler       *todos.HandlerImpl
	BucketlistHandler *bucketlist.HandlerImpl
	SuggestionHandler *suggestions.HandlerImpl
	PlannerHandler    *planner.HandlerImpl
}

// NewContainer opens the pool and wires repositories, services and handlers.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, cfg.Repositories.Postgres.MaxConns, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	sessionTTL := cfg.Suggestions.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}

	todoRepo := todos.NewRepository(pool, logger)
	todoService := todos.NewServiceImpl(todoRepo, logger)

	tripRepo := trips.NewRepository(pool, logger)
	tripService := trips.NewServiceImpl(tripRepo, todoRepo, logger)

	itineraryService := itinerary.NewServiceImpl(tripRepo, logger)

	bucketRepo := bucketlist.NewRepository(pool, logger)
	bucketService := bucketlist.NewServiceImpl(bucketRepo, tripService, logger)

	suggestionService := suggestions.NewServiceImpl(
		suggestions.NewCatalog(),
		suggestions.NewTracker(sessionTTL),
		tripService,
		itineraryService,
		logger)

	generator, err := planner.NewGenerator(ctx, cfg.Planner)
	if err != nil {
		logger.Warn("Planner provider unavailable, chat requests will fail",
			slog.String("provider", cfg.Planner.Provider), slog.Any("error", err))
		generator = planner.Unavailable(err)
	}
	plannerService := planner.NewServiceImpl(generator, tripService, planner.NewSequencer(sessionTTL), logger)

	return &Container{
		Config:            cfg,
		Logger:            logger,
		Pool:              pool,
		DatabaseURL:       dbConfig.ConnectionURL,
		TripHandler:       trips.NewHandlerImpl(tripService, logger),
		ItineraryHandler:  itinerary.NewHandlerImpl(itineraryService, logger),
		TodoHandler:       todos.NewHandlerImpl(todoService, logger),
		BucketlistHandler: bucketlist.NewHandlerImpl(bucketService, logger),
		SuggestionHandler: suggestions.NewHandlerImpl(suggestionService, logger),
		PlannerHandler:    planner.NewHandlerImpl(plannerService, logger),
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// RunMigrations applies the embedded migrations to the configured database.
func (c *Container) RunMigrations() error {
	return database.RunMigrations(c.DatabaseURL, c.Logger)
}
