package trips

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateTrip(ctx context.Context, trip types.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockRepository) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	args := m.Called(ctx, userID, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Trip), args.Error(1)
}

func (m *MockRepository) ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Trip), args.Error(1)
}

func (m *MockRepository) UpdateTrip(ctx context.Context, trip *types.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockRepository) SaveDays(ctx context.Context, userID, tripID uuid.UUID, days []types.TripDay) (time.Time, error) {
	args := m.Called(ctx, userID, tripID, days)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockRepository) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	args := m.Called(ctx, userID, tripID)
	return args.Error(0)
}

type MockTodoLister struct {
	mock.Mock
}

func (m *MockTodoLister) ListTodos(ctx context.Context, tripID uuid.UUID) ([]types.TripTodo, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TripTodo), args.Error(1)
}

func setupTripServiceTest() (*ServiceImpl, *MockRepository, *MockTodoLister) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := new(MockRepository)
	todos := new(MockTodoLister)
	return NewServiceImpl(repo, todos, logger), repo, todos
}

func strPtr(s string) *string { return &s }

func lisbonPlan() types.TripPlan {
	return types.TripPlan{
		Destination: "Lisbon",
		Days: []types.TripDay{{DayNumber: 1, Title: "Alfama", Activities: []types.TripActivity{{
			Title: "Castelo", TimeSlot: types.TimeSlotMorning, LocationName: "Alfama",
			Latitude: 38.71, Longitude: -9.13, EstimatedCost: 15,
			CostCategory: types.CostCategoryActivity, DurationMinutes: 90,
		}}}},
	}
}

func TestServiceImpl_CreateTrip(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("defaults applied", func(t *testing.T) {
		service, repo, _ := setupTripServiceTest()
		repo.On("CreateTrip", mock.Anything, mock.MatchedBy(func(tr types.Trip) bool {
			return tr.UserID == userID && tr.Title == "New Trip" && tr.Destination == "Lisbon" &&
				tr.Currency == "EUR" && tr.Status == types.TripStatusPlanned
		})).Return(nil).Once()

		trip, err := service.CreateTrip(ctx, userID, types.CreateTripRequest{Destination: strPtr("Lisbon")})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, trip.ID)
		assert.Equal(t, "New Trip", trip.Title)
		assert.Equal(t, "Lisbon", trip.Destination)
		assert.Equal(t, "EUR", trip.Currency)
		assert.Equal(t, types.TripStatusPlanned, trip.Status)
		repo.AssertExpectations(t)
	})

	t.Run("supplied fields kept", func(t *testing.T) {
		service, repo, _ := setupTripServiceTest()
		status := types.TripStatusDraft
		budget := 900.0
		repo.On("CreateTrip", mock.Anything, mock.AnythingOfType("types.Trip")).Return(nil).Once()

		trip, err := service.CreateTrip(ctx, userID, types.CreateTripRequest{
			Title: strPtr("Summer"), Destination: strPtr("Porto"), Currency: strPtr("USD"),
			Status: &status, TotalBudget: &budget,
		})
		require.NoError(t, err)
		assert.Equal(t, "Summer", trip.Title)
		assert.Equal(t, "USD", trip.Currency)
		assert.Equal(t, types.TripStatusDraft, trip.Status)
		assert.Equal(t, 900.0, *trip.TotalBudget)
	})

	t.Run("blank destination is rejected", func(t *testing.T) {
		service, repo, _ := setupTripServiceTest()

		_, err := service.CreateTrip(ctx, userID, types.CreateTripRequest{Destination: strPtr("  ")})
		var verr *types.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.True(t, verr.HasField("destination"))
		repo.AssertNotCalled(t, "CreateTrip", mock.Anything, mock.Anything)
	})

	t.Run("end before start", func(t *testing.T) {
		service, repo, _ := setupTripServiceTest()
		start := types.NewDate(time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC))
		end := types.NewDate(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
		_, err := service.CreateTrip(ctx, userID, types.CreateTripRequest{StartDate: start, EndDate: end})
		var verr *types.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.True(t, verr.HasField("end_date"))
		repo.AssertNotCalled(t, "CreateTrip", mock.Anything, mock.Anything)
	})

	t.Run("storage failure", func(t *testing.T) {
		service, repo, _ := setupTripServiceTest()
		dbErr := errors.New("db down")
		repo.On("CreateTrip", mock.Anything, mock.Anything).Return(dbErr).Once()
		_, err := service.CreateTrip(ctx, userID, types.CreateTripRequest{})
		assert.True(t, errors.Is(err, dbErr))
	})
}

func TestServiceImpl_EnsureDraft(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("existing id resolves", func(t *testing.T) {
		service, repo, _ := setupTripServiceTest()
		existing := uuid.New()
		repo.On("GetTrip", mock.Anything, userID, existing).Return(&types.Trip{ID: existing, UserID: userID}, nil).Once()

		id, created, err := service.EnsureDraft(ctx, userID, &existing)
		require.NoError(t, err)
		assert.Equal(t, existing, id)
		assert.False(t, created)
		repo.AssertNotCalled(t, "CreateTrip", mock.Anything, mock.Anything)
	})

	t.Run("unknown id creates a new trip", func(t *testing.T) {
		service, repo, _ := setupTripServiceTest()
		missing := uuid.New()
		repo.On("GetTrip", mock.Anything, userID, missing).Return(nil, types.ErrNotFound).Once()
		repo.On("CreateTrip", mock.Anything, mock.MatchedBy(func(tr types.Trip) bool {
			return tr.Status == types.TripStatusPlanned && tr.Title == types.DefaultTripTitle && tr.Destination == types.DefaultTripDestination
		})).Return(nil).Once()

		id, created, err := service.EnsureDraft(ctx, userID, &missing)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, missing, id)
		repo.AssertExpectations(t)
	})

	t.Run("no id always creates", func(t *testing.T) {
		service, repo, _ := setupTripServiceTest()
		repo.On("CreateTrip", mock.Anything, mock.Anything).Return(nil).Twice()

		first, _, err := service.EnsureDraft(ctx, userID, nil)
		require.NoError(t, err)
		second, _, err := service.EnsureDraft(ctx, userID, nil)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
		repo.AssertExpectations(t)
	})

	t.Run("lookup failure is not masked", func(t *testing.T) {
		service, repo, _ := setupTripServiceTest()
		existing := uuid.New()
		repo.On("GetTrip", mock.Anything, userID, existing).Return(nil, errors.New("timeout")).Once()
		_, _, err := service.EnsureDraft(ctx, userID, &existing)
		require.Error(t, err)
		repo.AssertNotCalled(t, "CreateTrip", mock.Anything, mock.Anything)
	})
}

func TestServiceImpl_AttachPlan(t *testing.T) {
	ctx := context.Background()
	userID, tripID := uuid.New(), uuid.New()

	t.Run("replaces days and renames", func(t *testing.T) {
		service, repo, _ := setupTripServiceTest()
		existing := &types.Trip{
			ID: tripID, UserID: userID, Title: "New Trip", Destination: "TBD", Status: types.TripStatusDraft,
			Days: []types.TripDay{{DayNumber: 1, Title: "old"}, {DayNumber: 2, Title: "old"}},
		}
		repo.On("GetTrip", mock.Anything, userID, tripID).Return(existing, nil).Once()
		repo.On("UpdateTrip", mock.Anything, mock.MatchedBy(func(tr *types.Trip) bool {
			return tr.Destination == "Lisbon" && len(tr.Days) == 1 && tr.Status == types.TripStatusPlanned
		})).Return(nil).Once()

		trip, err := service.AttachPlan(ctx, userID, tripID, lisbonPlan())
		require.NoError(t, err)
		assert.Equal(t, "Trip to Lisbon", trip.Title)
		assert.Equal(t, types.TripStatusPlanned, trip.Status)
		repo.AssertExpectations(t)
	})

	t.Run("active trip keeps its status", func(t *testing.T) {
		service, repo, _ := setupTripServiceTest()
		repo.On("GetTrip", mock.Anything, userID, tripID).Return(&types.Trip{ID: tripID, UserID: userID, Status: types.TripStatusActive}, nil).Once()
		repo.On("UpdateTrip", mock.Anything, mock.Anything).Return(nil).Once()

		trip, err := service.AttachPlan(ctx, userID, tripID, lisbonPlan())
		require.NoError(t, err)
		assert.Equal(t, types.TripStatusActive, trip.Status)
	})

	t.Run("non-contiguous plan rejected before storage", func(t *testing.T) {
		service, repo, _ := setupTripServiceTest()
		plan := lisbonPlan()
		plan.Days[0].DayNumber = 2
		_, err := service.AttachPlan(ctx, userID, tripID, plan)
		var verr *types.ValidationError
		require.True(t, errors.As(err, &verr))
		repo.AssertNotCalled(t, "GetTrip", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("foreign trip", func(t *testing.T) {
		service, repo, _ := setupTripServiceTest()
		repo.On("GetTrip", mock.Anything, userID, tripID).Return(nil, types.ErrNotFound).Once()
		_, err := service.AttachPlan(ctx, userID, tripID, lisbonPlan())
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}

func TestServiceImpl_AdvanceStatus(t *testing.T) {
	ctx := context.Background()
	userID, tripID := uuid.New(), uuid.New()

	cases := []struct {
		from, to types.TripStatus
		ok       bool
	}{
		{types.TripStatusDraft, types.TripStatusPlanned, true},
		{types.TripStatusPlanned, types.TripStatusActive, true},
		{types.TripStatusActive, types.TripStatusCompleted, true},
		{types.TripStatusDraft, types.TripStatusActive, false},
		{types.TripStatusPlanned, types.TripStatusCompleted, false},
		{types.TripStatusActive, types.TripStatusPlanned, false},
		{types.TripStatusCompleted, types.TripStatusDraft, false},
		{types.TripStatusPlanned, types.TripStatusPlanned, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			service, repo, _ := setupTripServiceTest()
			repo.On("GetTrip", mock.Anything, userID, tripID).Return(&types.Trip{ID: tripID, UserID: userID, Status: tc.from}, nil).Once()
			if tc.ok {
				repo.On("UpdateTrip", mock.Anything, mock.Anything).Return(nil).Once()
			}

			trip, err := service.AdvanceStatus(ctx, userID, tripID, tc.to)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.to, trip.Status)
			} else {
				assert.True(t, errors.Is(err, types.ErrInvalidTransition))
				repo.AssertNotCalled(t, "UpdateTrip", mock.Anything, mock.Anything)
			}
		})
	}

	t.Run("unknown target", func(t *testing.T) {
		service, _, _ := setupTripServiceTest()
		_, err := service.AdvanceStatus(ctx, userID, tripID, "archived")
		var verr *types.ValidationError
		assert.True(t, errors.As(err, &verr))
	})
}

func TestServiceImpl_GetTripDetails(t *testing.T) {
	ctx := context.Background()
	userID, tripID := uuid.New(), uuid.New()

	t.Run("trip, todos and budget", func(t *testing.T) {
		service, repo, todos := setupTripServiceTest()
		plan := lisbonPlan()
		limit := 10.0
		repo.On("GetTrip", mock.Anything, userID, tripID).Return(&types.Trip{
			ID: tripID, UserID: userID, Currency: "EUR", TotalBudget: &limit, Days: plan.Days,
		}, nil).Once()
		todos.On("ListTodos", mock.Anything, tripID).Return([]types.TripTodo{{ID: uuid.New(), TripID: tripID, Title: "Pack"}}, nil).Once()

		details, err := service.GetTripDetails(ctx, userID, tripID)
		require.NoError(t, err)
		assert.Len(t, details.Todos, 1)
		assert.Equal(t, 15.0, details.Budget.Total)
		assert.True(t, details.Budget.OverBudget)
		assert.Equal(t, 5.0, details.Budget.Overage)
	})

	t.Run("missing trip", func(t *testing.T) {
		service, repo, todos := setupTripServiceTest()
		repo.On("GetTrip", mock.Anything, userID, tripID).Return(nil, types.ErrNotFound).Once()
		todos.On("ListTodos", mock.Anything, tripID).Return([]types.TripTodo{}, nil).Maybe()

		_, err := service.GetTripDetails(ctx, userID, tripID)
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}

func TestServiceImpl_UpdateTrip(t *testing.T) {
	ctx := context.Background()
	userID, tripID := uuid.New(), uuid.New()

	t.Run("sent fields stored as sent", func(t *testing.T) {
		service, repo, _ := setupTripServiceTest()
		repo.On("GetTrip", mock.Anything, userID, tripID).Return(&types.Trip{ID: tripID, UserID: userID, Title: "Old", Currency: "EUR"}, nil).Once()
		repo.On("UpdateTrip", mock.Anything, mock.MatchedBy(func(tr *types.Trip) bool {
			return tr.Title == " New " && tr.TotalBudget != nil && *tr.TotalBudget == 1234.567
		})).Return(nil).Once()

		budget := 1234.567
		trip, err := service.UpdateTrip(ctx, userID, tripID, types.UpdateTripRequest{Title: strPtr(" New "), TotalBudget: &budget})
		require.NoError(t, err)
		assert.Equal(t, " New ", trip.Title)
		assert.Equal(t, 1234.567, *trip.TotalBudget)
		assert.Equal(t, "EUR", trip.Currency)
		repo.AssertExpectations(t)
	})

	t.Run("blank title is rejected", func(t *testing.T) {
		service, repo, _ := setupTripServiceTest()

		_, err := service.UpdateTrip(ctx, userID, tripID, types.UpdateTripRequest{Title: strPtr("   "), Currency: strPtr("\t")})
		var verr *types.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.True(t, verr.HasField("title"))
		assert.True(t, verr.HasField("currency"))
		repo.AssertNotCalled(t, "GetTrip", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "UpdateTrip", mock.Anything, mock.Anything)
	})
}
