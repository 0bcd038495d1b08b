package itinerary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type MockTripStore struct {
	mock.Mock
}

func (m *MockTripStore) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	args := m.Called(ctx, userID, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Trip), args.Error(1)
}

func (m *MockTripStore) SaveDays(ctx context.Context, userID, tripID uuid.UUID, days []types.TripDay) (time.Time, error) {
	args := m.Called(ctx, userID, tripID, days)
	return args.Get(0).(time.Time), args.Error(1)
}

func setupItineraryTest() (*ServiceImpl, *MockTripStore) {
	store := new(MockTripStore)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServiceImpl(store, logger), store
}

func act(title string, slot types.TimeSlot, cost float64, cat types.CostCategory) types.TripActivity {
	return types.TripActivity{
		Title: title, TimeSlot: slot, LocationName: "Lisbon", Latitude: 38.7, Longitude: -9.1,
		EstimatedCost: cost, CostCategory: cat, DurationMinutes: 60,
	}
}

func titles(day types.TripDay) []string {
	out := make([]string, 0, len(day.Activities))
	for _, a := range day.Activities {
		out = append(out, a.Title)
	}
	return out
}

func TestServiceImpl_AddActivity(t *testing.T) {
	ctx := context.Background()
	userID, tripID := uuid.New(), uuid.New()
	saved := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	newTrip := func() *types.Trip {
		return &types.Trip{
			ID: tripID, UserID: userID, Destination: "Lisbon", Currency: "EUR",
			Days: []types.TripDay{{DayNumber: 1, Title: "Day 1", Activities: []types.TripActivity{
				act("Breakfast", types.TimeSlotMorning, 20, types.CostCategoryFood),
				act("Dinner", types.TimeSlotEvening, 35, types.CostCategoryFood),
			}}},
		}
	}

	t.Run("afternoon lands between morning and evening", func(t *testing.T) {
		service, store := setupItineraryTest()
		store.On("GetTrip", mock.Anything, userID, tripID).Return(newTrip(), nil).Once()
		store.On("SaveDays", mock.Anything, userID, tripID, mock.Anything).Return(saved, nil).Once()

		itin, err := service.AddActivity(ctx, userID, tripID, 1, act("Museum", types.TimeSlotAfternoon, 12, types.CostCategoryActivity))
		require.NoError(t, err)
		assert.Equal(t, []string{"Breakfast", "Museum", "Dinner"}, titles(itin.Days[0]))
		assert.Equal(t, 55.0, itin.Budget.Food)
		assert.Equal(t, 67.0, itin.Budget.Total)
		store.AssertExpectations(t)
	})

	t.Run("second morning activity goes after the first", func(t *testing.T) {
		service, store := setupItineraryTest()
		store.On("GetTrip", mock.Anything, userID, tripID).Return(newTrip(), nil).Once()
		store.On("SaveDays", mock.Anything, userID, tripID, mock.Anything).Return(saved, nil).Once()

		itin, err := service.AddActivity(ctx, userID, tripID, 1, act("Coffee", types.TimeSlotMorning, 3, types.CostCategoryFood))
		require.NoError(t, err)
		assert.Equal(t, []string{"Breakfast", "Coffee", "Dinner"}, titles(itin.Days[0]))
	})

	t.Run("next day is created", func(t *testing.T) {
		service, store := setupItineraryTest()
		store.On("GetTrip", mock.Anything, userID, tripID).Return(newTrip(), nil).Once()
		store.On("SaveDays", mock.Anything, userID, tripID, mock.MatchedBy(func(days []types.TripDay) bool {
			return len(days) == 2 && days[1].DayNumber == 2 && days[1].Title == "Day 2"
		})).Return(saved, nil).Once()

		itin, err := service.AddActivity(ctx, userID, tripID, 2, act("Tram 28", types.TimeSlotMorning, 3, types.CostCategoryTransport))
		require.NoError(t, err)
		require.Len(t, itin.Days, 2)
		require.Len(t, itin.Budget.PerDay, 2)
		assert.Equal(t, 3.0, itin.Budget.PerDay[1].Total)
		store.AssertExpectations(t)
	})

	t.Run("gap in day numbers rejected", func(t *testing.T) {
		service, store := setupItineraryTest()
		store.On("GetTrip", mock.Anything, userID, tripID).Return(newTrip(), nil).Once()

		_, err := service.AddActivity(ctx, userID, tripID, 3, act("Far", types.TimeSlotMorning, 1, types.CostCategoryOther))
		var verr *types.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.True(t, verr.HasField("day_number"))
		store.AssertNotCalled(t, "SaveDays", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("negative cost rejected before loading", func(t *testing.T) {
		service, store := setupItineraryTest()
		_, err := service.AddActivity(ctx, userID, tripID, 1, act("Bad", types.TimeSlotMorning, -5, types.CostCategoryFood))
		var verr *types.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.True(t, verr.HasField("estimated_cost"))
		store.AssertNotCalled(t, "GetTrip", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("zero duration gets the default", func(t *testing.T) {
		service, store := setupItineraryTest()
		store.On("GetTrip", mock.Anything, userID, tripID).Return(newTrip(), nil).Once()
		store.On("SaveDays", mock.Anything, userID, tripID, mock.Anything).Return(saved, nil).Once()

		a := act("Walk", types.TimeSlotEvening, 0, types.CostCategoryOther)
		a.DurationMinutes = 0
		itin, err := service.AddActivity(ctx, userID, tripID, 1, a)
		require.NoError(t, err)
		assert.Equal(t, 60, itin.Days[0].Activities[2].DurationMinutes)
	})

	t.Run("over budget", func(t *testing.T) {
		service, store := setupItineraryTest()
		trip := newTrip()
		limit := 60.0
		trip.TotalBudget = &limit
		store.On("GetTrip", mock.Anything, userID, tripID).Return(trip, nil).Once()
		store.On("SaveDays", mock.Anything, userID, tripID, mock.Anything).Return(saved, nil).Once()

		itin, err := service.AddActivity(ctx, userID, tripID, 1, act("Fado", types.TimeSlotEvening, 25, types.CostCategoryActivity))
		require.NoError(t, err)
		assert.True(t, itin.Budget.OverBudget)
		assert.Equal(t, 20.0, itin.Budget.Overage)
	})

	t.Run("foreign trip", func(t *testing.T) {
		service, store := setupItineraryTest()
		store.On("GetTrip", mock.Anything, userID, tripID).Return(nil, types.ErrNotFound).Once()
		_, err := service.AddActivity(ctx, userID, tripID, 1, act("X", types.TimeSlotMorning, 1, types.CostCategoryOther))
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}

func TestServiceImpl_EditAndDeleteActivity(t *testing.T) {
	ctx := context.Background()
	userID, tripID := uuid.New(), uuid.New()
	saved := time.Now().UTC()

	newTrip := func() *types.Trip {
		return &types.Trip{ID: tripID, UserID: userID, Currency: "EUR", Days: []types.TripDay{
			{DayNumber: 1, Title: "Day 1", Activities: []types.TripActivity{
				act("Breakfast", types.TimeSlotMorning, 20, types.CostCategoryFood),
				act("Dinner", types.TimeSlotEvening, 35, types.CostCategoryFood),
			}},
		}}
	}

	t.Run("edit re-slots the activity", func(t *testing.T) {
		service, store := setupItineraryTest()
		original := newTrip()
		store.On("GetTrip", mock.Anything, userID, tripID).Return(original, nil).Once()
		store.On("SaveDays", mock.Anything, userID, tripID, mock.Anything).Return(saved, nil).Once()

		itin, err := service.EditActivity(ctx, userID, tripID, 1, 1, act("Brunch", types.TimeSlotMorning, 15, types.CostCategoryFood))
		require.NoError(t, err)
		assert.Equal(t, []string{"Breakfast", "Brunch"}, titles(itin.Days[0]))
		assert.Equal(t, 35.0, itin.Budget.Total)
	})

	t.Run("delete keeps the emptied day", func(t *testing.T) {
		service, store := setupItineraryTest()
		trip := newTrip()
		trip.Days[0].Activities = trip.Days[0].Activities[:1]
		store.On("GetTrip", mock.Anything, userID, tripID).Return(trip, nil).Once()
		store.On("SaveDays", mock.Anything, userID, tripID, mock.Anything).Return(saved, nil).Once()

		itin, err := service.DeleteActivity(ctx, userID, tripID, 1, 0)
		require.NoError(t, err)
		require.Len(t, itin.Days, 1)
		assert.Empty(t, itin.Days[0].Activities)
		assert.Equal(t, 0.0, itin.Budget.Total)
	})

	t.Run("index out of range", func(t *testing.T) {
		service, store := setupItineraryTest()
		store.On("GetTrip", mock.Anything, userID, tripID).Return(newTrip(), nil).Once()
		_, err := service.DeleteActivity(ctx, userID, tripID, 1, 5)
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})

	t.Run("unknown day", func(t *testing.T) {
		service, store := setupItineraryTest()
		store.On("GetTrip", mock.Anything, userID, tripID).Return(newTrip(), nil).Once()
		_, err := service.EditActivity(ctx, userID, tripID, 4, 0, act("X", types.TimeSlotMorning, 1, types.CostCategoryOther))
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})

	t.Run("storage failure", func(t *testing.T) {
		service, store := setupItineraryTest()
		store.On("GetTrip", mock.Anything, userID, tripID).Return(newTrip(), nil).Once()
		store.On("SaveDays", mock.Anything, userID, tripID, mock.Anything).Return(time.Time{}, errors.New("conn reset")).Once()
		_, err := service.DeleteActivity(ctx, userID, tripID, 1, 0)
		require.Error(t, err)
		assert.False(t, errors.Is(err, types.ErrNotFound))
	})
}

func TestServiceImpl_ExportCalendar(t *testing.T) {
	ctx := context.Background()
	userID, tripID := uuid.New(), uuid.New()
	start := types.NewDate(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	service, store := setupItineraryTest()
	store.On("GetTrip", mock.Anything, userID, tripID).Return(&types.Trip{
		ID: tripID, UserID: userID, StartDate: start,
		Days: []types.TripDay{
			{DayNumber: 1, Title: "Day 1", Activities: []types.TripActivity{act("Castelo", types.TimeSlotMorning, 15, types.CostCategoryActivity)}},
			{DayNumber: 2, Title: "Day 2", Activities: []types.TripActivity{act("Fado", types.TimeSlotEvening, 30, types.CostCategoryActivity)}},
		},
	}, nil).Once()

	doc, err := service.ExportCalendar(ctx, userID, tripID)
	require.NoError(t, err)
	body := string(doc)
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "SUMMARY:Castelo")
	assert.Contains(t, body, "20250601T090000Z")
	assert.Contains(t, body, "20250602T190000Z")
}
