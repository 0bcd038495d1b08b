package itinerary

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) GetItinerary(ctx context.Context, userID, tripID uuid.UUID) (*types.Itinerary, error) {
	args := m.Called(ctx, userID, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Itinerary), args.Error(1)
}

func (m *MockService) AddActivity(ctx context.Context, userID, tripID uuid.UUID, dayNumber int, activity types.TripActivity) (*types.Itinerary, error) {
	args := m.Called(ctx, userID, tripID, dayNumber, activity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Itinerary), args.Error(1)
}

func (m *MockService) EditActivity(ctx context.Context, userID, tripID uuid.UUID, dayNumber, index int, activity types.TripActivity) (*types.Itinerary, error) {
	args := m.Called(ctx, userID, tripID, dayNumber, index, activity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Itinerary), args.Error(1)
}

func (m *MockService) DeleteActivity(ctx context.Context, userID, tripID uuid.UUID, dayNumber, index int) (*types.Itinerary, error) {
	args := m.Called(ctx, userID, tripID, dayNumber, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Itinerary), args.Error(1)
}

func (m *MockService) ExportCalendar(ctx context.Context, userID, tripID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, userID, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func newItineraryRequest(method, body string, userID uuid.UUID, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(auth.WithUserID(req.Context(), userID.String()), chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

func TestHandlerImpl_AddActivity(t *testing.T) {
	userID, tripID := uuid.New(), uuid.New()
	params := map[string]string{"tripID": tripID.String(), "dayNumber": "1"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("created", func(t *testing.T) {
		service := new(MockService)
		handler := NewHandlerImpl(service, logger)
		service.On("AddActivity", mock.Anything, userID, tripID, 1, mock.MatchedBy(func(a types.TripActivity) bool {
			return a.Title == "Lunch" && a.DurationMinutes == 60
		})).Return(&types.Itinerary{TripID: tripID, Budget: types.BudgetBreakdown{Food: 20, Total: 20}}, nil).Once()

		rr := httptest.NewRecorder()
		handler.AddActivity(rr, newItineraryRequest(http.MethodPost,
			`{"title":"Lunch","time_slot":"afternoon","location_name":"Baixa","latitude":38.71,"longitude":-9.14,"estimated_cost":20,"cost_category":"food"}`,
			userID, params))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"food":20`)
		service.AssertExpectations(t)
	})

	t.Run("negative cost names the field", func(t *testing.T) {
		service := new(MockService)
		handler := NewHandlerImpl(service, logger)
		rr := httptest.NewRecorder()
		handler.AddActivity(rr, newItineraryRequest(http.MethodPost,
			`{"title":"Lunch","time_slot":"afternoon","location_name":"Baixa","latitude":38.71,"longitude":-9.14,"estimated_cost":-5,"cost_category":"food"}`,
			userID, params))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "estimated_cost")
		service.AssertNotCalled(t, "AddActivity", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bad day number", func(t *testing.T) {
		service := new(MockService)
		handler := NewHandlerImpl(service, logger)
		rr := httptest.NewRecorder()
		handler.AddActivity(rr, newItineraryRequest(http.MethodPost, `{}`, userID,
			map[string]string{"tripID": tripID.String(), "dayNumber": "first"}))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHandlerImpl_DeleteActivity(t *testing.T) {
	userID, tripID := uuid.New(), uuid.New()
	service := new(MockService)
	handler := NewHandlerImpl(service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	service.On("DeleteActivity", mock.Anything, userID, tripID, 2, 7).Return(nil, types.ErrNotFound).Once()

	rr := httptest.NewRecorder()
	handler.DeleteActivity(rr, newItineraryRequest(http.MethodDelete, "", userID,
		map[string]string{"tripID": tripID.String(), "dayNumber": "2", "index": "7"}))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlerImpl_ExportCalendar(t *testing.T) {
	userID, tripID := uuid.New(), uuid.New()
	service := new(MockService)
	handler := NewHandlerImpl(service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	service.On("ExportCalendar", mock.Anything, userID, tripID).Return([]byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"), nil).Once()

	rr := httptest.NewRecorder()
	handler.ExportCalendar(rr, newItineraryRequest(http.MethodGet, "", userID, map[string]string{"tripID": tripID.String()}))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, rr.Body.String(), "BEGIN:VCALENDAR")
}
