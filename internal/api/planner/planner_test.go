package planner

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const lisbonArgs = `{"destination":"Lisbon","days":[{"day_number":1,"title":"Alfama","activities":[
{"title":"Castelo de S. Jorge","time_slot":"morning","location_name":"Alfama","latitude":38.71,"longitude":-9.13,
"estimated_cost":15,"cost_category":"activity","duration_minutes":90},
{"title":"Dinner","time_slot":"evening","location_name":"Baixa","latitude":38.71,"longitude":-9.14,
"estimated_cost":40,"cost_category":"food"}]}]}`

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, messages []types.ChatMessage) (*ModelReply, error) {
	args := m.Called(ctx, messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ModelReply), args.Error(1)
}

type MockTripPlanner struct {
	mock.Mock
}

func (m *MockTripPlanner) EnsureDraft(ctx context.Context, userID uuid.UUID, existingID *uuid.UUID) (uuid.UUID, bool, error) {
	args := m.Called(ctx, userID, existingID)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *MockTripPlanner) AttachPlan(ctx context.Context, userID, tripID uuid.UUID, plan types.TripPlan) (*types.Trip, error) {
	args := m.Called(ctx, userID, tripID, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Trip), args.Error(1)
}

func setupPlannerTest() (*ServiceImpl, *MockGenerator, *MockTripPlanner, *Sequencer) {
	gen := new(MockGenerator)
	trips := new(MockTripPlanner)
	seq := NewSequencer(time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServiceImpl(gen, trips, seq, logger), gen, trips, seq
}

func chatRequest(tripID *uuid.UUID, requestID int64) types.ChatRequest {
	return types.ChatRequest{
		TripID:    tripID,
		RequestID: requestID,
		Messages:  []types.ChatMessage{{Role: "user", Content: "Plan a day in Lisbon"}},
	}
}

func TestDecodeToolCall(t *testing.T) {
	call, err := DecodeToolCall(RawToolCall{Name: "generate_trip_plan", Arguments: json.RawMessage(`{}`)})
	require.NoError(t, err)
	plan, ok := call.(GenerateTripPlanCall)
	require.True(t, ok)
	assert.JSONEq(t, `{}`, string(plan.Arguments))

	_, err = DecodeToolCall(RawToolCall{Name: "book_flight"})
	assert.True(t, errors.Is(err, ErrUnknownTool))
	assert.Contains(t, err.Error(), "book_flight")
}

func TestSequencer(t *testing.T) {
	seq := NewSequencer(time.Hour)
	tripID := uuid.New()

	assert.True(t, seq.IsLatest(tripID, 1))
	require.NoError(t, seq.Begin(tripID, 3))
	require.NoError(t, seq.Begin(tripID, 3))
	assert.True(t, errors.Is(seq.Begin(tripID, 2), types.ErrStaleRequest))

	require.NoError(t, seq.Begin(tripID, 4))
	assert.False(t, seq.IsLatest(tripID, 3))
	assert.True(t, seq.IsLatest(tripID, 4))

	require.NoError(t, seq.Begin(uuid.New(), 1), "sequences are per trip")
}

func TestSequencer_Commit(t *testing.T) {
	seq := NewSequencer(time.Hour)
	tripID := uuid.New()
	require.NoError(t, seq.Begin(tripID, 1))

	t.Run("latest request runs", func(t *testing.T) {
		ran := false
		ok, err := seq.Commit(tripID, 1, func() error { ran = true; return nil })
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, ran)
	})

	t.Run("error from fn is returned", func(t *testing.T) {
		ok, err := seq.Commit(tripID, 1, func() error { return types.ErrNotFound })
		assert.True(t, ok)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("newer request cannot begin while committing", func(t *testing.T) {
		began := make(chan error, 1)
		ok, err := seq.Commit(tripID, 1, func() error {
			go func() { began <- seq.Begin(tripID, 2) }()
			select {
			case <-began:
				t.Error("Begin returned while the commit was in progress")
			case <-time.After(50 * time.Millisecond):
			}
			return nil
		})
		require.NoError(t, err)
		assert.True(t, ok)
		select {
		case err := <-began:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("Begin did not resume after the commit")
		}
	})

	t.Run("superseded request is skipped", func(t *testing.T) {
		ok, err := seq.Commit(tripID, 1, func() error {
			t.Error("fn must not run for a superseded request")
			return nil
		})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestServiceImpl_Chat(t *testing.T) {
	ctx := context.Background()
	userID, tripID := uuid.New(), uuid.New()
	total := 100.0

	t.Run("plan is validated and attached", func(t *testing.T) {
		service, gen, trips, _ := setupPlannerTest()
		trips.On("EnsureDraft", mock.Anything, userID, (*uuid.UUID)(nil)).Return(tripID, true, nil).Once()
		gen.On("Generate", mock.Anything, mock.Anything).Return(&ModelReply{
			Calls: []RawToolCall{{Name: ToolGenerateTripPlan, Arguments: json.RawMessage(lisbonArgs)}},
		}, nil).Once()
		attached := &types.Trip{ID: tripID, UserID: userID, TotalBudget: &total, Currency: "EUR"}
		trips.On("AttachPlan", mock.Anything, userID, tripID, mock.MatchedBy(func(p types.TripPlan) bool {
			return p.Destination == "Lisbon" && len(p.Days) == 1 && len(p.Days[0].Activities) == 2 &&
				p.Days[0].Activities[1].DurationMinutes == types.DefaultDurationMinutes
		})).Run(func(args mock.Arguments) {
			p := args.Get(3).(types.TripPlan)
			attached.Destination = p.Destination
			attached.Days = p.Days
		}).Return(attached, nil).Once()

		resp, err := service.Chat(ctx, userID, chatRequest(nil, 1))
		require.NoError(t, err)
		assert.Equal(t, tripID, resp.TripID)
		assert.Equal(t, ToolGenerateTripPlan, resp.ToolName)
		assert.Empty(t, resp.Error)
		assert.False(t, resp.Stale)
		require.NotNil(t, resp.Plan)
		require.NotNil(t, resp.Itinerary)
		assert.Equal(t, 55.0, resp.Itinerary.Budget.Total)
		assert.Equal(t, 40.0, resp.Itinerary.Budget.Food)
		assert.Equal(t, "assistant", resp.Message.Role)
		assert.Contains(t, resp.Message.Content, "Lisbon")
		trips.AssertExpectations(t)
	})

	t.Run("invalid plan is reported, not attached", func(t *testing.T) {
		service, gen, trips, _ := setupPlannerTest()
		trips.On("EnsureDraft", mock.Anything, userID, &tripID).Return(tripID, false, nil).Once()
		bad := strings.Replace(lisbonArgs, `"estimated_cost":15`, `"estimated_cost":-5`, 1)
		gen.On("Generate", mock.Anything, mock.Anything).Return(&ModelReply{
			Text:  "Here you go",
			Calls: []RawToolCall{{Name: ToolGenerateTripPlan, Arguments: json.RawMessage(bad)}},
		}, nil).Once()

		resp, err := service.Chat(ctx, userID, chatRequest(&tripID, 1))
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Error)
		require.NotEmpty(t, resp.FieldErrors)
		assert.Equal(t, "days[0].activities[0].estimated_cost", resp.FieldErrors[0].Field)
		assert.Nil(t, resp.Plan)
		trips.AssertNotCalled(t, "AttachPlan", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("out of range day number is a field error", func(t *testing.T) {
		service, gen, trips, _ := setupPlannerTest()
		trips.On("EnsureDraft", mock.Anything, userID, &tripID).Return(tripID, false, nil).Once()
		huge := strings.Replace(lisbonArgs, `"day_number":1`, `"day_number":1e300`, 1)
		gen.On("Generate", mock.Anything, mock.Anything).Return(&ModelReply{
			Calls: []RawToolCall{{Name: ToolGenerateTripPlan, Arguments: json.RawMessage(huge)}},
		}, nil).Once()

		resp, err := service.Chat(ctx, userID, chatRequest(&tripID, 1))
		require.NoError(t, err)
		require.NotEmpty(t, resp.FieldErrors)
		assert.Equal(t, "days[0].day_number", resp.FieldErrors[0].Field)
		trips.AssertNotCalled(t, "AttachPlan", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("plan rejected by the trip store is reported", func(t *testing.T) {
		service, gen, trips, _ := setupPlannerTest()
		trips.On("EnsureDraft", mock.Anything, userID, &tripID).Return(tripID, false, nil).Once()
		gen.On("Generate", mock.Anything, mock.Anything).Return(&ModelReply{
			Calls: []RawToolCall{{Name: ToolGenerateTripPlan, Arguments: json.RawMessage(lisbonArgs)}},
		}, nil).Once()
		trips.On("AttachPlan", mock.Anything, userID, tripID, mock.Anything).
			Return(nil, types.NewValidationError("days", "day numbers must be contiguous starting at 1")).Once()

		resp, err := service.Chat(ctx, userID, chatRequest(&tripID, 1))
		require.NoError(t, err)
		assert.Equal(t, "The generated plan was invalid and was not saved", resp.Error)
		require.Len(t, resp.FieldErrors, 1)
		assert.Equal(t, "days", resp.FieldErrors[0].Field)
		assert.Nil(t, resp.Itinerary)
	})

	t.Run("storage failure is returned", func(t *testing.T) {
		service, gen, trips, _ := setupPlannerTest()
		trips.On("EnsureDraft", mock.Anything, userID, &tripID).Return(tripID, false, nil).Once()
		gen.On("Generate", mock.Anything, mock.Anything).Return(&ModelReply{
			Calls: []RawToolCall{{Name: ToolGenerateTripPlan, Arguments: json.RawMessage(lisbonArgs)}},
		}, nil).Once()
		trips.On("AttachPlan", mock.Anything, userID, tripID, mock.Anything).
			Return(nil, errors.New("connection refused")).Once()

		_, err := service.Chat(ctx, userID, chatRequest(&tripID, 1))
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrGeneratorFailed))
	})

	t.Run("plain message without tool call", func(t *testing.T) {
		service, gen, trips, _ := setupPlannerTest()
		trips.On("EnsureDraft", mock.Anything, userID, &tripID).Return(tripID, false, nil).Once()
		gen.On("Generate", mock.Anything, mock.Anything).Return(&ModelReply{Text: "How many days?"}, nil).Once()

		resp, err := service.Chat(ctx, userID, chatRequest(&tripID, 1))
		require.NoError(t, err)
		assert.Equal(t, "How many days?", resp.Message.Content)
		assert.Empty(t, resp.ToolName)
		assert.Nil(t, resp.Itinerary)
	})

	t.Run("unknown tool is a chat-visible error", func(t *testing.T) {
		service, gen, trips, _ := setupPlannerTest()
		trips.On("EnsureDraft", mock.Anything, userID, &tripID).Return(tripID, false, nil).Once()
		gen.On("Generate", mock.Anything, mock.Anything).Return(&ModelReply{
			Calls: []RawToolCall{{Name: "book_hotel", Arguments: json.RawMessage(`{}`)}},
		}, nil).Once()

		resp, err := service.Chat(ctx, userID, chatRequest(&tripID, 1))
		require.NoError(t, err)
		assert.Contains(t, resp.Error, "unknown tool")
		trips.AssertNotCalled(t, "AttachPlan", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("older request id is rejected up front", func(t *testing.T) {
		service, _, trips, seq := setupPlannerTest()
		require.NoError(t, seq.Begin(tripID, 5))
		trips.On("EnsureDraft", mock.Anything, userID, &tripID).Return(tripID, false, nil).Once()

		_, err := service.Chat(ctx, userID, chatRequest(&tripID, 4))
		assert.True(t, errors.Is(err, types.ErrStaleRequest))
	})

	t.Run("reply superseded while generating is dropped", func(t *testing.T) {
		service, gen, trips, seq := setupPlannerTest()
		trips.On("EnsureDraft", mock.Anything, userID, &tripID).Return(tripID, false, nil).Once()
		gen.On("Generate", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			require.NoError(t, seq.Begin(tripID, 2))
		}).Return(&ModelReply{
			Calls: []RawToolCall{{Name: ToolGenerateTripPlan, Arguments: json.RawMessage(lisbonArgs)}},
		}, nil).Once()

		resp, err := service.Chat(ctx, userID, chatRequest(&tripID, 1))
		require.NoError(t, err)
		assert.True(t, resp.Stale)
		assert.Nil(t, resp.Plan)
		trips.AssertNotCalled(t, "AttachPlan", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("generator failure", func(t *testing.T) {
		service, gen, trips, _ := setupPlannerTest()
		trips.On("EnsureDraft", mock.Anything, userID, &tripID).Return(tripID, false, nil).Once()
		gen.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset")).Once()

		_, err := service.Chat(ctx, userID, chatRequest(&tripID, 1))
		assert.True(t, errors.Is(err, ErrGeneratorFailed))
		gen.AssertNumberOfCalls(t, "Generate", 1)
	})
}

type MockService struct {
	mock.Mock
}

func (m *MockService) Chat(ctx context.Context, userID uuid.UUID, req types.ChatRequest) (*types.ChatResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ChatResponse), args.Error(1)
}

func TestHandlerImpl_Chat(t *testing.T) {
	userID, tripID := uuid.New(), uuid.New()
	body := `{"request_id":1,"messages":[{"role":"user","content":"Plan Lisbon"}]}`

	newRequest := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/planner/chat", strings.NewReader(body))
		return req.WithContext(auth.WithUserID(req.Context(), userID.String()))
	}

	cases := []struct {
		name   string
		err    error
		resp   *types.ChatResponse
		status int
	}{
		{name: "reply", resp: &types.ChatResponse{TripID: tripID, RequestID: 1}, status: http.StatusOK},
		{name: "stale", err: types.ErrStaleRequest, status: http.StatusConflict},
		{name: "generator down", err: ErrGeneratorFailed, status: http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := new(MockService)
			handler := NewHandlerImpl(service, slog.New(slog.NewTextHandler(io.Discard, nil)))
			if tc.resp != nil {
				service.On("Chat", mock.Anything, userID, mock.Anything).Return(tc.resp, nil).Once()
			} else {
				service.On("Chat", mock.Anything, userID, mock.Anything).Return(nil, tc.err).Once()
			}

			rr := httptest.NewRecorder()
			handler.Chat(rr, newRequest(body))
			assert.Equal(t, tc.status, rr.Code)
		})
	}

	t.Run("empty conversation", func(t *testing.T) {
		service := new(MockService)
		handler := NewHandlerImpl(service, slog.New(slog.NewTextHandler(io.Discard, nil)))

		rr := httptest.NewRecorder()
		handler.Chat(rr, newRequest(`{"request_id":1,"messages":[]}`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		service.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		reply := map[string]any{
			"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini",
			"choices": []any{map[string]any{
				"index":         0,
				"finish_reason": "tool_calls",
				"message": map[string]any{
					"role":    "assistant",
					"content": "",
					"tool_calls": []any{map[string]any{
						"id": "call_1", "type": "function",
						"function": map[string]any{"name": ToolGenerateTripPlan, "arguments": lisbonArgs},
					}},
				},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(reply))
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator("test-key", srv.URL+"/v1", "gpt-4o-mini", 0.2)
	reply, err := gen.Generate(context.Background(), []types.ChatMessage{{Role: "user", Content: "Plan Lisbon"}})
	require.NoError(t, err)
	require.Len(t, reply.Calls, 1)
	assert.Equal(t, ToolGenerateTripPlan, reply.Calls[0].Name)
	assert.JSONEq(t, lisbonArgs, string(reply.Calls[0].Arguments))

	msgs, ok := received["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	tools, ok := received["tools"].([]any)
	require.True(t, ok)
	require.Len(t, tools, 1)
}

func TestNewGenerator(t *testing.T) {
	ctx := context.Background()

	gen, err := NewGenerator(ctx, config.PlannerConfig{Provider: "OpenAI", OpenAIAPIKey: "k", OpenAIModel: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIGenerator{}, gen)

	_, err = NewGenerator(ctx, config.PlannerConfig{Provider: "gemini"})
	assert.Error(t, err, "missing api key")

	_, err = NewGenerator(ctx, config.PlannerConfig{Provider: "mistral"})
	assert.Error(t, err)

	_, err = Unavailable(errors.New("no key")).Generate(ctx, nil)
	assert.ErrorContains(t, err, "no key")
}
