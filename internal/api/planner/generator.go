package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// PlanGenerator sends the conversation to a language model that may answer with a
// generate_trip_plan tool call.
type PlanGenerator interface {
	Generate(ctx context.Context, messages []types.ChatMessage) (*ModelReply, error)
}

// NewGenerator builds the provider selected by cfg.Provider.
func NewGenerator(ctx context.Context, cfg config.PlannerConfig) (PlanGenerator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "gemini":
		return NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Temperature)
	case "openai":
		return NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIURL, cfg.OpenAIModel, cfg.Temperature), nil
	default:
		return nil, fmt.Errorf("unsupported planner provider %q", cfg.Provider)
	}
}

type GeminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string, temperature float32) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model, temperature: temperature}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, messages []types.ChatMessage) (*ModelReply, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		var role genai.Role = genai.RoleUser
		if m.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
		Tools: []*genai.Tool{{
			FunctionDeclarations: []*genai.FunctionDeclaration{geminiPlanDeclaration()},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	reply := &ModelReply{Text: resp.Text()}
	// Gemini hands back decoded args; re-encode so both providers yield raw JSON
	for _, fc := range resp.FunctionCalls() {
		args, err := json.Marshal(fc.Args)
		if err != nil {
			return nil, fmt.Errorf("gemini tool arguments: %w", err)
		}
		reply.Calls = append(reply.Calls, RawToolCall{Name: fc.Name, Arguments: args})
	}
	return reply, nil
}

func geminiPlanDeclaration() *genai.FunctionDeclaration {
	str := func(desc string) *genai.Schema { return &genai.Schema{Type: genai.TypeString, Description: desc} }
	num := &genai.Schema{Type: genai.TypeNumber}
	integer := &genai.Schema{Type: genai.TypeInteger}

	activity := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":            str(""),
			"description":      str(""),
			"time_slot":        {Type: genai.TypeString, Enum: []string{"morning", "afternoon", "evening"}},
			"location_name":    str(""),
			"latitude":         num,
			"longitude":        num,
			"estimated_cost":   num,
			"cost_category":    {Type: genai.TypeString, Enum: []string{"food", "activity", "transport", "shopping", "other"}},
			"duration_minutes": integer,
		},
		Required: []string{"title", "time_slot", "location_name", "latitude", "longitude", "estimated_cost", "cost_category"},
	}
	day := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"day_number": integer,
			"title":      str(""),
			"activities": {Type: genai.TypeArray, Items: activity},
		},
		Required: []string{"day_number", "title", "activities"},
	}
	return &genai.FunctionDeclaration{
		Name:        ToolGenerateTripPlan,
		Description: toolDescription,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"destination": str("City or region of the trip"),
				"days":        {Type: genai.TypeArray, Items: day},
			},
			Required: []string{"destination", "days"},
		},
	}
}

type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIGenerator talks to the OpenAI chat completions API, or to a compatible
// endpoint when baseURL is set.
func NewOpenAIGenerator(apiKey, baseURL, model string, temperature float32) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGenerator{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, messages []types.ChatMessage) (*ModelReply, error) {
	// System prompt first, then the conversation as sent
	msgs := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages:    msgs,
		Tools: []openai.Tool{{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        ToolGenerateTripPlan,
				Description: toolDescription,
				Parameters:  planParameters,
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai chat completion returned no choices")
	}

	// Only the first choice is used, n defaults to 1
	msg := resp.Choices[0].Message
	reply := &ModelReply{Text: msg.Content}
	for _, tc := range msg.ToolCalls {
		reply.Calls = append(reply.Calls, RawToolCall{
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}
	return reply, nil
}

// unavailableGenerator stands in when no provider could be configured, so the rest
// of the API keeps serving while every chat turn fails as a generator error.
type unavailableGenerator struct {
	cause error
}

func Unavailable(cause error) PlanGenerator {
	return unavailableGenerator{cause: cause}
}

func (g unavailableGenerator) Generate(context.Context, []types.ChatMessage) (*ModelReply, error) {
	return nil, fmt.Errorf("planner provider not configured: %w", g.cause)
}
