package planner

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ToolGenerateTripPlan is the only tool the planning model may call.
const ToolGenerateTripPlan = "generate_trip_plan"

var ErrUnknownTool = errors.New("unknown tool")

// RawToolCall is a provider-neutral tool invocation as returned by the model.
type RawToolCall struct {
	Name      string
	Arguments json.RawMessage
}

// ModelReply is one assistant turn: free text and any tool calls.
type ModelReply struct {
	Text  string
	Calls []RawToolCall
}

// ToolCall is the closed set of tools the chat consumer dispatches on.
type ToolCall interface {
	ToolName() string
	isToolCall()
}

// GenerateTripPlanCall carries the unvalidated plan arguments.
type GenerateTripPlanCall struct {
	Arguments json.RawMessage
}

func (GenerateTripPlanCall) ToolName() string { return ToolGenerateTripPlan }
func (GenerateTripPlanCall) isToolCall()      {}

// DecodeToolCall maps a raw call onto its variant. Unknown names wrap ErrUnknownTool.
func DecodeToolCall(raw RawToolCall) (ToolCall, error) {
	switch raw.Name {
	case ToolGenerateTripPlan:
		return GenerateTripPlanCall{Arguments: raw.Arguments}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, raw.Name)
	}
}

const systemPrompt = `You are a travel planner. When the user has given enough detail to plan a trip,
call the generate_trip_plan tool with the destination and a day-by-day itinerary.
Days are numbered from 1 without gaps. Each activity has a time_slot of morning, afternoon or evening,
a location_name with latitude and longitude, an estimated_cost in the local currency (0 when free),
a cost_category of food, activity, transport, shopping or other, and duration_minutes of at least 15.
If details are missing, ask a short follow-up question instead of calling the tool.`

const toolDescription = "Create or replace the itinerary of the current trip."

// planParameters is the JSON schema of the generate_trip_plan arguments.
var planParameters = json.RawMessage(`{
  "type": "object",
  "properties": {
    "destination": {"type": "string", "description": "City or region of the trip"},
    "days": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "day_number": {"type": "integer", "minimum": 1},
          "title": {"type": "string"},
          "activities": {
            "type": "array",
            "items": {
              "type": "object",
              "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "time_slot": {"type": "string", "enum": ["morning", "afternoon", "evening"]},
                "location_name": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "estimated_cost": {"type": "number", "minimum": 0},
                "cost_category": {"type": "string", "enum": ["food", "activity", "transport", "shopping", "other"]},
                "duration_minutes": {"type": "integer", "minimum": 15}
              },
              "required": ["title", "time_slot", "location_name", "latitude", "longitude", "estimated_cost", "cost_category"]
            }
          }
        },
        "required": ["day_number", "title", "activities"]
      }
    }
  },
  "required": ["destination", "days"]
}`)
