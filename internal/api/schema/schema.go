// Package schema enforces the trip plan shape wherever a plan, a day or an activity
// crosses a boundary: model tool-call arguments, REST bodies and stored records.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Numeric fields decode as float64 pointers so that 1.5 for an integer field and a
// missing field are reported as field errors instead of aborting the decode.
type activityCandidate struct {
	Title           string   `json:"title" validate:"required"`
	Description     string   `json:"description"`
	TimeSlot        string   `json:"time_slot" validate:"required,oneof=morning afternoon evening"`
	LocationName    string   `json:"location_name" validate:"required"`
	Latitude        *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude       *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	EstimatedCost   *float64 `json:"estimated_cost" validate:"required,gte=0"`
	CostCategory    string   `json:"cost_category" validate:"required,oneof=food activity transport shopping other"`
	DurationMinutes *float64 `json:"duration_minutes" validate:"omitempty,whole,gte=15"`
}

type dayCandidate struct {
	DayNumber  *float64            `json:"day_number" validate:"required,whole,gte=1"`
	Title      string              `json:"title" validate:"required"`
	Activities []activityCandidate `json:"activities" validate:"dive"`
}

type planCandidate struct {
	Destination string         `json:"destination" validate:"required"`
	Days        []dayCandidate `json:"days" validate:"required,min=1,dive"`
}

type daysCandidate struct {
	Days []dayCandidate `json:"days" validate:"dive"`
}

// ValidatePlan decodes and validates a candidate plan. Days are returned sorted by
// day number. On failure the error is a *types.ValidationError naming every field.
func ValidatePlan(raw []byte) (*types.TripPlan, error) {
	var c planCandidate
	verr := decode(raw, &c, planShape)
	if verr != nil && len(verr.Fields) == 1 && verr.Fields[0].Field == "body" {
		return nil, verr
	}
	if verr == nil {
		verr = &types.ValidationError{}
	}
	mergeStruct(verr, &c)
	checkDayNumbers(verr, c.Days, "days")
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return &types.TripPlan{
		Destination: strings.TrimSpace(c.Destination),
		Days:        toDays(c.Days),
	}, nil
}

// ValidateActivity decodes and validates a single activity.
func ValidateActivity(raw []byte) (*types.TripActivity, error) {
	var c activityCandidate
	verr := decode(raw, &c, activityShape)
	if verr != nil && len(verr.Fields) == 1 && verr.Fields[0].Field == "body" {
		return nil, verr
	}
	if verr == nil {
		verr = &types.ValidationError{}
	}
	mergeStruct(verr, &c)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	a := toActivity(c)
	return &a, nil
}

// CheckActivity validates an already typed activity.
func CheckActivity(a types.TripActivity) error {
	c := fromActivity(a)
	verr := &types.ValidationError{}
	mergeStruct(verr, &c)
	return verr.OrNil()
}

// CheckDays validates a typed day collection, including contiguous numbering from 1.
func CheckDays(days []types.TripDay) error {
	c := daysCandidate{Days: make([]dayCandidate, 0, len(days))}
	for _, d := range days {
		c.Days = append(c.Days, fromDay(d))
	}
	verr := &types.ValidationError{}
	mergeStruct(verr, &c)
	checkDayNumbers(verr, c.Days, "days")
	return verr.OrNil()
}

// decode unmarshals raw into dst after checking every known field against its JSON
// type. A mismatched value is reported under its indexed path and dropped, so the
// struct pass still runs over the rest of the document.
func decode(raw []byte, dst any, root shape) *types.ValidationError {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return types.NewValidationError("body", "must not be empty")
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return types.NewValidationError("body", "is not valid JSON: "+err.Error())
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return types.NewValidationError("body", "must be a JSON object, got JSON "+jsonKind(doc))
	}

	verr := &types.ValidationError{}
	checkShape(verr, obj, root, "")

	// Re-encoding the pruned document cannot fail and always fits dst.
	clean, err := json.Marshal(obj)
	if err != nil {
		return types.NewValidationError("body", err.Error())
	}
	if err := json.Unmarshal(clean, dst); err != nil {
		return types.NewValidationError("body", err.Error())
	}
	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

func mergeStruct(dst *types.ValidationError, s any) {
	err := api.ValidateStruct(s)
	if err == nil {
		return
	}
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		for _, f := range verr.Fields {
			if !dst.HasField(f.Field) {
				dst.Fields = append(dst.Fields, f)
			}
		}
		return
	}
	dst.Add("body", err.Error())
}

// checkDayNumbers requires unique day numbers forming 1..n. A day number that is
// missing, fractional or out of range is reported once and stops the gap check.
func checkDayNumbers(verr *types.ValidationError, days []dayCandidate, path string) {
	seen := make(map[int]int, len(days))
	valid := true
	for i, d := range days {
		if d.DayNumber == nil || !dayNumberInRange(*d.DayNumber) {
			field := fmt.Sprintf("%s[%d].day_number", path, i)
			if !verr.HasField(field) {
				verr.Add(field, fmt.Sprintf("must be an integer between 1 and %d", math.MaxInt32))
			}
			valid = false
			continue
		}
		n := int(*d.DayNumber)
		if first, dup := seen[n]; dup {
			verr.Add(fmt.Sprintf("%s[%d].day_number", path, i), fmt.Sprintf("duplicates day %d (already used by %s[%d])", n, path, first))
			valid = false
			continue
		}
		seen[n] = i
	}
	if !valid {
		return
	}
	var missing []string
	for n := 1; n <= len(days); n++ {
		if _, ok := seen[n]; !ok {
			missing = append(missing, fmt.Sprint(n))
		}
	}
	if len(missing) > 0 {
		verr.Add(path, "day numbers must be contiguous starting at 1, missing: "+strings.Join(missing, ", "))
	}
}

func dayNumberInRange(x float64) bool {
	return x == math.Trunc(x) && x >= 1 && x <= math.MaxInt32
}

func toDays(cs []dayCandidate) []types.TripDay {
	days := make([]types.TripDay, 0, len(cs))
	for _, c := range cs {
		day := types.TripDay{
			DayNumber:  int(*c.DayNumber),
			Title:      strings.TrimSpace(c.Title),
			Activities: make([]types.TripActivity, 0, len(c.Activities)),
		}
		for _, a := range c.Activities {
			day.Activities = append(day.Activities, toActivity(a))
		}
		days = append(days, day)
	}
	sort.SliceStable(days, func(i, j int) bool { return days[i].DayNumber < days[j].DayNumber })
	return days
}

func toActivity(c activityCandidate) types.TripActivity {
	duration := types.DefaultDurationMinutes
	if c.DurationMinutes != nil {
		duration = int(*c.DurationMinutes)
	}
	return types.TripActivity{
		Title:           strings.TrimSpace(c.Title),
		Description:     strings.TrimSpace(c.Description),
		TimeSlot:        types.TimeSlot(c.TimeSlot),
		LocationName:    strings.TrimSpace(c.LocationName),
		Latitude:        *c.Latitude,
		Longitude:       *c.Longitude,
		EstimatedCost:   *c.EstimatedCost,
		CostCategory:    types.CostCategory(c.CostCategory),
		DurationMinutes: duration,
	}
}

func fromDay(d types.TripDay) dayCandidate {
	n := float64(d.DayNumber)
	c := dayCandidate{DayNumber: &n, Title: d.Title}
	for _, a := range d.Activities {
		c.Activities = append(c.Activities, fromActivity(a))
	}
	return c
}

func fromActivity(a types.TripActivity) activityCandidate {
	lat, lng, cost, dur := a.Latitude, a.Longitude, a.EstimatedCost, float64(a.DurationMinutes)
	return activityCandidate{
		Title:           a.Title,
		Description:     a.Description,
		TimeSlot:        string(a.TimeSlot),
		LocationName:    a.LocationName,
		Latitude:        &lat,
		Longitude:       &lng,
		EstimatedCost:   &cost,
		CostCategory:    string(a.CostCategory),
		DurationMinutes: &dur,
	}
}
