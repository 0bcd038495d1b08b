package schema

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
	kindList
)

type field struct {
	kind fieldKind
	item shape // element shape of a kindList field
}

// shape lists the known fields of a JSON object. Unknown fields are ignored.
type shape map[string]field

var activityShape = shape{
	"title":            {kind: kindString},
	"description":      {kind: kindString},
	"time_slot":        {kind: kindString},
	"location_name":    {kind: kindString},
	"latitude":         {kind: kindNumber},
	"longitude":        {kind: kindNumber},
	"estimated_cost":   {kind: kindNumber},
	"cost_category":    {kind: kindString},
	"duration_minutes": {kind: kindNumber},
}

var dayShape = shape{
	"day_number": {kind: kindNumber},
	"title":      {kind: kindString},
	"activities": {kind: kindList, item: activityShape},
}

var planShape = shape{
	"destination": {kind: kindString},
	"days":        {kind: kindList, item: dayShape},
}

// checkShape reports every value in obj whose JSON type does not match s and removes
// it from obj. List elements that are not objects are replaced by empty objects so
// the indexes of their siblings are preserved.
func checkShape(verr *types.ValidationError, obj map[string]any, s shape, prefix string) {
	names := lo.Keys(s)
	sort.Strings(names)
	for _, name := range names {
		f := s[name]
		v, ok := obj[name]
		if !ok || v == nil {
			continue
		}
		path := prefix + name
		switch f.kind {
		case kindString:
			if _, ok := v.(string); !ok {
				verr.Add(path, "has the wrong type, expected JSON string, got JSON "+jsonKind(v))
				delete(obj, name)
			}
		case kindNumber:
			if _, ok := v.(float64); !ok {
				verr.Add(path, "has the wrong type, expected JSON number, got JSON "+jsonKind(v))
				delete(obj, name)
			}
		case kindList:
			items, ok := v.([]any)
			if !ok {
				verr.Add(path, "has the wrong type, expected JSON array, got JSON "+jsonKind(v))
				delete(obj, name)
				continue
			}
			for i, item := range items {
				itemPath := fmt.Sprintf("%s[%d]", path, i)
				child, ok := item.(map[string]any)
				if !ok {
					verr.Add(itemPath, "has the wrong type, expected JSON object, got JSON "+jsonKind(item))
					items[i] = map[string]any{}
					continue
				}
				checkShape(verr, child, f.item, itemPath+".")
			}
		}
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
