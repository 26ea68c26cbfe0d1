// Package normalizer turns raw form submissions into clean, validated payloads.
package normalizer

import (
	"encoding/json"
	"fmt"
	"strconv"

	"formrelay/internal/models"
	"formrelay/pkg/utils"
)

// Normalize collapses a raw submission into a label to string mapping.
//
// Lists contribute their first element that is neither nil nor the empty
// string. Every value is trimmed and whitespace runs are collapsed. Labels
// whose cleaned value is empty are dropped. Normalize never fails.
func Normalize(raw *models.RawSubmission) *models.Fields {
	out := models.NewFields()
	if raw == nil {
		return out
	}

	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		value := Clean(scalar(pair.Value))
		if value == "" {
			continue
		}

		out.Set(pair.Key, value)
	}

	return out
}

// Clean trims s and collapses internal whitespace to single spaces.
func Clean(s string) string {
	return utils.CollapseWhitespace(s)
}

func scalar(v any) string {
	switch val := v.(type) {
	case []any:
		for _, elem := range val {
			if elem == nil {
				continue
			}

			if s, ok := elem.(string); ok && s == "" {
				continue
			}

			return stringify(elem)
		}

		return ""
	case []string:
		for _, elem := range val {
			if elem != "" {
				return elem
			}
		}

		return ""
	default:
		return stringify(v)
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}

		return string(b)
	default:
		return fmt.Sprint(val)
	}
}
