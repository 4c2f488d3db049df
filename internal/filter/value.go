package filter

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rebeliceyang/lazykit/internal/models"
)

// ParseValue converts raw input into the value stored in a condition
// for col and op. IN lists are comma separated.
func ParseValue(col models.Column, op models.FilterOperator, raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)

	if op == models.OpIn || op == models.OpNotIn {
		var values []interface{}
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := parseScalar(col, part)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("enter at least one value")
		}
		return values, nil
	}

	if raw == "" {
		return nil, fmt.Errorf("value must not be empty")
	}
	if op == models.OpLike || op == models.OpILike || op == models.OpNotLike {
		return raw, nil
	}
	return parseScalar(col, raw)
}

func parseScalar(col models.Column, raw string) (interface{}, error) {
	switch col.FilterKind {
	case models.FilterNumber:
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		return f, nil
	case models.FilterBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not true or false", raw)
		}
		return b, nil
	case models.FilterDate:
		if _, err := time.Parse(time.DateOnly, raw); err != nil {
			return nil, fmt.Errorf("%q is not a YYYY-MM-DD date", raw)
		}
		return raw, nil
	case models.FilterEnum:
		if len(col.Choices) > 0 && !slices.Contains(col.Choices, raw) {
			return nil, fmt.Errorf("%q is not one of %s", raw, strings.Join(col.Choices, ", "))
		}
		return raw, nil
	default:
		return raw, nil
	}
}
