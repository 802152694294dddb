// Package marshal converts a backend's neutral Go rendering of a script result into
// the shape a caller requested. Backends first turn their native values into nil,
// bool, int64, float64, string, []any or map[string]any, then call Convert.
package marshal

import (
	"errors"
	"fmt"

	"github.com/robbyt/go-polyeval/platform"
	"github.com/robbyt/go-polyeval/platform/shape"
)

// maxExactFloat is the largest magnitude an int64 can have and still round-trip
// through a float64.
const maxExactFloat = 1 << 53

// Convert returns value as the host type for want. It never coerces between
// kinds: a mismatch is reported as platform.ErrConversion.
func Convert(value any, want shape.Shape) (any, error) {
	switch want {
	case shape.Unit:
		if value != nil {
			return nil, mismatch(value, want)
		}
		return shape.None{}, nil
	case shape.Bool:
		if v, ok := value.(bool); ok {
			return v, nil
		}
	case shape.Int:
		if v, ok := value.(int64); ok {
			return v, nil
		}
	case shape.Float:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int64:
			if v > maxExactFloat || v < -maxExactFloat {
				return nil, fmt.Errorf("%w: int %d is not exactly representable as float", platform.ErrConversion, v)
			}
			return float64(v), nil
		}
	case shape.String:
		if v, ok := value.(string); ok {
			return v, nil
		}
	case shape.StringList:
		return toStringList(value)
	case shape.Map:
		if v, ok := value.(map[string]any); ok {
			return v, nil
		}
	default:
		return nil, fmt.Errorf("%w: unsupported shape %s", platform.ErrConversion, want)
	}
	return nil, mismatch(value, want)
}

func toStringList(value any) (any, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, mismatch(value, shape.StringList)
	}

	out := make([]string, 0, len(items))
	var errz []error
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			errz = append(errz, fmt.Errorf("element %d is %s", i, describe(item)))
			continue
		}
		out = append(out, s)
	}
	if len(errz) > 0 {
		return nil, fmt.Errorf("%w: cannot convert to %s: %w", platform.ErrConversion, shape.StringList, errors.Join(errz...))
	}
	return out, nil
}

func mismatch(value any, want shape.Shape) error {
	return fmt.Errorf("%w: cannot convert %s to %s", platform.ErrConversion, describe(value), want)
}

// describe names a neutral value's kind for error messages.
func describe(value any) string {
	switch value.(type) {
	case nil:
		return "no value"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	case []any:
		return "list"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", value)
	}
}
