package internal

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
	"github.com/robbyt/go-polyeval/platform"
)

// ToGo converts a JavaScript completion value to nil, bool, int64, float64, string,
// []any or map[string]any. undefined and null both become nil. Values goja exports
// as anything else (functions, dates, regexps, host objects) are rejected.
func ToGo(v goja.Value) (any, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	return normalize(v.Export())
}

func normalize(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case bool, string, float64:
		return val, nil
	case int64:
		return numberToGo(val), nil
	case int:
		return numberToGo(int64(val)), nil
	case []string:
		list := make([]any, len(val))
		for i, s := range val {
			list[i] = s
		}
		return list, nil
	case []any:
		list := make([]any, 0, len(val))
		for i, elem := range val {
			goVal, err := normalize(elem)
			if err != nil {
				return nil, fmt.Errorf("failed to convert array element %d: %w", i, err)
			}
			list = append(list, goVal)
		}
		return list, nil
	case map[string]any:
		m := make(map[string]any, len(val))
		var errz []error
		for k, elem := range val {
			goVal, err := normalize(elem)
			if err != nil {
				errz = append(errz, fmt.Errorf("failed to convert property %q: %w", k, err))
				continue
			}
			m[k] = goVal
		}
		if len(errz) > 0 {
			return nil, errors.Join(errz...)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: unsupported JavaScript value of Go type %T", platform.ErrConversion, v)
	}
}

// maxExactInt bounds the integers a JavaScript number holds exactly.
const maxExactInt = 1 << 53

// numberToGo keeps integers goja stores as int64 within the exact range, and
// reports larger ones as the float64 numbers they are in JavaScript.
func numberToGo(i int64) any {
	if i > maxExactInt || i < -maxExactInt {
		return float64(i)
	}
	return i
}
