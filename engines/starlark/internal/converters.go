package internal

import (
	"errors"
	"fmt"

	"github.com/robbyt/go-polyeval/platform"
	starlarkLib "go.starlark.net/starlark"
)

// ToGo converts a Starlark value to nil, bool, int64, float64, string, []any or
// map[string]any. Lists and tuples both become []any. Dicts need string keys.
func ToGo(v starlarkLib.Value) (any, error) {
	switch v := v.(type) {
	case nil, starlarkLib.NoneType:
		return nil, nil
	case starlarkLib.Bool:
		return bool(v), nil
	case starlarkLib.Int:
		i, ok := v.Int64()
		if !ok {
			return nil, fmt.Errorf("%w: int %s overflows int64", platform.ErrConversion, v)
		}
		return i, nil
	case starlarkLib.Float:
		return float64(v), nil
	case starlarkLib.String:
		return string(v), nil
	case *starlarkLib.List:
		return iterableToGo(v, v.Len())
	case starlarkLib.Tuple:
		return iterableToGo(v, v.Len())
	case *starlarkLib.Dict:
		m := make(map[string]any, v.Len())
		var errz []error
		for _, item := range v.Items() {
			k, ok := item[0].(starlarkLib.String)
			if !ok {
				errz = append(errz, fmt.Errorf("%w: dict key %s is not a string", platform.ErrConversion, item[0]))
				continue
			}
			goVal, err := ToGo(item[1])
			if err != nil {
				errz = append(errz, fmt.Errorf("failed to convert dict value for key %q: %w", string(k), err))
				continue
			}
			m[string(k)] = goVal
		}
		if len(errz) > 0 {
			return nil, errors.Join(errz...)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: unsupported Starlark type %s", platform.ErrConversion, v.Type())
	}
}

func iterableToGo(seq starlarkLib.Indexable, n int) (any, error) {
	list := make([]any, 0, n)
	for i := 0; i < n; i++ {
		elem, err := ToGo(seq.Index(i))
		if err != nil {
			return nil, fmt.Errorf("failed to convert list element %d: %w", i, err)
		}
		list = append(list, elem)
	}
	return list, nil
}

// ToStarlark converts Go input data into a Starlark value.
func ToStarlark(v any) (starlarkLib.Value, error) {
	switch val := v.(type) {
	case nil:
		return starlarkLib.None, nil
	case bool:
		return starlarkLib.Bool(val), nil
	case int:
		return starlarkLib.MakeInt(val), nil
	case int64:
		return starlarkLib.MakeInt64(val), nil
	case float64:
		return starlarkLib.Float(val), nil
	case string:
		return starlarkLib.String(val), nil
	case []string:
		elements := make([]starlarkLib.Value, len(val))
		for i, s := range val {
			elements[i] = starlarkLib.String(s)
		}
		return starlarkLib.NewList(elements), nil
	case []any:
		elements := make([]starlarkLib.Value, len(val))
		for i, elem := range val {
			sv, err := ToStarlark(elem)
			if err != nil {
				return nil, fmt.Errorf("failed to convert list element %d: %w", i, err)
			}
			elements[i] = sv
		}
		return starlarkLib.NewList(elements), nil
	case map[string]any:
		dict := starlarkLib.NewDict(len(val))
		var errz []error
		for k, elem := range val {
			sv, err := ToStarlark(elem)
			if err != nil {
				errz = append(errz, fmt.Errorf("failed to convert input value for key %q: %w", k, err))
				continue
			}
			if err := dict.SetKey(starlarkLib.String(k), sv); err != nil {
				errz = append(errz, fmt.Errorf("failed to set dict key %q: %w", k, err))
			}
		}
		if len(errz) > 0 {
			return nil, errors.Join(errz...)
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported input type %T", v)
	}
}
