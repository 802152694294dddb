package internal

import (
	"errors"
	"fmt"

	"github.com/risor-io/risor/object"
	"github.com/robbyt/go-polyeval/platform"
)

// ToGo converts a Risor object to nil, bool, int64, float64, string, []any or
// map[string]any. Error objects become platform.ErrRuntime failures; functions and
// other objects fail with platform.ErrConversion.
func ToGo(obj object.Object) (any, error) {
	switch v := obj.(type) {
	case nil, *object.NilType:
		return nil, nil
	case *object.Bool:
		return v.Value(), nil
	case *object.Int:
		return v.Value(), nil
	case *object.Float:
		return v.Value(), nil
	case *object.String:
		return v.Value(), nil
	case *object.List:
		items := v.Value()
		list := make([]any, 0, len(items))
		for i, item := range items {
			goVal, err := ToGo(item)
			if err != nil {
				return nil, fmt.Errorf("failed to convert list element %d: %w", i, err)
			}
			list = append(list, goVal)
		}
		return list, nil
	case *object.Map:
		m := make(map[string]any, len(v.Value()))
		var errz []error
		for k, item := range v.Value() {
			goVal, err := ToGo(item)
			if err != nil {
				errz = append(errz, fmt.Errorf("failed to convert map value for key %q: %w", k, err))
				continue
			}
			m[k] = goVal
		}
		if len(errz) > 0 {
			return nil, errors.Join(errz...)
		}
		return m, nil
	case *object.Error:
		return nil, fmt.Errorf("%w: error returned from script: %w", platform.ErrRuntime, v.Value())
	default:
		return nil, fmt.Errorf("%w: unsupported Risor type %s", platform.ErrConversion, obj.Type())
	}
}

// ToRisor converts Go input data into a Risor object.
func ToRisor(v any) (object.Object, error) {
	switch val := v.(type) {
	case nil:
		return object.Nil, nil
	case bool:
		return object.NewBool(val), nil
	case int:
		return object.NewInt(int64(val)), nil
	case int64:
		return object.NewInt(val), nil
	case float64:
		return object.NewFloat(val), nil
	case string:
		return object.NewString(val), nil
	case []string:
		items := make([]object.Object, len(val))
		for i, s := range val {
			items[i] = object.NewString(s)
		}
		return object.NewList(items), nil
	case []any:
		items := make([]object.Object, len(val))
		for i, elem := range val {
			obj, err := ToRisor(elem)
			if err != nil {
				return nil, fmt.Errorf("failed to convert list element %d: %w", i, err)
			}
			items[i] = obj
		}
		return object.NewList(items), nil
	case map[string]any:
		items := make(map[string]object.Object, len(val))
		var errz []error
		for k, elem := range val {
			obj, err := ToRisor(elem)
			if err != nil {
				errz = append(errz, fmt.Errorf("failed to convert input value for key %q: %w", k, err))
				continue
			}
			items[k] = obj
		}
		if len(errz) > 0 {
			return nil, errors.Join(errz...)
		}
		return object.NewMap(items), nil
	default:
		return nil, fmt.Errorf("unsupported input type %T", v)
	}
}
