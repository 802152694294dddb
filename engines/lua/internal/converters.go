package internal

import (
	"errors"
	"fmt"
	"math"

	"github.com/robbyt/go-polyeval/platform"
	"github.com/robbyt/go-polyeval/platform/shape"
	lua "github.com/yuin/gopher-lua"
)

// FromResults reduces the values a chunk returned to the single neutral Go value
// the marshaller expects. Unit accepts no values or a lone nil; every other shape
// needs exactly one returned value.
func FromResults(results []lua.LValue, want shape.Shape) (any, error) {
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return ToGo(results[0], want == shape.Map)
	default:
		return nil, fmt.Errorf("%w: script returned %d values, want 1", platform.ErrConversion, len(results))
	}
}

// ToGo converts a Lua value to nil, bool, int64, float64, string, []any or
// map[string]any. Integral numbers become int64. A table whose keys are exactly
// 1..n becomes []any, a table with only string keys becomes map[string]any, and an
// empty table becomes whichever of the two preferMap selects.
func ToGo(v lua.LValue, preferMap bool) (any, error) {
	switch v := v.(type) {
	case nil, *lua.LNilType:
		return nil, nil
	case lua.LBool:
		return bool(v), nil
	case lua.LNumber:
		return numberToGo(float64(v)), nil
	case lua.LString:
		return string(v), nil
	case *lua.LTable:
		return tableToGo(v, preferMap)
	default:
		return nil, fmt.Errorf("%w: unsupported Lua type %s", platform.ErrConversion, v.Type())
	}
}

// maxExactInt bounds the integers a float64 holds exactly. Larger integral
// numbers stay float64 so they can still be read as floats.
const maxExactInt = 1 << 53

func numberToGo(f float64) any {
	if f == math.Trunc(f) && f >= -maxExactInt && f <= maxExactInt {
		return int64(f)
	}
	return f
}

func tableToGo(t *lua.LTable, preferMap bool) (any, error) {
	count := 0
	stringKeys := true
	t.ForEach(func(k, _ lua.LValue) {
		count++
		if k.Type() != lua.LTString {
			stringKeys = false
		}
	})

	if count == 0 {
		if preferMap {
			return map[string]any{}, nil
		}
		return []any{}, nil
	}

	if n := t.Len(); n == count {
		list := make([]any, 0, n)
		for i := 1; i <= n; i++ {
			elem := t.RawGetInt(i)
			if elem == lua.LNil {
				return nil, fmt.Errorf("%w: table has a hole at index %d", platform.ErrConversion, i)
			}
			goVal, err := ToGo(elem, false)
			if err != nil {
				return nil, fmt.Errorf("failed to convert list element %d: %w", i, err)
			}
			list = append(list, goVal)
		}
		return list, nil
	}

	if !stringKeys {
		return nil, fmt.Errorf("%w: table mixes sequence and non-string keys", platform.ErrConversion)
	}

	m := make(map[string]any, count)
	var errz []error
	t.ForEach(func(k, v lua.LValue) {
		goVal, err := ToGo(v, false)
		if err != nil {
			errz = append(errz, fmt.Errorf("failed to convert table value for key %q: %w", k.String(), err))
			return
		}
		m[k.String()] = goVal
	})
	if len(errz) > 0 {
		return nil, errors.Join(errz...)
	}
	return m, nil
}

// ToLua converts Go input data into a Lua value owned by L.
func ToLua(L *lua.LState, v any) (lua.LValue, error) {
	switch val := v.(type) {
	case nil:
		return lua.LNil, nil
	case bool:
		return lua.LBool(val), nil
	case int:
		return lua.LNumber(val), nil
	case int64:
		return lua.LNumber(val), nil
	case float64:
		return lua.LNumber(val), nil
	case string:
		return lua.LString(val), nil
	case []string:
		tbl := L.CreateTable(len(val), 0)
		for _, s := range val {
			tbl.Append(lua.LString(s))
		}
		return tbl, nil
	case []any:
		tbl := L.CreateTable(len(val), 0)
		for i, elem := range val {
			lv, err := ToLua(L, elem)
			if err != nil {
				return nil, fmt.Errorf("failed to convert list element %d: %w", i, err)
			}
			tbl.Append(lv)
		}
		return tbl, nil
	case map[string]any:
		tbl := L.CreateTable(0, len(val))
		var errz []error
		for k, elem := range val {
			lv, err := ToLua(L, elem)
			if err != nil {
				errz = append(errz, fmt.Errorf("failed to convert input value for key %q: %w", k, err))
				continue
			}
			tbl.RawSetString(k, lv)
		}
		if len(errz) > 0 {
			return nil, errors.Join(errz...)
		}
		return tbl, nil
	default:
		return nil, fmt.Errorf("unsupported input type %T", v)
	}
}
