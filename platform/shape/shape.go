// Package shape describes the host value a caller asks an evaluation to produce.
package shape

import "fmt"

// Shape is the canonical descriptor of a requested host type.
type Shape int

const (
	// Unit requests no value, for scripts run only for their side effects.
	Unit Shape = iota
	Bool
	Int
	Float
	String
	// StringList is an ordered sequence of UTF-8 strings.
	StringList
	// Map is a string-keyed table or object.
	Map
)

func (s Shape) String() string {
	switch s {
	case Unit:
		return "unit"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case StringList:
		return "[]string"
	case Map:
		return "map"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// None is the host type for "no value".
type None struct{}

// Scriptable lists the host types every backend can produce. It is the type-level
// intersection of the backends' marshalling capabilities.
type Scriptable interface {
	None | bool | int64 | float64 | string | []string | map[string]any
}

// Of returns the shape descriptor for T.
func Of[T Scriptable]() Shape {
	var zero T
	switch any(zero).(type) {
	case None:
		return Unit
	case bool:
		return Bool
	case int64:
		return Int
	case float64:
		return Float
	case string:
		return String
	case []string:
		return StringList
	default:
		return Map
	}
}

// Zero returns the host zero value for s, typed the way a marshaller would return it.
func Zero(s Shape) any {
	switch s {
	case Bool:
		return false
	case Int:
		return int64(0)
	case Float:
		return float64(0)
	case String:
		return ""
	case StringList:
		return []string(nil)
	case Map:
		return map[string]any(nil)
	default:
		return None{}
	}
}
