package internal

import (
	"maps"

	"github.com/robbyt/go-polyeval/platform/data"
	starlarkJSON "go.starlark.net/lib/json"
	starlarkMath "go.starlark.net/lib/math"
	starlarkTime "go.starlark.net/lib/time"
	starlarkLib "go.starlark.net/starlark"
)

// Module namespaces; the compiler and the evaluator must agree on them.
const (
	namespaceJSON = "json"
	namespaceMath = "math"
	namespaceTime = "time"
)

// StarlarkModules returns a copy of the Starlark universe plus the json, math and
// time modules, with the input data global predeclared as None.
func StarlarkModules() starlarkLib.StringDict {
	universe := maps.Clone(starlarkLib.Universe)
	universe[namespaceJSON] = starlarkJSON.Module
	universe[namespaceMath] = starlarkMath.Module
	universe[namespaceTime] = starlarkTime.Module
	universe[data.Global] = starlarkLib.None
	return universe
}
