// Package language defines the scripting languages a dispatcher can route to.
package language

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLanguage is returned by Parse for names that match no language.
var ErrUnknownLanguage = errors.New("unknown language")

// Language selects the backend that evaluates a script.
type Language int

const (
	// Unspecified is the zero value and is never routable.
	Unspecified Language = iota
	// Lua scripts are evaluated with gopher-lua.
	Lua
	// JavaScript scripts are evaluated with goja.
	JavaScript
	// Starlark scripts are evaluated with go.starlark.net.
	Starlark
	// Risor scripts are evaluated with the Risor VM.
	Risor
)

// All returns every routable language in declaration order.
func All() []Language {
	return []Language{Lua, JavaScript, Starlark, Risor}
}

// String returns the display name used when rendering evaluation errors.
func (l Language) String() string {
	switch l {
	case Unspecified:
		return "Unspecified"
	case Lua:
		return "Lua"
	case JavaScript:
		return "JavaScript"
	case Starlark:
		return "Starlark"
	case Risor:
		return "Risor"
	default:
		return fmt.Sprintf("Unknown(%d)", int(l))
	}
}

// Parse resolves a configuration name such as "lua" or "js" to a Language.
func Parse(name string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lua":
		return Lua, nil
	case "js", "javascript", "ecmascript":
		return JavaScript, nil
	case "star", "starlark":
		return Starlark, nil
	case "risor":
		return Risor, nil
	default:
		return Unspecified, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
	}
}
