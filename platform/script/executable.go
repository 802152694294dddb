// Package script defines the compile step shared by every backend: source text in,
// an Executable holding the engine's compiled program out.
package script

import (
	"github.com/robbyt/go-polyeval/internal/helpers"
	"github.com/robbyt/go-polyeval/platform/language"
)

// Executable is a compiled script, ready to run in a fresh execution context.
type Executable interface {
	// GetID returns a short content hash used to correlate log lines.
	GetID() string

	// GetSource returns the script text the program was compiled from.
	GetSource() string

	// GetByteCode returns the engine's compiled program. The evaluator for
	// GetLanguage asserts it into its concrete type.
	GetByteCode() any

	// GetLanguage returns the language the program was compiled for.
	GetLanguage() language.Language
}

// Compiler turns script text into an Executable.
type Compiler interface {
	Compile(source string) (Executable, error)
}

// NewID derives the id used by GetID from script source.
func NewID(source string) string {
	return helpers.SHA256(source)[:12]
}
