package compiler

import (
	"github.com/robbyt/go-polyeval/platform/language"
	"github.com/robbyt/go-polyeval/platform/script"
	starlarkLib "go.starlark.net/starlark"
)

// Executable holds a compiled Starlark program.
type Executable struct {
	id      string
	source  string
	program *starlarkLib.Program
}

func newExecutable(source string, program *starlarkLib.Program) *Executable {
	return &Executable{
		id:      script.NewID(source),
		source:  source,
		program: program,
	}
}

func (e *Executable) GetID() string {
	return e.id
}

func (e *Executable) GetSource() string {
	return e.source
}

func (e *Executable) GetByteCode() any {
	return e.program
}

// GetStarlarkByteCode returns the compiled program with its concrete type.
func (e *Executable) GetStarlarkByteCode() *starlarkLib.Program {
	return e.program
}

func (e *Executable) GetLanguage() language.Language {
	return language.Starlark
}
