package compiler

import (
	"github.com/dop251/goja"
	"github.com/robbyt/go-polyeval/platform/language"
	"github.com/robbyt/go-polyeval/platform/script"
)

// Executable holds a compiled JavaScript program. A *goja.Program is immutable
// and may be run by any number of runtimes.
type Executable struct {
	id      string
	source  string
	program *goja.Program
}

func newExecutable(source string, program *goja.Program) *Executable {
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

// GetGojaProgram returns the compiled program with its concrete type.
func (e *Executable) GetGojaProgram() *goja.Program {
	return e.program
}

func (e *Executable) GetLanguage() language.Language {
	return language.JavaScript
}
