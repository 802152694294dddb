package compiler

import (
	risorCompiler "github.com/risor-io/risor/compiler"
	"github.com/robbyt/go-polyeval/platform/language"
	"github.com/robbyt/go-polyeval/platform/script"
)

// Executable holds compiled Risor bytecode.
type Executable struct {
	id       string
	source   string
	byteCode *risorCompiler.Code
}

func newExecutable(source string, byteCode *risorCompiler.Code) *Executable {
	return &Executable{
		id:       script.NewID(source),
		source:   source,
		byteCode: byteCode,
	}
}

func (e *Executable) GetID() string {
	return e.id
}

func (e *Executable) GetSource() string {
	return e.source
}

func (e *Executable) GetByteCode() any {
	return e.byteCode
}

// GetRisorByteCode returns the bytecode with its concrete type.
func (e *Executable) GetRisorByteCode() *risorCompiler.Code {
	return e.byteCode
}

func (e *Executable) GetLanguage() language.Language {
	return language.Risor
}
