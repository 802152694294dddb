package compiler

import (
	"github.com/robbyt/go-polyeval/platform/language"
	"github.com/robbyt/go-polyeval/platform/script"
	lua "github.com/yuin/gopher-lua"
)

// Executable holds a compiled Lua chunk.
type Executable struct {
	id     string
	source string
	proto  *lua.FunctionProto
}

func newExecutable(source string, proto *lua.FunctionProto) *Executable {
	return &Executable{
		id:     script.NewID(source),
		source: source,
		proto:  proto,
	}
}

func (e *Executable) GetID() string {
	return e.id
}

func (e *Executable) GetSource() string {
	return e.source
}

func (e *Executable) GetByteCode() any {
	return e.proto
}

// GetLuaProto returns the compiled function prototype with its concrete type.
func (e *Executable) GetLuaProto() *lua.FunctionProto {
	return e.proto
}

func (e *Executable) GetLanguage() language.Language {
	return language.Lua
}
