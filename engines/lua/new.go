// Package lua provides the Lua backend, built on github.com/yuin/gopher-lua.
package lua

import (
	"log/slog"

	"github.com/robbyt/go-polyeval/engines/lua/compiler"
	"github.com/robbyt/go-polyeval/engines/lua/evaluator"
)

// New creates a Lua backend. It implements platform.Backend.
func New(opts ...evaluator.FunctionalOption) (*evaluator.Evaluator, error) {
	return evaluator.New(opts...)
}

// NewCompiler creates a standalone Lua compiler, useful for validating scripts
// without running them.
func NewCompiler(handler slog.Handler) *compiler.Compiler {
	return compiler.New(handler)
}
