// Package javascript provides the JavaScript backend, built on github.com/dop251/goja.
package javascript

import (
	"log/slog"

	"github.com/robbyt/go-polyeval/engines/javascript/compiler"
	"github.com/robbyt/go-polyeval/engines/javascript/evaluator"
)

// New creates a JavaScript backend. It implements platform.Backend.
func New(opts ...evaluator.FunctionalOption) (*evaluator.Evaluator, error) {
	return evaluator.New(opts...)
}

// NewCompiler creates a standalone JavaScript compiler.
func NewCompiler(handler slog.Handler, strict bool) *compiler.Compiler {
	return compiler.New(handler, strict)
}
