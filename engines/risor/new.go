// Package risor provides the Risor backend, built on github.com/risor-io/risor.
package risor

import (
	"log/slog"

	"github.com/robbyt/go-polyeval/engines/risor/compiler"
	"github.com/robbyt/go-polyeval/engines/risor/evaluator"
)

// New creates a Risor backend. It implements platform.Backend.
func New(opts ...evaluator.FunctionalOption) (*evaluator.Evaluator, error) {
	return evaluator.New(opts...)
}

// NewCompiler creates a standalone Risor compiler.
func NewCompiler(handler slog.Handler) *compiler.Compiler {
	return compiler.New(handler)
}
