// Package starlark provides the Starlark backend, built on go.starlark.net.
package starlark

import (
	"log/slog"

	"github.com/robbyt/go-polyeval/engines/starlark/compiler"
	"github.com/robbyt/go-polyeval/engines/starlark/evaluator"
)

// New creates a Starlark backend. It implements platform.Backend.
func New(opts ...evaluator.FunctionalOption) (*evaluator.Evaluator, error) {
	return evaluator.New(opts...)
}

// NewCompiler creates a standalone Starlark compiler.
func NewCompiler(handler slog.Handler) *compiler.Compiler {
	return compiler.New(handler)
}
