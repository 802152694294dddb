package compiler

import (
	"fmt"
	"log/slog"

	"github.com/dop251/goja"
	"github.com/robbyt/go-polyeval/internal/helpers"
	"github.com/robbyt/go-polyeval/platform"
	"github.com/robbyt/go-polyeval/platform/script"
)

const scriptName = "<script>"

// Compiler compiles JavaScript source with goja.
type Compiler struct {
	strict bool
	logger *slog.Logger
}

// New creates a JavaScript compiler. Strict mode applies "use strict" semantics to
// every script.
func New(handler slog.Handler, strict bool) *Compiler {
	_, logger := helpers.SetupLogger(handler, "javascript", "Compiler")
	return &Compiler{strict: strict, logger: logger}
}

func (c *Compiler) String() string {
	return "javascript.Compiler"
}

// Compile parses source as a single top-level script.
func (c *Compiler) Compile(source string) (script.Executable, error) {
	program, err := goja.Compile(scriptName, source, c.strict)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", platform.ErrSyntax, err)
	}

	exe := newExecutable(source, program)
	c.logger.Debug("script compiled", "scriptID", exe.GetID(), "strict", c.strict)
	return exe, nil
}
