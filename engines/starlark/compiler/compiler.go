package compiler

import (
	"fmt"
	"log/slog"

	"github.com/robbyt/go-polyeval/engines/starlark/internal"
	"github.com/robbyt/go-polyeval/internal/helpers"
	"github.com/robbyt/go-polyeval/platform"
	"github.com/robbyt/go-polyeval/platform/script"
	starlarkLib "go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

const scriptName = "<script>"

// Compiler parses and resolves Starlark source against the standard module set.
type Compiler struct {
	fileOptions *syntax.FileOptions
	globals     starlarkLib.StringDict
	logger      *slog.Logger
}

// New creates a Starlark compiler. Top-level control flow, while loops, recursion
// and global reassignment are enabled.
func New(handler slog.Handler) *Compiler {
	_, logger := helpers.SetupLogger(handler, "starlark", "Compiler")
	return &Compiler{
		fileOptions: &syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
			Recursion:       true,
		},
		globals: internal.StarlarkModules(),
		logger:  logger,
	}
}

func (c *Compiler) String() string {
	return "starlark.Compiler"
}

// Compile parses source and resolves it into a program.
func (c *Compiler) Compile(source string) (script.Executable, error) {
	file, err := c.fileOptions.Parse(scriptName, source, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", platform.ErrSyntax, err)
	}

	program, err := starlarkLib.FileProgram(file, c.globals.Has)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", platform.ErrSyntax, err)
	}

	exe := newExecutable(source, program)
	c.logger.Debug("script compiled", "scriptID", exe.GetID())
	return exe, nil
}
