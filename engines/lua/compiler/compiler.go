package compiler

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/robbyt/go-polyeval/internal/helpers"
	"github.com/robbyt/go-polyeval/platform"
	"github.com/robbyt/go-polyeval/platform/script"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// chunkName prefixes positions in Lua error messages.
const chunkName = "<script>"

// Compiler parses Lua source into a function prototype.
type Compiler struct {
	logger *slog.Logger
}

// New creates a Lua compiler. A nil handler falls back to the default logger.
func New(handler slog.Handler) *Compiler {
	_, logger := helpers.SetupLogger(handler, "lua", "Compiler")
	return &Compiler{logger: logger}
}

func (c *Compiler) String() string {
	return "lua.Compiler"
}

// Compile parses and compiles source as a single Lua chunk.
func (c *Compiler) Compile(source string) (script.Executable, error) {
	chunk, err := parse.Parse(strings.NewReader(source), chunkName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", platform.ErrSyntax, &syntaxError{cause: err})
	}

	proto, err := lua.Compile(chunk, chunkName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", platform.ErrSyntax, &syntaxError{cause: err})
	}

	exe := newExecutable(source, proto)
	c.logger.Debug("script compiled", "scriptID", exe.GetID())
	return exe, nil
}
