package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	risorLib "github.com/risor-io/risor"
	risorCompiler "github.com/risor-io/risor/compiler"
	risorErrors "github.com/risor-io/risor/errz"
	risorParser "github.com/risor-io/risor/parser"
	"github.com/robbyt/go-polyeval/internal/helpers"
	"github.com/robbyt/go-polyeval/platform"
	"github.com/robbyt/go-polyeval/platform/data"
	"github.com/robbyt/go-polyeval/platform/script"
)

// Compiler parses and compiles Risor source into bytecode.
type Compiler struct {
	globalNames []string
	logger      *slog.Logger
}

// New creates a Risor compiler. Scripts may reference the default Risor globals and
// the input data global.
func New(handler slog.Handler) *Compiler {
	_, logger := helpers.SetupLogger(handler, "risor", "Compiler")
	return &Compiler{
		globalNames: append(risorLib.NewConfig().GlobalNames(), data.Global),
		logger:      logger,
	}
}

func (c *Compiler) String() string {
	return "risor.Compiler"
}

// Compile parses and compiles source.
func (c *Compiler) Compile(source string) (script.Executable, error) {
	ast, err := risorParser.Parse(context.Background(), source)
	if err != nil {
		errMsg := err.Error()
		var friendlyErr risorErrors.FriendlyError
		if errors.As(err, &friendlyErr) {
			errMsg = friendlyErr.FriendlyErrorMessage()
		}
		return nil, fmt.Errorf("%w: %s", platform.ErrSyntax, errMsg)
	}

	byteCode, err := risorCompiler.Compile(ast, risorCompiler.WithGlobalNames(c.globalNames))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", platform.ErrSyntax, err)
	}

	exe := newExecutable(source, byteCode)
	c.logger.Debug("script compiled", "scriptID", exe.GetID())
	return exe, nil
}
