package evaluator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/robbyt/go-polyeval/engines/starlark/compiler"
	"github.com/robbyt/go-polyeval/engines/starlark/internal"
	"github.com/robbyt/go-polyeval/platform"
	"github.com/robbyt/go-polyeval/platform/data"
	"github.com/robbyt/go-polyeval/platform/language"
	"github.com/robbyt/go-polyeval/platform/marshal"
	"github.com/robbyt/go-polyeval/platform/script"
	"github.com/robbyt/go-polyeval/platform/shape"
	starlarkLib "go.starlark.net/starlark"
)

// Result globals, checked in order.
const (
	resultUnderscore = "_"
	resultNamed      = "result"
)

// Evaluator runs Starlark programs, each on its own thread. The value of a script is
// its "_" global, else its "result" global, else None. A callable value is invoked
// with no arguments and its return value used instead.
type Evaluator struct {
	compiler script.Compiler
	stdout   io.Writer

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a Starlark evaluator.
func New(opts ...FunctionalOption) (*Evaluator, error) {
	e := &Evaluator{}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	e.applyDefaults()
	e.setupLogger()
	e.compiler = compiler.New(e.logHandler)
	return e, nil
}

func (e *Evaluator) String() string {
	return "starlark.Evaluator"
}

// Language implements platform.Backend.
func (e *Evaluator) Language() language.Language {
	return language.Starlark
}

// Run implements platform.Backend.
func (e *Evaluator) Run(ctx context.Context, source string, want shape.Shape) (any, error) {
	exe, err := e.compiler.Compile(source)
	if err != nil {
		return nil, err
	}
	return e.Eval(ctx, exe, want)
}

// Eval executes an already compiled program and converts its result to want.
func (e *Evaluator) Eval(ctx context.Context, exe script.Executable, want shape.Shape) (any, error) {
	if exe == nil {
		return nil, fmt.Errorf("executable is nil")
	}
	logger := e.logger.With("scriptID", exe.GetID())

	program, ok := exe.GetByteCode().(*starlarkLib.Program)
	if !ok || program == nil {
		return nil, fmt.Errorf("invalid bytecode type: expected *starlark.Program, got %T", exe.GetByteCode())
	}

	startTime := time.Now()
	value, err := e.exec(ctx, program)
	logger.DebugContext(ctx, "exec complete", "execTime", time.Since(startTime), "error", err)
	if err != nil {
		return nil, err
	}
	return marshal.Convert(value, want)
}

func (e *Evaluator) exec(ctx context.Context, program *starlarkLib.Program) (any, error) {
	predeclared, err := e.predeclared(ctx)
	if err != nil {
		return nil, err
	}

	thread := &starlarkLib.Thread{
		Name: "polyeval",
		Print: func(_ *starlarkLib.Thread, msg string) {
			fmt.Fprintln(e.stdout, msg)
		},
	}
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(ctx.Err().Error())
	})
	defer stop()

	globals, err := program.Init(thread, predeclared)
	if err != nil {
		return nil, e.execError(ctx, err)
	}

	value, found := globals[resultUnderscore]
	if !found {
		value, found = globals[resultNamed]
	}
	if !found {
		return nil, nil
	}

	if fn, ok := value.(starlarkLib.Callable); ok {
		value, err = starlarkLib.Call(thread, fn, nil, nil)
		if err != nil {
			return nil, e.execError(ctx, err)
		}
	}
	return internal.ToGo(value)
}

// predeclared builds the per-call globals, exposing the input data as a dict.
func (e *Evaluator) predeclared(ctx context.Context) (starlarkLib.StringDict, error) {
	globals := internal.StarlarkModules()

	input, ok := data.FromContext(ctx)
	if !ok {
		input = map[string]any{}
	}
	ctxDict, err := internal.ToStarlark(input)
	if err != nil {
		return nil, fmt.Errorf("failed to convert input data: %w", err)
	}
	globals[data.Global] = ctxDict
	return globals, nil
}

func (e *Evaluator) execError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", platform.ErrCanceled, ctxErr)
	}
	var evalErr *starlarkLib.EvalError
	if errors.As(err, &evalErr) {
		e.logger.DebugContext(ctx, "starlark backtrace", "backtrace", evalErr.Backtrace())
	}
	return fmt.Errorf("%w: %w", platform.ErrRuntime, err)
}
