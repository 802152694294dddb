package evaluator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/robbyt/go-polyeval/engines/javascript/compiler"
	"github.com/robbyt/go-polyeval/engines/javascript/internal"
	"github.com/robbyt/go-polyeval/platform"
	"github.com/robbyt/go-polyeval/platform/data"
	"github.com/robbyt/go-polyeval/platform/language"
	"github.com/robbyt/go-polyeval/platform/marshal"
	"github.com/robbyt/go-polyeval/platform/script"
	"github.com/robbyt/go-polyeval/platform/shape"
)

// Evaluator runs JavaScript scripts, each in its own *goja.Runtime. The value of a
// script is its completion value, i.e. the value of the last expression statement.
type Evaluator struct {
	compiler script.Compiler
	stdout   io.Writer
	strict   bool

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a JavaScript evaluator.
func New(opts ...FunctionalOption) (*Evaluator, error) {
	e := &Evaluator{}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	e.applyDefaults()
	e.setupLogger()
	e.compiler = compiler.New(e.logHandler, e.strict)
	return e, nil
}

func (e *Evaluator) String() string {
	return "javascript.Evaluator"
}

// Language implements platform.Backend.
func (e *Evaluator) Language() language.Language {
	return language.JavaScript
}

// Run implements platform.Backend.
func (e *Evaluator) Run(ctx context.Context, source string, want shape.Shape) (any, error) {
	exe, err := e.compiler.Compile(source)
	if err != nil {
		return nil, err
	}
	return e.Eval(ctx, exe, want)
}

// Eval executes an already compiled program and converts its completion value.
func (e *Evaluator) Eval(ctx context.Context, exe script.Executable, want shape.Shape) (any, error) {
	if exe == nil {
		return nil, fmt.Errorf("executable is nil")
	}
	logger := e.logger.With("scriptID", exe.GetID())

	program, ok := exe.GetByteCode().(*goja.Program)
	if !ok || program == nil {
		return nil, fmt.Errorf("invalid bytecode type: expected *goja.Program, got %T", exe.GetByteCode())
	}

	startTime := time.Now()
	value, err := e.exec(ctx, program)
	logger.DebugContext(ctx, "exec complete", "execTime", time.Since(startTime), "error", err)
	if err != nil {
		return nil, err
	}
	return marshal.Convert(value, want)
}

func (e *Evaluator) exec(ctx context.Context, program *goja.Program) (any, error) {
	vm := goja.New()
	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(ctx.Err())
	})
	defer stop()

	if err := e.installGlobals(ctx, vm); err != nil {
		return nil, err
	}

	result, err := vm.RunProgram(program)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %w", platform.ErrCanceled, ctxErr)
			}
			return nil, fmt.Errorf("%w: %w", platform.ErrCanceled, err)
		}
		return nil, fmt.Errorf("%w: %w", platform.ErrRuntime, err)
	}
	return internal.ToGo(result)
}

// installGlobals exposes print, console.log and the per-call input data.
func (e *Evaluator) installGlobals(ctx context.Context, vm *goja.Runtime) error {
	printFn := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			parts = append(parts, arg.String())
		}
		fmt.Fprintln(e.stdout, strings.Join(parts, " "))
		return goja.Undefined()
	}

	console := vm.NewObject()
	input, ok := data.FromContext(ctx)
	if !ok {
		input = map[string]any{}
	}

	errz := []error{
		console.Set("log", printFn),
		vm.Set("console", console),
		vm.Set("print", printFn),
		vm.Set(data.Global, input),
	}
	if err := errors.Join(errz...); err != nil {
		return fmt.Errorf("failed to install globals: %w", err)
	}
	return nil
}
