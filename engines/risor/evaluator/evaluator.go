package evaluator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	risorLib "github.com/risor-io/risor"
	risorCompiler "github.com/risor-io/risor/compiler"
	"github.com/risor-io/risor/object"
	"github.com/robbyt/go-polyeval/engines/risor/compiler"
	"github.com/robbyt/go-polyeval/engines/risor/internal"
	"github.com/robbyt/go-polyeval/platform"
	"github.com/robbyt/go-polyeval/platform/data"
	"github.com/robbyt/go-polyeval/platform/language"
	"github.com/robbyt/go-polyeval/platform/marshal"
	"github.com/robbyt/go-polyeval/platform/script"
	"github.com/robbyt/go-polyeval/platform/shape"
)

// Evaluator runs Risor bytecode, each call on a fresh VM. The value of a script is
// the value of its last expression.
type Evaluator struct {
	compiler script.Compiler
	stdout   io.Writer

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a Risor evaluator.
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
	return "risor.Evaluator"
}

// Language implements platform.Backend.
func (e *Evaluator) Language() language.Language {
	return language.Risor
}

// Run implements platform.Backend.
func (e *Evaluator) Run(ctx context.Context, source string, want shape.Shape) (any, error) {
	exe, err := e.compiler.Compile(source)
	if err != nil {
		return nil, err
	}
	return e.Eval(ctx, exe, want)
}

// Eval executes already compiled bytecode and converts its result to want.
func (e *Evaluator) Eval(ctx context.Context, exe script.Executable, want shape.Shape) (any, error) {
	if exe == nil {
		return nil, fmt.Errorf("executable is nil")
	}
	logger := e.logger.With("scriptID", exe.GetID())

	byteCode, ok := exe.GetByteCode().(*risorCompiler.Code)
	if !ok || byteCode == nil {
		return nil, fmt.Errorf("invalid bytecode type: expected *compiler.Code, got %T", exe.GetByteCode())
	}

	startTime := time.Now()
	value, err := e.exec(ctx, byteCode)
	logger.DebugContext(ctx, "exec complete", "execTime", time.Since(startTime), "error", err)
	if err != nil {
		return nil, err
	}
	return marshal.Convert(value, want)
}

func (e *Evaluator) exec(ctx context.Context, byteCode *risorCompiler.Code) (any, error) {
	input, ok := data.FromContext(ctx)
	if !ok {
		input = map[string]any{}
	}
	ctxObj, err := internal.ToRisor(input)
	if err != nil {
		return nil, fmt.Errorf("failed to convert input data: %w", err)
	}

	result, err := risorLib.EvalCode(ctx, byteCode,
		risorLib.WithGlobal(data.Global, ctxObj),
		risorLib.WithGlobalOverride("print", object.NewBuiltin("print", e.print)),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", platform.ErrCanceled, ctxErr)
		}
		return nil, fmt.Errorf("%w: %w", platform.ErrRuntime, err)
	}
	return internal.ToGo(result)
}

// print writes its arguments separated by spaces. Strings are written unquoted.
func (e *Evaluator) print(_ context.Context, args ...object.Object) object.Object {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		if s, ok := arg.(*object.String); ok {
			parts = append(parts, s.Value())
			continue
		}
		parts = append(parts, arg.Inspect())
	}
	fmt.Fprintln(e.stdout, strings.Join(parts, " "))
	return object.Nil
}
