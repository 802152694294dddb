package evaluator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/robbyt/go-polyeval/engines/lua/compiler"
	"github.com/robbyt/go-polyeval/engines/lua/internal"
	"github.com/robbyt/go-polyeval/platform"
	"github.com/robbyt/go-polyeval/platform/data"
	"github.com/robbyt/go-polyeval/platform/language"
	"github.com/robbyt/go-polyeval/platform/marshal"
	"github.com/robbyt/go-polyeval/platform/script"
	"github.com/robbyt/go-polyeval/platform/shape"
	lua "github.com/yuin/gopher-lua"
)

// Evaluator runs Lua scripts, each in its own *lua.LState.
type Evaluator struct {
	compiler script.Compiler
	stdout   io.Writer

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a Lua evaluator.
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
	return "lua.Evaluator"
}

// Language implements platform.Backend.
func (e *Evaluator) Language() language.Language {
	return language.Lua
}

// Run implements platform.Backend.
func (e *Evaluator) Run(ctx context.Context, source string, want shape.Shape) (any, error) {
	exe, err := e.compiler.Compile(source)
	if err != nil {
		return nil, err
	}
	return e.Eval(ctx, exe, want)
}

// Eval executes an already compiled chunk and converts its result to want.
func (e *Evaluator) Eval(ctx context.Context, exe script.Executable, want shape.Shape) (any, error) {
	if exe == nil {
		return nil, fmt.Errorf("executable is nil")
	}
	logger := e.logger.With("scriptID", exe.GetID())

	proto, ok := exe.GetByteCode().(*lua.FunctionProto)
	if !ok || proto == nil {
		return nil, fmt.Errorf("invalid bytecode type: expected *lua.FunctionProto, got %T", exe.GetByteCode())
	}

	startTime := time.Now()
	value, err := e.exec(ctx, proto, want)
	logger.DebugContext(ctx, "exec complete", "execTime", time.Since(startTime), "error", err)
	if err != nil {
		return nil, err
	}
	return marshal.Convert(value, want)
}

// exec runs proto in a fresh state and converts the returned values before the
// state is closed.
func (e *Evaluator) exec(ctx context.Context, proto *lua.FunctionProto, want shape.Shape) (any, error) {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		return luaPrint(L, e.stdout)
	}))
	if ioTable, ok := L.GetGlobal("io").(*lua.LTable); ok {
		L.SetField(ioTable, "write", L.NewFunction(func(L *lua.LState) int {
			return luaWrite(L, e.stdout)
		}))
	}

	input, _ := data.FromContext(ctx)
	ctxTable, err := internal.ToLua(L, input)
	if err != nil {
		return nil, fmt.Errorf("failed to convert input data: %w", err)
	}
	if input == nil {
		ctxTable = L.NewTable()
	}
	L.SetGlobal(data.Global, ctxTable)

	L.Push(L.NewFunctionFromProto(proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", platform.ErrCanceled, ctxErr)
		}
		return nil, fmt.Errorf("%w: %w", platform.ErrRuntime, err)
	}

	top := L.GetTop()
	results := make([]lua.LValue, 0, top)
	for i := 1; i <= top; i++ {
		results = append(results, L.Get(i))
	}
	return internal.FromResults(results, want)
}

// luaPrint mirrors Lua's print: arguments converted with tostring, tab separated.
func luaPrint(L *lua.LState, w io.Writer) int {
	top := L.GetTop()
	parts := make([]string, 0, top)
	for i := 1; i <= top; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(w, strings.Join(parts, "\t"))
	return 0
}

// luaWrite mirrors io.write: strings and numbers written as-is, no separators.
func luaWrite(L *lua.LState, w io.Writer) int {
	top := L.GetTop()
	var sb strings.Builder
	for i := 1; i <= top; i++ {
		switch v := L.Get(i).(type) {
		case lua.LString:
			sb.WriteString(string(v))
		case lua.LNumber:
			sb.WriteString(v.String())
		default:
			L.ArgError(i, "string expected, got "+v.Type().String())
			return 0
		}
	}
	fmt.Fprint(w, sb.String())
	return 0
}
