package evaluator

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/robbyt/go-polyeval/platform"
	"github.com/robbyt/go-polyeval/platform/data"
	"github.com/robbyt/go-polyeval/platform/language"
	"github.com/robbyt/go-polyeval/platform/script"
	"github.com/robbyt/go-polyeval/platform/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvaluator(t *testing.T, stdout *bytes.Buffer) *Evaluator {
	t.Helper()
	opts := []FunctionalOption{WithLogHandler(slog.NewTextHandler(os.Stderr, nil))}
	if stdout != nil {
		opts = append(opts, WithStdout(stdout))
	}
	e, err := New(opts...)
	require.NoError(t, err)
	return e
}

func TestEvaluator_Run(t *testing.T) {
	t.Parallel()

	t.Run("success cases", func(t *testing.T) {
		tests := []struct {
			name     string
			script   string
			want     shape.Shape
			expected any
		}{
			{"list of strings", `["one", "two"]`, shape.StringList, []string{"one", "two"}},
			{"string", `"Hello world"`, shape.String, "Hello world"},
			{"int", `40 + 2`, shape.Int, int64(42)},
			{"float", `1.5`, shape.Float, 1.5},
			{"bool", `1 < 2`, shape.Bool, true},
			{"map", "m := {\"name\": \"risor\", \"n\": 3}\nm", shape.Map, map[string]any{"name": "risor", "n": int64(3)}},
			{"function call", "func main() { return \"hi\" }\nmain()", shape.String, "hi"},
			{"nil", `nil`, shape.Unit, shape.None{}},
			{"empty script", ``, shape.Unit, shape.None{}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				e := newTestEvaluator(t, nil)
				got, err := e.Run(context.Background(), tt.script, tt.want)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			})
		}
	})

	t.Run("print writes to stdout", func(t *testing.T) {
		var stdout bytes.Buffer
		e := newTestEvaluator(t, &stdout)

		got, err := e.Run(context.Background(), `print("Hello world")`, shape.Unit)
		require.NoError(t, err)
		assert.Equal(t, shape.None{}, got)
		assert.Equal(t, "Hello world\n", stdout.String())
	})

	t.Run("error cases", func(t *testing.T) {
		tests := []struct {
			name     string
			script   string
			want     shape.Shape
			sentinel error
			message  string
		}{
			{"syntax error", `1 +`, shape.Int, platform.ErrSyntax, ""},
			{"error object", `error("boom")`, shape.Unit, platform.ErrRuntime, "boom"},
			{"wrong shape", `1`, shape.String, platform.ErrConversion, "cannot convert int to string"},
			{"mixed list", `["one", 2]`, shape.StringList, platform.ErrConversion, "element 1 is int"},
			{"function value", `func() { return 1 }`, shape.String, platform.ErrConversion, "unsupported Risor type"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				e := newTestEvaluator(t, &bytes.Buffer{})
				got, err := e.Run(context.Background(), tt.script, tt.want)
				require.Error(t, err)
				require.Nil(t, got)
				require.True(t, errors.Is(err, tt.sentinel), "expected %v, got %v", tt.sentinel, err)
				if tt.message != "" {
					assert.Contains(t, err.Error(), tt.message)
				}
			})
		}
	})

	t.Run("input data", func(t *testing.T) {
		e := newTestEvaluator(t, nil)
		ctx, err := data.AddToContext(context.Background(), map[string]any{
			"name":  "World",
			"items": []any{"a", "b"},
		})
		require.NoError(t, err)

		got, err := e.Run(ctx, `sprintf("Hello %s %d", ctx["name"], len(ctx["items"]))`, shape.String)
		require.NoError(t, err)
		assert.Equal(t, "Hello World 2", got)
	})

	t.Run("ctx is an empty map without input", func(t *testing.T) {
		e := newTestEvaluator(t, nil)
		got, err := e.Run(context.Background(), `ctx`, shape.Map)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{}, got)
	})

	t.Run("canceled context", func(t *testing.T) {
		e := newTestEvaluator(t, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := e.Run(ctx, `1`, shape.Int)
		if err != nil {
			assert.True(t, errors.Is(err, platform.ErrCanceled))
		}
	})
}

func TestEvaluator_Eval(t *testing.T) {
	t.Parallel()

	t.Run("nil executable", func(t *testing.T) {
		e := newTestEvaluator(t, nil)
		_, err := e.Eval(context.Background(), nil, shape.Unit)
		require.ErrorContains(t, err, "executable is nil")
	})

	t.Run("wrong bytecode type", func(t *testing.T) {
		exe := new(script.MockExecutable)
		exe.On("GetID").Return("test-id")
		exe.On("GetByteCode").Return(42)

		e := newTestEvaluator(t, nil)
		_, err := e.Eval(context.Background(), exe, shape.Unit)
		require.ErrorContains(t, err, "invalid bytecode type")
		exe.AssertExpectations(t)
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	e, err := New()
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, e.stdout)
	assert.Equal(t, language.Risor, e.Language())
	assert.Equal(t, "risor.Evaluator", e.String())

	_, err = New(WithStdout(nil))
	require.ErrorContains(t, err, "stdout writer cannot be nil")

	_, err = New(WithLogHandler(nil))
	require.ErrorContains(t, err, "log handler cannot be nil")
}
