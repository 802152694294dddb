package polyeval

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/robbyt/go-polyeval/options"
	"github.com/robbyt/go-polyeval/platform"
	"github.com/robbyt/go-polyeval/platform/language"
	"github.com/robbyt/go-polyeval/platform/mocks"
	"github.com/robbyt/go-polyeval/platform/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T, opts ...options.Option) *Dispatcher {
	t.Helper()
	opts = append([]options.Option{
		options.WithLogHandler(slog.NewTextHandler(os.Stderr, nil)),
	}, opts...)
	d, err := New(opts...)
	require.NoError(t, err)
	return d
}

func TestEvaluate_Lua(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("sequence of strings", func(t *testing.T) {
		d := newTestDispatcher(t)
		got, err := Evaluate[[]string](ctx, d, Lua, `return { "one", "two" }`)
		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two"}, got)
	})

	t.Run("string", func(t *testing.T) {
		d := newTestDispatcher(t)
		got, err := Evaluate[string](ctx, d, Lua, `return "Hello world"`)
		require.NoError(t, err)
		assert.Equal(t, "Hello world", got)
	})

	t.Run("print only", func(t *testing.T) {
		var stdout bytes.Buffer
		d := newTestDispatcher(t, options.WithStdout(&stdout))
		got, err := Evaluate[Unit](ctx, d, Lua, `print("Hello world")`)
		require.NoError(t, err)
		assert.Equal(t, Unit{}, got)
		assert.Equal(t, "Hello world\n", stdout.String())
	})

	t.Run("syntax error", func(t *testing.T) {
		d := newTestDispatcher(t)
		got, err := Evaluate[int64](ctx, d, Lua, `return 1 +`)
		require.Error(t, err)
		assert.Zero(t, got)

		var evalErr *Error
		require.True(t, errors.As(err, &evalErr))
		assert.Equal(t, Lua, evalErr.Language)
		assert.Equal(t, KindSyntax, evalErr.Kind())
		assert.True(t, strings.HasPrefix(err.Error(), "Lua("), err.Error())
		assert.True(t, strings.HasSuffix(err.Error(), ")"), err.Error())
		assert.True(t, errors.Is(err, ErrSyntax))
	})
}

func TestEvaluate_SameShapesAcrossLanguages(t *testing.T) {
	t.Parallel()

	type scripts map[language.Language]string

	stringLists := scripts{
		Lua:        `return { "one", "two" }`,
		JavaScript: `["one", "two"]`,
		Starlark:   `_ = ["one", "two"]`,
		Risor:      `["one", "two"]`,
	}
	strs := scripts{
		Lua:        `return "Hello world"`,
		JavaScript: `"Hello world"`,
		Starlark:   `_ = "Hello world"`,
		Risor:      `"Hello world"`,
	}
	ints := scripts{
		Lua:        `return 40 + 2`,
		JavaScript: `40 + 2`,
		Starlark:   `_ = 40 + 2`,
		Risor:      `40 + 2`,
	}
	maps := scripts{
		Lua:        `return { name = "x" }`,
		JavaScript: `({ name: "x" })`,
		Starlark:   `_ = {"name": "x"}`,
		Risor:      "m := {\"name\": \"x\"}\nm",
	}
	syntaxErrors := scripts{
		Lua:        `return 1 +`,
		JavaScript: `1 +`,
		Starlark:   `_ = 1 +`,
		Risor:      `1 +`,
	}
	wrongShape := scripts{
		Lua:        `return 1`,
		JavaScript: `1`,
		Starlark:   `_ = 1`,
		Risor:      `1`,
	}

	d := newTestDispatcher(t)
	ctx := context.Background()

	for _, lang := range language.All() {
		t.Run(lang.String(), func(t *testing.T) {
			t.Parallel()

			list, err := Evaluate[[]string](ctx, d, lang, stringLists[lang])
			require.NoError(t, err)
			assert.Equal(t, []string{"one", "two"}, list)

			str, err := Evaluate[string](ctx, d, lang, strs[lang])
			require.NoError(t, err)
			assert.Equal(t, "Hello world", str)

			i, err := Evaluate[int64](ctx, d, lang, ints[lang])
			require.NoError(t, err)
			assert.Equal(t, int64(42), i)

			m, err := Evaluate[map[string]any](ctx, d, lang, maps[lang])
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"name": "x"}, m)

			unit, err := Evaluate[Unit](ctx, d, lang, "")
			require.NoError(t, err)
			assert.Equal(t, Unit{}, unit)

			_, err = Evaluate[int64](ctx, d, lang, syntaxErrors[lang])
			var evalErr *Error
			require.True(t, errors.As(err, &evalErr))
			assert.Equal(t, lang, evalErr.Language)
			assert.Equal(t, KindSyntax, evalErr.Kind())
			assert.True(t, strings.HasPrefix(err.Error(), lang.String()+"("))

			_, err = Evaluate[string](ctx, d, lang, wrongShape[lang])
			require.True(t, errors.As(err, &evalErr))
			assert.Equal(t, lang, evalErr.Language)
			assert.Equal(t, KindConversion, evalErr.Kind())
		})
	}
}

func TestEvaluate_PrintUsesConfiguredWriter(t *testing.T) {
	t.Parallel()

	scripts := map[language.Language]string{
		Lua:        `print("Hello world")`,
		JavaScript: `print("Hello world")`,
		Starlark:   `print("Hello world")`,
		Risor:      `print("Hello world")`,
	}
	for _, lang := range language.All() {
		t.Run(lang.String(), func(t *testing.T) {
			t.Parallel()
			var stdout bytes.Buffer
			d := newTestDispatcher(t, options.WithStdout(&stdout))

			got, err := Evaluate[Unit](context.Background(), d, lang, scripts[lang])
			require.NoError(t, err)
			assert.Equal(t, Unit{}, got)
			assert.Equal(t, "Hello world\n", stdout.String())
		})
	}
}

func TestEvaluate_LargeIntegralFloats(t *testing.T) {
	t.Parallel()

	scripts := map[language.Language]string{
		Lua:        `return 2^60`,
		JavaScript: `2 ** 60`,
		Starlark:   `_ = float(1 << 60)`,
		Risor:      `1152921504606846976.0`,
	}
	d := newTestDispatcher(t)
	for _, lang := range language.All() {
		t.Run(lang.String(), func(t *testing.T) {
			t.Parallel()
			got, err := Evaluate[float64](context.Background(), d, lang, scripts[lang])
			require.NoError(t, err)
			assert.Equal(t, float64(1<<60), got)
		})
	}
}

func TestEvaluate_Input(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(t)
	ctx, err := WithInput(context.Background(), map[string]any{"name": "World"})
	require.NoError(t, err)

	tests := map[language.Language]string{
		Lua:        `return "Hello " .. ctx.name`,
		JavaScript: `"Hello " + ctx.name`,
		Starlark:   `_ = "Hello " + ctx["name"]`,
		Risor:      `"Hello " + ctx["name"]`,
	}
	for lang, script := range tests {
		t.Run(lang.String(), func(t *testing.T) {
			got, err := Evaluate[string](ctx, d, lang, script)
			require.NoError(t, err)
			assert.Equal(t, "Hello World", got)
		})
	}
}

func TestDispatcher_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lang language.Language
		opts []options.Option
	}{
		{"not registered", JavaScript, []options.Option{options.WithLanguages(Lua)}},
		{"unspecified", language.Unspecified, nil},
		{"out of range", language.Language(42), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDispatcher(t, tt.opts...)
			got, err := Evaluate[string](context.Background(), d, tt.lang, `"anything"`)
			require.Error(t, err)
			assert.Empty(t, got)

			var evalErr *Error
			require.True(t, errors.As(err, &evalErr))
			assert.Equal(t, tt.lang, evalErr.Language)
			assert.Equal(t, KindUnsupported, evalErr.Kind())
			assert.True(t, errors.Is(err, ErrUnsupportedLanguage))
		})
	}
}

func TestDispatcher_CustomBackend(t *testing.T) {
	t.Parallel()

	t.Run("replaces built-in", func(t *testing.T) {
		backend := mocks.NewBackend(Lua)
		backend.On("Run", mock.Anything, "return 1", shape.Int).Return(int64(7), nil).Once()

		d := newTestDispatcher(t, options.WithBackend(backend))
		got, err := Evaluate[int64](context.Background(), d, Lua, "return 1")
		require.NoError(t, err)
		assert.Equal(t, int64(7), got)
		backend.AssertExpectations(t)
	})

	t.Run("backend error is tagged once", func(t *testing.T) {
		backend := mocks.NewBackend(Lua)
		inner := platform.Wrap(Starlark, errors.New("inner boom"))
		backend.On("Run", mock.Anything, "x", shape.Unit).
			Return(nil, fmt.Errorf("wrapped: %w", inner)).Once()

		d := newTestDispatcher(t, options.WithLanguages(), options.WithBackend(backend))
		_, err := Evaluate[Unit](context.Background(), d, Lua, "x")

		var evalErr *Error
		require.True(t, errors.As(err, &evalErr))
		assert.Equal(t, Lua, evalErr.Language)
		assert.Equal(t, "inner boom", evalErr.Diagnostic())
		assert.Equal(t, "Lua(inner boom)", err.Error())
		var nested *Error
		assert.False(t, errors.As(evalErr.Unwrap(), &nested), "errors must not nest")
		backend.AssertExpectations(t)
	})

	t.Run("backend returning the wrong type", func(t *testing.T) {
		backend := mocks.NewBackend(Risor)
		backend.On("Run", mock.Anything, "x", shape.String).Return(int64(1), nil).Once()

		d := newTestDispatcher(t, options.WithLanguages(), options.WithBackend(backend))
		got, err := Evaluate[string](context.Background(), d, Risor, "x")
		assert.Empty(t, got)

		var evalErr *Error
		require.True(t, errors.As(err, &evalErr))
		assert.Equal(t, Risor, evalErr.Language)
		assert.Equal(t, KindConversion, evalErr.Kind())
	})

	t.Run("exactly one backend invoked", func(t *testing.T) {
		luaBackend := mocks.NewBackend(Lua)
		jsBackend := mocks.NewBackend(JavaScript)
		jsBackend.On("Run", mock.Anything, "x", shape.Bool).Return(true, nil).Once()

		d := newTestDispatcher(t, options.WithBackend(luaBackend), options.WithBackend(jsBackend))
		got, err := Evaluate[bool](context.Background(), d, JavaScript, "x")
		require.NoError(t, err)
		assert.True(t, got)
		luaBackend.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
		jsBackend.AssertExpectations(t)
	})
}

func TestDispatcher_Timeout(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(t, options.WithTimeout(50*time.Millisecond))
	_, err := Evaluate[Unit](context.Background(), d, Lua, `while true do end`)

	var evalErr *Error
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, Lua, evalErr.Language)
	assert.Equal(t, KindCanceled, evalErr.Kind())
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestDispatcher_Concurrent(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lang := language.All()[i%4]
			scripts := map[language.Language]string{
				Lua:        fmt.Sprintf("return %d", i),
				JavaScript: fmt.Sprintf("%d", i),
				Starlark:   fmt.Sprintf("_ = %d", i),
				Risor:      fmt.Sprintf("%d", i),
			}
			got, err := Evaluate[int64](ctx, d, lang, scripts[lang])
			if err != nil {
				errs <- err
				return
			}
			if got != int64(i) {
				errs <- fmt.Errorf("%s: got %d, want %d", lang, got, i)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestDispatcher_Languages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, language.All(), newTestDispatcher(t).Languages())
	assert.Equal(t,
		[]language.Language{Lua, Risor},
		newTestDispatcher(t, options.WithLanguages(Risor, Lua)).Languages(),
	)
	assert.Empty(t, newTestDispatcher(t, options.WithLanguages()).Languages())
	assert.Equal(t, "polyeval.Dispatcher", newTestDispatcher(t).String())
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := New(options.WithLogHandler(nil))
	require.ErrorContains(t, err, "log handler cannot be nil")

	_, err = New(options.WithLanguages(language.Unspecified))
	require.ErrorContains(t, err, "invalid config")
}

func TestEval(t *testing.T) {
	t.Parallel()

	got, err := Eval[float64](context.Background(), JavaScript, `1.5 * 2`,
		options.WithLogHandler(slog.NewTextHandler(os.Stderr, nil)),
	)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	_, err = Eval[string](context.Background(), Lua, `return "x"`, options.WithStdout(nil))
	require.Error(t, err)
}
