// Package polyeval evaluates script text in one of several embedded languages and
// returns a typed Go value.
//
//	d, err := polyeval.New()
//	words, err := polyeval.Evaluate[[]string](ctx, d, polyeval.Lua, `return { "one", "two" }`)
package polyeval

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/robbyt/go-polyeval/engines/javascript"
	jsEvaluator "github.com/robbyt/go-polyeval/engines/javascript/evaluator"
	"github.com/robbyt/go-polyeval/engines/lua"
	luaEvaluator "github.com/robbyt/go-polyeval/engines/lua/evaluator"
	"github.com/robbyt/go-polyeval/engines/risor"
	risorEvaluator "github.com/robbyt/go-polyeval/engines/risor/evaluator"
	"github.com/robbyt/go-polyeval/engines/starlark"
	starlarkEvaluator "github.com/robbyt/go-polyeval/engines/starlark/evaluator"
	"github.com/robbyt/go-polyeval/internal/helpers"
	"github.com/robbyt/go-polyeval/options"
	"github.com/robbyt/go-polyeval/platform"
	"github.com/robbyt/go-polyeval/platform/language"
	"github.com/robbyt/go-polyeval/platform/shape"
)

// Dispatcher routes scripts to the backend registered for their language. It holds
// no per-call state and is safe for concurrent use.
type Dispatcher struct {
	backends map[language.Language]platform.Backend
	timeout  time.Duration
	logger   *slog.Logger
}

// New creates a Dispatcher. By default every built-in language is registered.
func New(opts ...options.Option) (*Dispatcher, error) {
	cfg := options.DefaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	_, logger := helpers.SetupLogger(cfg.LogHandler, "polyeval", "Dispatcher")
	d := &Dispatcher{
		backends: make(map[language.Language]platform.Backend, len(cfg.Languages)+len(cfg.Backends)),
		timeout:  cfg.Timeout,
		logger:   logger,
	}

	for _, lang := range cfg.Languages {
		backend, err := newBuiltin(lang, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s backend: %w", lang, err)
		}
		d.backends[lang] = backend
	}
	for _, backend := range cfg.Backends {
		d.backends[backend.Language()] = backend
	}

	d.logger.Debug("dispatcher created", "languages", d.Languages(), "timeout", d.timeout)
	return d, nil
}

func newBuiltin(lang language.Language, cfg *options.Config) (platform.Backend, error) {
	switch lang {
	case language.Lua:
		e, err := lua.New(
			luaEvaluator.WithLogHandler(cfg.LogHandler),
			luaEvaluator.WithStdout(cfg.Stdout),
		)
		if err != nil {
			return nil, err
		}
		return e, nil
	case language.JavaScript:
		e, err := javascript.New(
			jsEvaluator.WithLogHandler(cfg.LogHandler),
			jsEvaluator.WithStdout(cfg.Stdout),
		)
		if err != nil {
			return nil, err
		}
		return e, nil
	case language.Starlark:
		e, err := starlark.New(
			starlarkEvaluator.WithLogHandler(cfg.LogHandler),
			starlarkEvaluator.WithStdout(cfg.Stdout),
		)
		if err != nil {
			return nil, err
		}
		return e, nil
	case language.Risor:
		e, err := risor.New(
			risorEvaluator.WithLogHandler(cfg.LogHandler),
			risorEvaluator.WithStdout(cfg.Stdout),
		)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%w: %s", platform.ErrUnsupportedLanguage, lang)
	}
}

func (d *Dispatcher) String() string {
	return "polyeval.Dispatcher"
}

// Languages returns the registered languages in declaration order.
func (d *Dispatcher) Languages() []language.Language {
	langs := make([]language.Language, 0, len(d.backends))
	for lang := range d.backends {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// Run evaluates script with the backend for lang and returns a value whose dynamic
// type matches want. Every failure is an *Error tagged with lang.
func (d *Dispatcher) Run(ctx context.Context, lang language.Language, script string, want shape.Shape) (any, error) {
	backend, ok := d.backends[lang]
	if !ok {
		return nil, platform.Wrap(lang, fmt.Errorf("%w: %s", platform.ErrUnsupportedLanguage, lang))
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	value, err := backend.Run(ctx, script, want)
	if err != nil {
		return nil, platform.Wrap(lang, err)
	}
	return value, nil
}

// Evaluate runs script as lang and returns its value as T. Exactly one backend is
// invoked; on failure the zero T and an *Error tagged with lang are returned.
func Evaluate[T shape.Scriptable](ctx context.Context, d *Dispatcher, lang language.Language, script string) (T, error) {
	var zero T
	value, err := d.Run(ctx, lang, script, shape.Of[T]())
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, platform.Wrap(lang, fmt.Errorf(
			"%w: backend returned %T, want %T", platform.ErrConversion, value, zero,
		))
	}
	return typed, nil
}

// Eval builds a one-off Dispatcher from opts and evaluates script with it.
func Eval[T shape.Scriptable](ctx context.Context, lang language.Language, script string, opts ...options.Option) (T, error) {
	d, err := New(opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return Evaluate[T](ctx, d, lang, script)
}
