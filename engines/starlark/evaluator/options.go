package evaluator

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/robbyt/go-polyeval/internal/helpers"
)

// FunctionalOption configures an Evaluator.
type FunctionalOption func(*Evaluator) error

// WithLogHandler sets the log handler for the evaluator and its compiler.
func WithLogHandler(handler slog.Handler) FunctionalOption {
	return func(e *Evaluator) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		e.logHandler = handler
		e.logger = nil
		return nil
	}
}

// WithLogger sets a specific logger for the evaluator.
func WithLogger(logger *slog.Logger) FunctionalOption {
	return func(e *Evaluator) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		e.logger = logger
		e.logHandler = nil
		return nil
	}
}

// WithStdout sets where print writes. Defaults to os.Stdout.
func WithStdout(w io.Writer) FunctionalOption {
	return func(e *Evaluator) error {
		if w == nil {
			return fmt.Errorf("stdout writer cannot be nil")
		}
		e.stdout = w
		return nil
	}
}

func (e *Evaluator) setupLogger() {
	if e.logger != nil {
		e.logHandler = e.logger.Handler()
		return
	}
	e.logHandler, e.logger = helpers.SetupLogger(e.logHandler, "starlark", "Evaluator")
}

func (e *Evaluator) applyDefaults() {
	if e.stdout == nil {
		e.stdout = os.Stdout
	}
}
