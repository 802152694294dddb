// Package options configures a polyeval Dispatcher.
package options

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/robbyt/go-polyeval/platform"
	"github.com/robbyt/go-polyeval/platform/language"
)

// Config holds the settings used to build a Dispatcher.
type Config struct {
	// Languages lists the built-in backends to create.
	Languages []language.Language `validate:"omitempty,unique,dive,language"`
	// Timeout bounds each evaluation. Zero disables the timeout.
	Timeout time.Duration `validate:"gte=0"`
	// LogHandler is passed to every built-in backend.
	LogHandler slog.Handler `validate:"required"`
	// Stdout receives script print output.
	Stdout io.Writer `validate:"required"`
	// Backends are registered after the built-ins and replace any built-in for the
	// same language.
	Backends []platform.Backend
}

// Option is a function that modifies Config.
type Option func(*Config) error

// DefaultConfig returns a Config with every built-in language enabled, no timeout,
// and logging and print output on stdout.
func DefaultConfig() *Config {
	return &Config{
		Languages:  language.All(),
		LogHandler: DefaultHandler(),
		Stdout:     os.Stdout,
	}
}

// DefaultHandler returns the default logging handler.
func DefaultHandler() slog.Handler {
	return slog.NewTextHandler(os.Stdout, nil)
}

// WithLogHandler sets the log handler used by the dispatcher and its backends.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *Config) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		c.LogHandler = handler
		return nil
	}
}

// WithStdout sets where scripts' print output is written.
func WithStdout(w io.Writer) Option {
	return func(c *Config) error {
		if w == nil {
			return fmt.Errorf("stdout writer cannot be nil")
		}
		c.Stdout = w
		return nil
	}
}

// WithTimeout bounds every evaluation with context.WithTimeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return fmt.Errorf("timeout cannot be negative: %s", d)
		}
		c.Timeout = d
		return nil
	}
}

// WithLanguages restricts the built-in backends to langs. Calling it with no
// languages disables every built-in backend.
func WithLanguages(langs ...language.Language) Option {
	return func(c *Config) error {
		c.Languages = append([]language.Language{}, langs...)
		return nil
	}
}

// WithBackend registers a custom backend, replacing any built-in backend for the
// same language.
func WithBackend(b platform.Backend) Option {
	return func(c *Config) error {
		if b == nil {
			return fmt.Errorf("backend cannot be nil")
		}
		c.Backends = append(c.Backends, b)
		return nil
	}
}
