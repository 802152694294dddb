package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/robbyt/go-polyeval/platform/language"
)

// Kind classifies an evaluation failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindSyntax
	KindRuntime
	KindConversion
	KindUnsupported
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindRuntime:
		return "runtime"
	case KindConversion:
		return "conversion"
	case KindUnsupported:
		return "unsupported"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error is the single failure type returned by the dispatcher. Language always
// matches the language the caller requested.
type Error struct {
	Language language.Language
	cause    error
}

// Wrap tags err with lang. It returns nil for a nil err. An *Error is never nested:
// its diagnostic is re-tagged with lang instead.
func Wrap(lang language.Language, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *Error
	if errors.As(err, &evalErr) {
		if evalErr.Language == lang {
			return evalErr
		}
		return &Error{Language: lang, cause: evalErr.cause}
	}
	return &Error{Language: lang, cause: err}
}

// Error renders as "<Language>(<diagnostic>)".
func (e *Error) Error() string {
	return fmt.Sprintf("%s(%s)", e.Language, e.Diagnostic())
}

// Diagnostic returns the wrapped backend message.
func (e *Error) Diagnostic() string {
	if e.cause == nil {
		return ""
	}
	return e.cause.Error()
}

// Unwrap exposes the backend diagnostic to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind classifies the failure from the sentinel the backend wrapped it with.
func (e *Error) Kind() Kind {
	switch {
	case errors.Is(e.cause, ErrCanceled),
		errors.Is(e.cause, context.Canceled),
		errors.Is(e.cause, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(e.cause, ErrSyntax):
		return KindSyntax
	case errors.Is(e.cause, ErrConversion):
		return KindConversion
	case errors.Is(e.cause, ErrUnsupportedLanguage):
		return KindUnsupported
	case errors.Is(e.cause, ErrRuntime):
		return KindRuntime
	default:
		return KindUnknown
	}
}
