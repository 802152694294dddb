package polyeval

import (
	"context"

	"github.com/robbyt/go-polyeval/platform"
	"github.com/robbyt/go-polyeval/platform/data"
	"github.com/robbyt/go-polyeval/platform/language"
	"github.com/robbyt/go-polyeval/platform/shape"
)

// Language selects the backend that evaluates a script.
type Language = language.Language

const (
	Lua        = language.Lua
	JavaScript = language.JavaScript
	Starlark   = language.Starlark
	Risor      = language.Risor
)

// Unit is the result type for scripts run only for their side effects.
type Unit = shape.None

// Error is the failure type returned by Evaluate and Run.
type Error = platform.Error

// Kind classifies an Error.
type Kind = platform.Kind

const (
	KindUnknown     = platform.KindUnknown
	KindSyntax      = platform.KindSyntax
	KindRuntime     = platform.KindRuntime
	KindConversion  = platform.KindConversion
	KindUnsupported = platform.KindUnsupported
	KindCanceled    = platform.KindCanceled
)

// Classification sentinels, usable with errors.Is.
var (
	ErrSyntax              = platform.ErrSyntax
	ErrRuntime             = platform.ErrRuntime
	ErrConversion          = platform.ErrConversion
	ErrUnsupportedLanguage = platform.ErrUnsupportedLanguage
	ErrCanceled            = platform.ErrCanceled
)

// WithInput returns a context carrying data for scripts to read through their ctx
// global. Multiple maps are merged, later keys winning.
func WithInput(ctx context.Context, input ...map[string]any) (context.Context, error) {
	return data.AddToContext(ctx, input...)
}
