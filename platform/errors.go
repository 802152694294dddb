package platform

import "errors"

// Classification sentinels. Backends wrap their native errors with one of these,
// e.g. fmt.Errorf("%w: %w", platform.ErrSyntax, err), so the dispatcher can classify
// failures without knowing backend error types.
var (
	ErrSyntax              = errors.New("syntax error")
	ErrRuntime             = errors.New("runtime error")
	ErrConversion          = errors.New("conversion error")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrCanceled            = errors.New("evaluation canceled")
)
