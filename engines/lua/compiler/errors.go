package compiler

import "strings"

// syntaxError trims the trailing newline gopher-lua appends to parse errors while
// keeping the native *parse.Error reachable through errors.As.
type syntaxError struct {
	cause error
}

func (e *syntaxError) Error() string {
	return strings.TrimSpace(e.cause.Error())
}

func (e *syntaxError) Unwrap() error {
	return e.cause
}
