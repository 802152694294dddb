// Package platform holds the contracts shared by the dispatcher and every backend.
package platform

import (
	"context"

	"github.com/robbyt/go-polyeval/platform/language"
	"github.com/robbyt/go-polyeval/platform/shape"
)

// Backend evaluates scripts for one language.
type Backend interface {
	// Language reports which language this backend evaluates.
	Language() language.Language

	// Run compiles and executes script as a single top-level program in a fresh
	// execution context, and returns the result converted to want. The dynamic type
	// of the returned value matches shape.Zero(want). Failures are the backend's
	// native errors wrapped with one of the classification sentinels.
	Run(ctx context.Context, script string, want shape.Shape) (any, error)
}
