// Package data carries per-call input values from the caller into a script. Input
// travels on the context passed to an evaluation and is exposed to scripts as the
// global named by Global. Nothing is retained between calls.
package data

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

type contextKey string

// inputKey is where input data is stored on the context.
const inputKey contextKey = "polyeval_input"

// Global is the script-visible name of the input data.
const Global = "ctx"

// AddToContext returns a context carrying the union of any input already on ctx and
// the given maps. Later maps override earlier keys; nested maps are merged.
func AddToContext(ctx context.Context, data ...map[string]any) (context.Context, error) {
	toStore := make(map[string]any)
	if existing, ok := ctx.Value(inputKey).(map[string]any); ok {
		maps.Copy(toStore, existing)
	}

	var errz []error
	for _, m := range data {
		for key, value := range m {
			if key == "" {
				errz = append(errz, fmt.Errorf("empty keys are not allowed"))
				continue
			}
			mergeInto(toStore, key, value)
		}
	}
	if len(errz) > 0 {
		return ctx, errors.Join(errz...)
	}

	return context.WithValue(ctx, inputKey, toStore), nil
}

// FromContext returns the input data on ctx and whether any was set.
func FromContext(ctx context.Context) (map[string]any, bool) {
	if ctx == nil {
		return nil, false
	}
	d, ok := ctx.Value(inputKey).(map[string]any)
	return d, ok
}

func mergeInto(target map[string]any, key string, value any) {
	if incoming, ok := value.(map[string]any); ok {
		if current, ok := target[key].(map[string]any); ok {
			merged := maps.Clone(current)
			for k, v := range incoming {
				mergeInto(merged, k, v)
			}
			target[key] = merged
			return
		}
	}
	target[key] = value
}
