// Package mocks provides testify mocks of the platform interfaces.
package mocks

import (
	"context"

	"github.com/robbyt/go-polyeval/platform/language"
	"github.com/robbyt/go-polyeval/platform/shape"
	"github.com/stretchr/testify/mock"
)

// Backend is a mock implementation of platform.Backend for testing purposes.
type Backend struct {
	mock.Mock
}

// Language is a mock implementation of the Language method.
func (m *Backend) Language() language.Language {
	args := m.Called()
	return args.Get(0).(language.Language)
}

// Run is a mock implementation of the Run method.
func (m *Backend) Run(ctx context.Context, script string, want shape.Shape) (any, error) {
	args := m.Called(ctx, script, want)
	return args.Get(0), args.Error(1)
}

// NewBackend returns a mock backend that reports lang.
func NewBackend(lang language.Language) *Backend {
	m := new(Backend)
	m.On("Language").Return(lang)
	return m
}
