package script

import (
	"github.com/robbyt/go-polyeval/platform/language"
	"github.com/stretchr/testify/mock"
)

// MockCompiler is a mock implementation of the Compiler interface.
type MockCompiler struct {
	mock.Mock
}

func (m *MockCompiler) Compile(source string) (Executable, error) {
	args := m.Called(source)
	exe, ok := args.Get(0).(Executable)
	if !ok {
		return nil, args.Error(1)
	}
	return exe, args.Error(1)
}

// MockExecutable is a mock implementation of the Executable interface.
type MockExecutable struct {
	mock.Mock
}

func (m *MockExecutable) GetID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockExecutable) GetSource() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockExecutable) GetByteCode() any {
	args := m.Called()
	return args.Get(0)
}

func (m *MockExecutable) GetLanguage() language.Language {
	args := m.Called()
	return args.Get(0).(language.Language)
}
