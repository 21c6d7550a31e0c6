package mocks

import (
	"github.com/brettbedarf/vfshell/shell"
	"github.com/stretchr/testify/mock"
)

// MockDispatcher implements script.Dispatcher for testing across packages
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(sess *shell.Session, line string) error {
	args := m.Called(sess, line)

	// Handle function return types (for tests acting on the session)
	if fn, ok := args.Get(0).(func(*shell.Session, string) error); ok {
		return fn(sess, line)
	}
	return args.Error(0)
}
