package shell

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrUnknownCommand is returned for a verb that is not registered.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage is returned when a command is called with missing arguments.
	ErrUsage = errors.New("usage")

	// ErrDuplicateCommand is returned when registering a name or alias twice.
	ErrDuplicateCommand = errors.New("command already registered")
)

// CommandError attributes a failure to the verb that caused it.
type CommandError struct {
	Verb string
	Err  error
}

func (e *CommandError) Error() string {
	var pe *fs.PathError
	if errors.As(e.Err, &pe) {
		return fmt.Sprintf("%s: %s: %v", e.Verb, pe.Path, pe.Err)
	}
	return e.Verb + ": " + e.Err.Error()
}

func (e *CommandError) Unwrap() error { return e.Err }
