package script

import "errors"

var (
	// ErrScriptNotFound is returned if a script file does not exist.
	ErrScriptNotFound = errors.New("script not found")
)

const emptyScriptMessage = "script is empty or contains only comments"
