package filesystem

import (
	"errors"
	"io/fs"
)

var (
	// ErrNotExist is returned if a path does not name an existing node.
	ErrNotExist = fs.ErrNotExist

	// ErrNotDir is returned if a node exists but is not a directory.
	ErrNotDir = errors.New("not a directory")

	// ErrIsDir is returned if a directory is used where a file is required.
	ErrIsDir = errors.New("is a directory")

	// ErrNotEmpty is returned when removing a directory that still has children.
	ErrNotEmpty = errors.New("directory not empty")

	// ErrRootTarget is returned if the root is used as a mutation target.
	ErrRootTarget = errors.New("root has no parent")

	// ErrNotLoaded is returned for any operation while no tree is loaded.
	ErrNotLoaded = errors.New("VFS not loaded")

	// ErrUnknownNode is returned for a node that is neither a directory nor a file.
	ErrUnknownNode = errors.New("unknown node kind")
)

// PathError records an error and the operation and path that caused it.
type PathError = fs.PathError
