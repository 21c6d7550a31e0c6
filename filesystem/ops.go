package filesystem

import (
	"errors"
	"fmt"

	"github.com/brettbedarf/vfshell/internal/util"
)

// CopyFile copies the file at src to dst and returns the absolute path written.
//
// If dst names a directory the copy keeps the source name inside it, if dst
// names a file that file is replaced, otherwise dst's parent must exist and
// the copy takes dst's last segment as its name. Directories can neither be
// copied nor overwritten. The copy never shares content with its source.
func CopyFile(root *Directory, cwd []string, src, dst string) (string, error) {
	logger := util.GetLogger("FS.CopyFile")

	srcNode, err := Resolve(root, cwd, src)
	if err != nil {
		return "", &PathError{Op: "copy", Path: src, Err: err}
	}
	var srcFile *File
	switch n := srcNode.(type) {
	case *File:
		srcFile = n
	case *Directory:
		return "", &PathError{Op: "copy", Path: src, Err: ErrIsDir}
	default:
		return "", &PathError{Op: "copy", Path: src, Err: ErrUnknownNode}
	}

	var (
		parent *Directory
		name   string
		target = Normalize(cwd, dst)
	)
	dstNode, err := Resolve(root, cwd, dst)
	switch n := dstNode.(type) {
	case *Directory:
		parent, name = n, srcFile.Name()
		target = append(target, name)
	case *File, nil:
		if err != nil && !errors.Is(err, ErrNotExist) {
			return "", &PathError{Op: "copy", Path: dst, Err: err}
		}
		parent, name, err = ResolveParent(root, cwd, dst)
		if err != nil {
			return "", &PathError{Op: "copy", Path: dst, Err: err}
		}
	default:
		return "", &PathError{Op: "copy", Path: dst, Err: ErrUnknownNode}
	}

	if existing, ok := parent.Get(name); ok && existing.Kind() == KindDirectory {
		return "", &PathError{Op: "copy", Path: dst, Err: fmt.Errorf("cannot overwrite: %w", ErrIsDir)}
	}

	replaced := parent.Put(srcFile.CopyAs(name))
	logger.Debug().
		Str("src", src).
		Str("dst", Join(target)).
		Bool("replaced", replaced != nil).
		Int("size", srcFile.Size()).
		Msg("Copied file")
	return Join(target), nil
}

// RemoveDir detaches the empty directory at p from its parent.
// Nothing is changed on failure.
func RemoveDir(root *Directory, cwd []string, p string) error {
	logger := util.GetLogger("FS.RemoveDir")

	if root != nil && len(Normalize(cwd, p)) == 0 {
		return &PathError{Op: "rmdir", Path: p, Err: ErrRootTarget}
	}
	node, err := Resolve(root, cwd, p)
	if err != nil {
		return &PathError{Op: "rmdir", Path: p, Err: err}
	}
	switch n := node.(type) {
	case *Directory:
		if !n.IsEmpty() {
			return &PathError{Op: "rmdir", Path: p, Err: ErrNotEmpty}
		}
	case *File:
		return &PathError{Op: "rmdir", Path: p, Err: ErrNotDir}
	default:
		return &PathError{Op: "rmdir", Path: p, Err: ErrUnknownNode}
	}

	parent, name, err := ResolveParent(root, cwd, p)
	if err != nil {
		return &PathError{Op: "rmdir", Path: p, Err: err}
	}
	if !parent.Remove(name) {
		return &PathError{Op: "rmdir", Path: p, Err: ErrNotExist}
	}
	logger.Debug().Str("path", Join(Normalize(cwd, p))).Msg("Removed directory")
	return nil
}
