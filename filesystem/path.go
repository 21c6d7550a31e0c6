package filesystem

import (
	"fmt"
	"slices"
	"strings"
)

const (
	// Separator separates path segments.
	Separator = "/"

	parentSegment  = ".."
	currentSegment = "."
)

// Split splits p into its segments, dropping empty and "." segments.
func Split(p string) []string {
	parts := strings.Split(p, Separator)
	segs := make([]string, 0, len(parts))
	for _, s := range parts {
		if s == "" || s == currentSegment {
			continue
		}
		segs = append(segs, s)
	}
	return segs
}

// IsAbs reports whether p starts at the root.
func IsAbs(p string) bool {
	return strings.HasPrefix(p, Separator)
}

// Normalize returns the absolute segment sequence p denotes when evaluated
// from cwd. ".." pops the previous segment and is a no-op at the root.
// The returned slice never aliases cwd.
func Normalize(cwd []string, p string) []string {
	var segs []string
	if IsAbs(p) {
		segs = Split(p)
	} else {
		segs = append(slices.Clone(cwd), Split(p)...)
	}

	stack := make([]string, 0, len(segs))
	for _, s := range segs {
		if s == parentSegment {
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			continue
		}
		stack = append(stack, s)
	}
	return stack
}

// Join renders segments as an absolute path. No segments yields the root.
func Join(segs []string) string {
	return Separator + strings.Join(segs, Separator)
}

// Resolve returns the node p names relative to cwd. The lookup always walks
// from root so it never depends on previously resolved nodes.
func Resolve(root *Directory, cwd []string, p string) (Node, error) {
	if root == nil {
		return nil, ErrNotLoaded
	}
	return walk(root, Normalize(cwd, p))
}

// ResolveParent resolves the directory that holds (or would hold) the last
// segment of p and returns it along with that segment. Paths normalizing to
// the root have no parent and return [ErrRootTarget].
func ResolveParent(root *Directory, cwd []string, p string) (*Directory, string, error) {
	if root == nil {
		return nil, "", ErrNotLoaded
	}
	segs := Normalize(cwd, p)
	if len(segs) == 0 {
		return nil, "", ErrRootTarget
	}

	parent, err := walk(root, segs[:len(segs)-1])
	if err != nil {
		return nil, "", err
	}
	switch n := parent.(type) {
	case *Directory:
		return n, segs[len(segs)-1], nil
	case *File:
		return nil, "", ErrNotDir
	default:
		return nil, "", fmt.Errorf("%w: %T", ErrUnknownNode, parent)
	}
}

// walk descends from root through segs, one child lookup per segment.
func walk(root *Directory, segs []string) (Node, error) {
	var node Node = root
	for _, s := range segs {
		dir, ok := node.(*Directory)
		if !ok {
			return nil, ErrNotExist
		}
		child, ok := dir.Get(s)
		if !ok {
			return nil, ErrNotExist
		}
		node = child
	}
	return node, nil
}
