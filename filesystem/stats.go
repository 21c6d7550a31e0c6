package filesystem

import (
	"iter"
	"path"
)

// Stats summarizes the shape of a tree.
type Stats struct {
	Dirs     int // directories including the root
	Files    int
	MaxDepth int // deepest directory level; the root is 0
}

// CountTree walks the tree depth-first and collects its [Stats].
func CountTree(root *Directory) Stats {
	var st Stats
	countDir(root, 0, &st)
	return st
}

func countDir(dir *Directory, depth int, st *Stats) {
	st.Dirs++
	st.MaxDepth = max(st.MaxDepth, depth)
	for _, child := range dir.Children() {
		switch n := child.(type) {
		case *Directory:
			countDir(n, depth+1, st)
		case *File:
			st.Files++
		}
	}
}

// All returns an iterator over every node below root paired with its absolute
// path, depth-first with siblings in name order. The root itself is not yielded.
func All(root *Directory) iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		walkAll(root, Separator, yield)
	}
}

func walkAll(dir *Directory, base string, yield func(string, Node) bool) bool {
	for _, child := range dir.Children() {
		p := path.Join(base, child.Name())
		if !yield(p, child) {
			return false
		}
		if sub, ok := child.(*Directory); ok {
			if !walkAll(sub, p, yield) {
				return false
			}
		}
	}
	return true
}
