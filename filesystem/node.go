package filesystem

import (
	"fmt"
	"maps"
	"slices"
)

// RootName is the name of the tree's root directory.
const RootName = "/"

// Kind identifies the concrete variant of a [Node].
type Kind int

const (
	KindDirectory Kind = iota + 1
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Node is a single entry of the tree. It is implemented only by [*Directory]
// and [*File]; consumers match on those two with a type switch.
type Node interface {
	// Name returns the node's name (last path component)
	Name() string
	Kind() Kind

	// sealed prevents implementations outside this package
	sealed()
}

// Directory is a node owning a set of uniquely named children.
//
// Children are kept in a name keyed map. Insertion order is never observable:
// [Directory.Names] and [Directory.Children] always sort at read time.
type Directory struct {
	name     string
	children map[string]Node
}

// NewDirectory returns an empty directory.
func NewDirectory(name string) *Directory {
	return &Directory{
		name:     name,
		children: make(map[string]Node),
	}
}

// NewRoot returns an empty root directory.
func NewRoot() *Directory {
	return NewDirectory(RootName)
}

func (d *Directory) Name() string { return d.name }
func (d *Directory) Kind() Kind   { return KindDirectory }
func (d *Directory) sealed()      {}

// Put inserts child under its own name and transfers its ownership to d.
// An existing child with the same name is silently replaced and returned.
func (d *Directory) Put(child Node) (replaced Node) {
	replaced = d.children[child.Name()]
	d.children[child.Name()] = child
	return replaced
}

// Get returns the child with the given name.
func (d *Directory) Get(name string) (child Node, ok bool) {
	child, ok = d.children[name]
	return
}

// Remove detaches the named child. Returns false if there is no such child.
func (d *Directory) Remove(name string) bool {
	if _, exists := d.children[name]; !exists {
		return false
	}
	delete(d.children, name)
	return true
}

// Len returns the number of direct children.
func (d *Directory) Len() int {
	return len(d.children)
}

// IsEmpty reports whether d has no children.
func (d *Directory) IsEmpty() bool {
	return len(d.children) == 0
}

// Names returns the child names in lexicographic order.
func (d *Directory) Names() []string {
	return slices.Sorted(maps.Keys(d.children))
}

// Children returns the children ordered by name.
func (d *Directory) Children() []Node {
	names := d.Names()
	children := make([]Node, 0, len(names))
	for _, name := range names {
		children = append(children, d.children[name])
	}
	return children
}

// Clone returns a deep copy of d. File contents are copied as well.
func (d *Directory) Clone() *Directory {
	c := NewDirectory(d.name)
	for name, child := range d.children {
		switch n := child.(type) {
		case *Directory:
			c.children[name] = n.Clone()
		case *File:
			c.children[name] = n.CopyAs(n.name)
		}
	}
	return c
}

// File is a leaf node holding an immutable byte sequence.
// The content is only ever replaced wholesale.
type File struct {
	name string
	data []byte
}

// NewFile returns a file holding a private copy of data.
func NewFile(name string, data []byte) *File {
	return &File{name: name, data: clone(data)}
}

func (f *File) Name() string { return f.name }
func (f *File) Kind() Kind   { return KindFile }
func (f *File) sealed()      {}

// Bytes returns a copy of the file content.
func (f *File) Bytes() []byte {
	return clone(f.data)
}

// Size returns the content length in bytes.
func (f *File) Size() int {
	return len(f.data)
}

// SetData replaces the whole content with a copy of data.
func (f *File) SetData(data []byte) {
	f.data = clone(data)
}

// CopyAs returns a detached file named name with an independent copy of f's content.
func (f *File) CopyAs(name string) *File {
	return NewFile(name, f.data)
}

// clone never returns nil so an empty file stays distinguishable from a missing one
func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return slices.Clone(b)
}
