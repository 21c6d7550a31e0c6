package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFile(t *testing.T, root *Directory, p string) *File {
	t.Helper()
	node, err := Resolve(root, nil, p)
	require.NoError(t, err)
	f, ok := node.(*File)
	require.True(t, ok, "%s is not a file", p)
	return f
}

func TestCopyFile_OverwriteExistingFile(t *testing.T) {
	t.Parallel()

	root := createSampleTree()

	written, err := CopyFile(root, nil, "/sub/text.txt", "/root.txt")

	require.NoError(t, err)
	assert.Equal(t, "/root.txt", written)
	assert.Equal(t, []byte("Sample text"), mustFile(t, root, "/root.txt").Bytes())
	assert.Equal(t, 2, root.Len())
}

func TestCopyFile_IntoDirectoryKeepsName(t *testing.T) {
	t.Parallel()

	root := createSampleTree()

	written, err := CopyFile(root, []string{"sub"}, "../root.txt", ".")

	require.NoError(t, err)
	assert.Equal(t, "/sub/root.txt", written)
	assert.Equal(t, []byte("Root text"), mustFile(t, root, "/sub/root.txt").Bytes())
}

func TestCopyFile_NewNameInExistingParent(t *testing.T) {
	t.Parallel()

	root := createSampleTree()

	written, err := CopyFile(root, nil, "root.txt", "sub/copy.txt")

	require.NoError(t, err)
	assert.Equal(t, "/sub/copy.txt", written)
	assert.Equal(t, "copy.txt", mustFile(t, root, "/sub/copy.txt").Name())
}

func TestCopyFile_DeepCopy(t *testing.T) {
	t.Parallel()

	root := createSampleTree()
	_, err := CopyFile(root, nil, "/root.txt", "/sub/r.txt")
	require.NoError(t, err)

	mustFile(t, root, "/root.txt").SetData([]byte("mutated"))

	assert.Equal(t, []byte("Root text"), mustFile(t, root, "/sub/r.txt").Bytes())
}

func TestCopyFile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		dst     string
		wantErr error
	}{
		{"missing source", "/nope", "/x", ErrNotExist},
		{"directory source", "/sub", "/x", ErrIsDir},
		{"missing parent", "/root.txt", "/nope/x", ErrNotExist},
		{"parent is file", "/root.txt", "/sub/text.txt/x", ErrNotDir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			root := createSampleTree()
			before := CountTree(root)

			_, err := CopyFile(root, nil, tt.src, tt.dst)

			require.ErrorIs(t, err, tt.wantErr)
			var pe *PathError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "copy", pe.Op)
			assert.Equal(t, before, CountTree(root), "failed copy must not change the tree")
		})
	}
}

func TestCopyFile_WillNotOverwriteDirectory(t *testing.T) {
	t.Parallel()

	root := createSampleTree()
	sub, _ := root.Get("sub")
	sub.(*Directory).Put(NewDirectory("root.txt"))

	_, err := CopyFile(root, nil, "/root.txt", "/sub")

	require.ErrorIs(t, err, ErrIsDir)
	assert.Contains(t, err.Error(), "cannot overwrite")
	node, _ := sub.(*Directory).Get("root.txt")
	assert.Equal(t, KindDirectory, node.Kind())
}

func TestRemoveDir(t *testing.T) {
	t.Parallel()

	root := createSampleTree()
	root.Put(NewDirectory("empty"))

	require.NoError(t, RemoveDir(root, nil, "empty"))

	_, ok := root.Get("empty")
	assert.False(t, ok)
}

func TestRemoveDir_RelativeWithParentSegments(t *testing.T) {
	t.Parallel()

	root := createSampleTree()
	sub, _ := root.Get("sub")
	sub.(*Directory).Put(NewDirectory("inner"))

	require.NoError(t, RemoveDir(root, []string{"sub"}, "../sub/./inner"))

	_, ok := sub.(*Directory).Get("inner")
	assert.False(t, ok)
}

func TestRemoveDir_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing", "/nope", ErrNotExist},
		{"file", "/root.txt", ErrNotDir},
		{"non-empty", "/sub", ErrNotEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			root := createSampleTree()
			before := CountTree(root)

			err := RemoveDir(root, nil, tt.path)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, CountTree(root))
		})
	}
}

func TestRemoveDir_Root(t *testing.T) {
	t.Parallel()

	root := NewRoot()

	err := RemoveDir(root, nil, "/")

	assert.ErrorIs(t, err, ErrRootTarget)
}

func TestCopyFile_IntoRoot(t *testing.T) {
	t.Parallel()

	root := createSampleTree()

	written, err := CopyFile(root, []string{"sub"}, "text.txt", "..")

	require.NoError(t, err)
	assert.Equal(t, "/text.txt", written)
	assert.Equal(t, []byte("Sample text"), mustFile(t, root, "/text.txt").Bytes())
}
