package fusefs

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/brettbedarf/vfshell/config"
	"github.com/brettbedarf/vfshell/filesystem"
	"github.com/brettbedarf/vfshell/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createSampleTree() *filesystem.Directory {
	root := filesystem.NewRoot()
	sub := filesystem.NewDirectory("sub")
	sub.Put(filesystem.NewFile("text.txt", []byte("Sample text")))
	sub.Put(filesystem.NewDirectory("empty"))
	root.Put(sub)
	root.Put(filesystem.NewFile("root.txt", []byte("Root text")))
	return root
}

func TestNewRoot_IsSnapshot(t *testing.T) {
	t.Parallel()

	tree := createSampleTree()
	r := NewRoot(tree)

	tree.Remove("root.txt")
	sub, _ := tree.Get("sub")
	sub.(*filesystem.Directory).Remove("text.txt")

	assert.Equal(t, []string{"root.txt", "sub"}, r.tree.Names())
	snapSub, ok := r.tree.Get("sub")
	require.True(t, ok)
	assert.Equal(t, []string{"empty", "text.txt"}, snapSub.(*filesystem.Directory).Names())
}

func skipWithoutFuse(t *testing.T) {
	t.Helper()
	if _, err := os.Stat("/dev/fuse"); err != nil {
		t.Skip("/dev/fuse not available")
	}
	if _, err := exec.LookPath("fusermount"); err != nil {
		if _, err := exec.LookPath("fusermount3"); err != nil {
			t.Skip("fusermount not installed")
		}
	}
}

func TestMount_ServesSnapshot(t *testing.T) {
	skipWithoutFuse(t)

	mnt := t.TempDir()
	srv, err := Mount(mnt, createSampleTree(), config.MountOptions{FsName: "vfshell-test", Name: "vfshell"}, util.ErrorLevel)
	if err != nil {
		t.Skipf("mount not permitted: %v", err)
	}
	t.Cleanup(func() {
		assert.NoError(t, srv.Unmount())
	})

	data, err := os.ReadFile(filepath.Join(mnt, "sub", "text.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Sample text", string(data))

	entries, err := os.ReadDir(mnt)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"root.txt", "sub"}, names)

	info, err := os.Stat(filepath.Join(mnt, "sub", "empty"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	err = os.WriteFile(filepath.Join(mnt, "new.txt"), []byte("x"), 0o600)
	assert.Error(t, err, "mount must be read-only")
}
