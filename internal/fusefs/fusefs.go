// Package fusefs exposes a snapshot of a tree as a read-only FUSE filesystem.
package fusefs

import (
	"context"
	"os"
	"syscall"
	"time"

	"github.com/brettbedarf/vfshell/config"
	"github.com/brettbedarf/vfshell/filesystem"
	"github.com/brettbedarf/vfshell/internal/util"
	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

const (
	dirMode  = 0o555
	fileMode = 0o444

	// entries never change while mounted
	cacheTimeout = time.Hour
)

// Root is the root inode of the mounted snapshot.
type Root struct {
	fs.Inode

	tree  *filesystem.Directory
	mtime time.Time
}

var _ = (fs.NodeOnAdder)((*Root)(nil))
var _ = (fs.NodeGetattrer)((*Root)(nil))

// NewRoot snapshots tree. Later changes to tree are not visible through the mount.
func NewRoot(tree *filesystem.Directory) *Root {
	return &Root{
		tree:  tree.Clone(),
		mtime: time.Now(),
	}
}

// OnAdd builds the whole inode tree once the root is attached.
func (r *Root) OnAdd(ctx context.Context) {
	logger := util.GetLogger("FUSE.OnAdd")

	r.addChildren(ctx, &r.Inode, r.tree)
	st := filesystem.CountTree(r.tree)
	logger.Debug().Int("directories", st.Dirs).Int("files", st.Files).Msg("Built snapshot inodes")
}

func (r *Root) Getattr(_ context.Context, _ fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	r.fillAttr(&out.Attr, syscall.S_IFDIR|dirMode, 0)
	return fs.OK
}

func (r *Root) addChildren(ctx context.Context, parent *fs.Inode, dir *filesystem.Directory) {
	for _, child := range dir.Children() {
		switch n := child.(type) {
		case *filesystem.Directory:
			ch := parent.NewPersistentInode(ctx, &dirNode{root: r}, fs.StableAttr{Mode: syscall.S_IFDIR})
			parent.AddChild(n.Name(), ch, true)
			r.addChildren(ctx, ch, n)
		case *filesystem.File:
			file := &fs.MemRegularFile{Data: n.Bytes()}
			r.fillAttr(&file.Attr, syscall.S_IFREG|fileMode, uint64(n.Size()))
			ch := parent.NewPersistentInode(ctx, file, fs.StableAttr{Mode: syscall.S_IFREG})
			parent.AddChild(n.Name(), ch, true)
		}
	}
}

func (r *Root) fillAttr(attr *fuse.Attr, mode uint32, size uint64) {
	attr.Mode = mode
	attr.Size = size
	attr.SetTimes(nil, &r.mtime, &r.mtime)
	attr.Owner = fuse.Owner{
		Uid: uint32(os.Getuid()),
		Gid: uint32(os.Getgid()),
	}
}

// dirNode is a directory below the root.
type dirNode struct {
	fs.Inode
	root *Root
}

var _ = (fs.NodeGetattrer)((*dirNode)(nil))

func (d *dirNode) Getattr(_ context.Context, _ fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	d.root.fillAttr(&out.Attr, syscall.S_IFDIR|dirMode, 0)
	return fs.OK
}

// Mount serves a snapshot of tree at mountPoint. The returned server is
// already serving; call Unmount on it to stop.
func Mount(mountPoint string, tree *filesystem.Directory, opts config.MountOptions, lvl util.LogLevel) (*fuse.Server, error) {
	logger := util.GetLogger("FUSE.Mount")

	timeout := cacheTimeout
	srv, err := fs.Mount(mountPoint, NewRoot(tree), &fs.Options{
		MountOptions: fuse.MountOptions{
			Name:    opts.Name,
			FsName:  opts.FsName,
			Debug:   opts.Debug || lvl == util.TraceLevel,
			Logger:  util.NewLogLogger("FuseServer", util.TraceLevel),
			Options: []string{"ro"},
		},
		EntryTimeout: &timeout,
		AttrTimeout:  &timeout,
	})
	if err != nil {
		return nil, err
	}
	logger.Info().Str("mountpoint", mountPoint).Msg("Snapshot mounted")
	return srv, nil
}
