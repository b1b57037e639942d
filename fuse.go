//go:build fuse

package assoofs

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// FuseNode adapts an *Inode to the go-fuse/v2/fs.InodeEmbedder contract.
// It is gated behind the fuse build tag since go-fuse is an optional
// dependency pulled in only when the FUSE binding is actually wanted.
type FuseNode struct {
	fs.Inode
	sb  *Superblock
	ino *Inode
}

var _ fs.InodeEmbedder = (*FuseNode)(nil)
var _ fs.NodeLookuper = (*FuseNode)(nil)
var _ fs.NodeReaddirer = (*FuseNode)(nil)
var _ fs.NodeCreater = (*FuseNode)(nil)
var _ fs.NodeMkdirer = (*FuseNode)(nil)
var _ fs.NodeReader = (*FuseNode)(nil)
var _ fs.NodeWriter = (*FuseNode)(nil)
var _ fs.NodeGetattrer = (*FuseNode)(nil)

// NewFuseRoot builds the root FuseNode for sb, suitable for passing to
// fs.Mount's root argument.
func NewFuseRoot(sb *Superblock) *FuseNode {
	return &FuseNode{sb: sb, ino: sb.Root()}
}

func (n *FuseNode) node(ino *Inode) *FuseNode {
	return &FuseNode{sb: n.sb, ino: ino}
}

// Lookup delegates to the directory layer and materializes a child
// FuseNode on hit.
func (n *FuseNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	d, err := n.ino.Dir()
	if err != nil {
		return nil, syscall.ENOTDIR
	}
	child, err := d.Lookup(name)
	if err != nil {
		return nil, syscall.ENOENT
	}
	n.fillAttr(child, &out.Attr)
	stable := fs.StableAttr{Mode: uint32(child.Mode()), Ino: child.Ino}
	childNode := n.node(child)
	return n.NewInode(ctx, childNode, stable), 0
}

// Readdir lists n's children as a FUSE directory stream.
func (n *FuseNode) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	d, err := n.ino.Dir()
	if err != nil {
		return nil, syscall.ENOTDIR
	}
	entries, err := d.ReadDir(-1)
	if err != nil {
		return nil, syscall.EIO
	}
	return fs.NewListDirStream(toFuseDirEntries(entries)), 0
}

// Create makes a regular file under n and returns it as a new FuseNode.
func (n *FuseNode) Create(ctx context.Context, name string, flags uint32, mode uint32, out *fuse.EntryOut) (*fs.Inode, fs.FileHandle, uint32, syscall.Errno) {
	child, err := n.sb.Create(n.ino, name, mode&0777)
	if err != nil {
		return nil, nil, 0, toErrno(err)
	}
	n.fillAttr(child, &out.Attr)
	stable := fs.StableAttr{Mode: uint32(child.Mode()), Ino: child.Ino}
	return n.NewInode(ctx, n.node(child), stable), nil, 0, 0
}

// Mkdir makes a directory under n and returns it as a new FuseNode.
func (n *FuseNode) Mkdir(ctx context.Context, name string, mode uint32, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	child, err := n.sb.Mkdir(n.ino, name, mode&0777)
	if err != nil {
		return nil, toErrno(err)
	}
	n.fillAttr(child, &out.Attr)
	stable := fs.StableAttr{Mode: uint32(child.Mode()), Ino: child.Ino}
	return n.NewInode(ctx, n.node(child), stable), 0
}

// Read satisfies a FUSE read against the file's single data block.
func (n *FuseNode) Read(ctx context.Context, f fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	m, err := n.ino.File().ReadAt(dest, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, toErrno(err)
	}
	return fuse.ReadResultData(dest[:m]), 0
}

// Write satisfies a FUSE write against the file's single data block.
func (n *FuseNode) Write(ctx context.Context, f fs.FileHandle, data []byte, off int64) (uint32, syscall.Errno) {
	m, err := n.ino.File().WriteAt(data, off)
	if err != nil {
		return uint32(m), toErrno(err)
	}
	return uint32(m), 0
}

// Getattr fills the kernel's attr cache from the persistent inode record.
func (n *FuseNode) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	n.fillAttr(n.ino, &out.Attr)
	return 0
}

func (n *FuseNode) fillAttr(ino *Inode, attr *fuse.Attr) {
	attr.Ino = ino.Ino
	attr.Size = uint64(ino.Size())
	attr.Mode = ModeToUnix(ino.Mode())
	attr.Nlink = 1
	attr.Blksize = uint32(4096)
	t := uint64(ino.ModTime().Unix())
	attr.Atime, attr.Mtime, attr.Ctime = t, t, t
}

func toFuseDirEntries(entries []iofs.DirEntry) []fuse.DirEntry {
	out := make([]fuse.DirEntry, 0, len(entries))
	for _, e := range entries {
		mode := uint32(0)
		if e.IsDir() {
			mode = fuse.S_IFDIR
		}
		out = append(out, fuse.DirEntry{Name: e.Name(), Mode: mode})
	}
	return out
}

func toErrno(err error) syscall.Errno {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNotFound):
		return syscall.ENOENT
	case errors.Is(err, ErrNoSpace):
		return syscall.ENOSPC
	case errors.Is(err, ErrDirectoryFull):
		return syscall.ENOSPC
	case errors.Is(err, ErrNotADirectory):
		return syscall.ENOTDIR
	default:
		return syscall.EIO
	}
}
