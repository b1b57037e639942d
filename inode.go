package assoofs

import (
	"io/fs"
	"time"

	"github.com/assoofs-project/assoofs/internal/ondisk"
)

// Inode is the in-memory form of a persistent inode record, stamped with a
// non-owning back-reference to its mount (the superblock outlives every
// inode within that mount, so a plain pointer is enough — no refcounting).
type Inode struct {
	sb  *Superblock
	Ino uint64

	rec     ondisk.InodeRecord
	modTime time.Time
}

// GetInode materializes an in-memory inode for ino: fetch the persistent
// record, stamp it with Ino, the mount back-reference, and a timestamp.
// Dispatch to directory vs. regular-file behavior happens lazily through
// IsDir()/IsRegular() rather than a vtable, since Go has no class
// hierarchy to avoid.
func (sb *Superblock) GetInode(ino uint64) (*Inode, error) {
	if cached, ok := sb.cachedInode(ino); ok {
		return cached, nil
	}

	rec, err := sb.getInodeRecord(ino)
	if err != nil {
		return nil, err
	}

	i := &Inode{
		sb:      sb,
		Ino:     ino,
		rec:     rec,
		modTime: time.Now(),
	}

	if !rec.IsDir() && !rec.IsRegular() {
		sb.log.Printf("assoofs: inode %d has unsupported mode %#o", ino, rec.Mode)
	}

	sb.cacheInode(i)
	return i, nil
}

// IsDir reports whether the inode is a directory.
func (i *Inode) IsDir() bool { return i.rec.IsDir() }

// IsRegular reports whether the inode is a regular file.
func (i *Inode) IsRegular() bool { return i.rec.IsRegular() }

// Mode returns the inode's fs.FileMode.
func (i *Inode) Mode() fs.FileMode { return UnixToMode(i.rec.Mode) }

// Size returns the inode's byte size (0 for directories).
func (i *Inode) Size() int64 {
	if i.rec.IsRegular() {
		return int64(i.rec.FileSize())
	}
	return 0
}

// ModTime returns the time this in-memory inode object was created. The
// on-disk format carries no mtime field, so this is only a process-local
// approximation, stamped once when the object is first materialized;
// later GetInode calls return the cached object with its original stamp.
func (i *Inode) ModTime() time.Time { return i.modTime }

// DataBlockNumber returns the single data block owned by this inode.
func (i *Inode) DataBlockNumber() uint64 { return i.rec.DataBlockNumber }

// Dir returns a *Dir view of the inode, or ErrNotADirectory.
func (i *Inode) Dir() (*Dir, error) {
	if !i.rec.IsDir() {
		return nil, ErrNotADirectory
	}
	return &Dir{sb: i.sb, ino: i}, nil
}

// File returns a *File view of the inode. Callers should check
// IsRegular() first; ReadAt/WriteAt on a directory inode fail.
func (i *Inode) File() *File {
	return &File{sb: i.sb, ino: i}
}
