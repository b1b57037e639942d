package assoofs

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/assoofs-project/assoofs/internal/ondisk"
)

// Create makes a regular file: allocate its data block, append an inode
// record with FileSize=0, link it into parent, and return the new
// in-memory inode already attached.
func (sb *Superblock) Create(parent *Inode, name string, mode uint32) (*Inode, error) {
	return sb.newChild(parent, name, ondisk.SIFREG|(mode&0777), false)
}

// Mkdir makes a directory, attaching it into parent the same way Create
// attaches a regular file, so newly created directories are immediately
// discoverable via ReadDir/Lookup.
func (sb *Superblock) Mkdir(parent *Inode, name string, mode uint32) (*Inode, error) {
	return sb.newChild(parent, name, ondisk.SIFDIR|(mode&0777), true)
}

// newChild runs the seven-step create/mkdir protocol shared by Create and
// Mkdir. Failure before step 5 (the inode-store append) leaves persistent
// state unchanged; failure between steps 5 and 6 leaves a dangling,
// tolerated orphan inode.
func (sb *Superblock) newChild(parent *Inode, name string, mode uint32, isDir bool) (*Inode, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if parent == nil || !parent.rec.IsDir() {
		return nil, ErrNotADirectory
	}

	// Step 1: read inodes_count, bail out early if the store is full.
	sbRec, err := sb.readSuper()
	if err != nil {
		return nil, err
	}
	if sbRec.InodesCount >= ondisk.MaxObjects {
		return nil, fmt.Errorf("assoofs: create %q: %w", name, ondisk.ErrNoSpace)
	}

	// Step 2: compute the new inode number.
	newIno := nextInodeNo(sbRec.InodesCount)

	// Step 3: build the new record.
	rec := ondisk.InodeRecord{InodeNo: newIno, Mode: mode}
	if isDir {
		rec.SetDirChildrenCount(0)
	} else {
		rec.SetFileSize(0)
	}

	// Step 4: allocate the data block.
	block, err := sb.acquireBlock()
	if err != nil {
		return nil, fmt.Errorf("assoofs: create %q: %w", name, err)
	}
	rec.DataBlockNumber = block

	// Step 5: append to the inode store. A crash after this point but
	// before step 6 leaves rec durable but unreferenced by any directory.
	if err := sb.appendInodeRecord(rec); err != nil {
		return nil, err
	}

	// Step 6: link into the parent directory and bump its child count.
	if err := sb.dirAppendChild(parent, newIno, name); err != nil {
		return nil, err
	}

	// Step 7: attach — return the fully-populated in-memory inode rather
	// than forcing the caller to re-fetch it.
	child := &Inode{sb: sb, Ino: newIno, rec: rec, modTime: time.Now()}
	sb.cacheInode(child)
	return child, nil
}

// CreatePath resolves the parent directory of path and creates a regular
// file named by its final component.
func (sb *Superblock) CreatePath(p string, mode uint32) (*Inode, error) {
	parentPath, base := splitParent(p)
	parent, err := sb.FindInode(parentPath)
	if err != nil {
		return nil, err
	}
	return sb.Create(parent, base, mode)
}

// MkdirPath resolves the parent directory of path and creates a directory
// named by its final component.
func (sb *Superblock) MkdirPath(p string, mode uint32) (*Inode, error) {
	parentPath, base := splitParent(p)
	parent, err := sb.FindInode(parentPath)
	if err != nil {
		return nil, err
	}
	return sb.Mkdir(parent, base, mode)
}

// WriteFile writes data to the regular file at path starting at offset 0,
// a convenience wrapper over File.WriteAt for callers (CLI, tests) that
// don't need incremental writes.
func (sb *Superblock) WriteFile(path string, data []byte) (int, error) {
	ino, err := sb.FindInode(path)
	if err != nil {
		return 0, err
	}
	return ino.File().WriteAt(data, 0)
}

// ReadFile reads the entire contents of the regular file at path.
func (sb *Superblock) ReadFile(path string) ([]byte, error) {
	ino, err := sb.FindInode(path)
	if err != nil {
		return nil, err
	}
	if ino.Size() == 0 {
		return nil, nil
	}
	buf := make([]byte, ino.Size())
	_, err = ino.File().ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf, nil
}
