package assoofs

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/assoofs-project/assoofs/internal/ondisk"
)

// Dir is a directory's owning inode plus a cursor into its data block.
// Each call to ReadDir advances the cursor; a fresh *Dir (as returned by
// Inode.Dir or a new Open call) always starts at offset 0, so a fresh
// enumeration always gets a fresh cursor.
type Dir struct {
	sb     *Superblock
	ino    *Inode
	cursor int64
}

// DirEntry implements fs.DirEntry for one assoofs directory record.
type DirEntry struct {
	name  string
	ino   uint64
	isDir bool
	sb    *Superblock
}

func (e *DirEntry) Name() string { return e.name }
func (e *DirEntry) IsDir() bool  { return e.isDir }
func (e *DirEntry) Type() fs.FileMode {
	if e.isDir {
		return fs.ModeDir
	}
	return 0
}
func (e *DirEntry) Info() (fs.FileInfo, error) {
	ino, err := e.sb.GetInode(e.ino)
	if err != nil {
		return nil, err
	}
	return &fileinfo{name: e.name, ino: ino}, nil
}

// Ino returns the inode number this entry references.
func (e *DirEntry) Ino() uint64 { return e.ino }

// dirLookup scans the first parent.DirChildrenCount records of parent's
// data block for a byte-exact match against name truncated to
// FilenameMaxLen, the same truncation SetName applies when the record is
// stored. First match wins; names are raw bytes, case-sensitive, no
// normalization.
func (sb *Superblock) dirLookup(parent ondisk.InodeRecord, name string) (uint64, error) {
	if !parent.IsDir() {
		return 0, ErrNotADirectory
	}
	if len(name) > ondisk.FilenameMaxLen {
		name = name[:ondisk.FilenameMaxLen]
	}

	buf, err := sb.dev.ReadBlock(parent.DataBlockNumber)
	if err != nil {
		return 0, err
	}
	defer buf.Release()

	data := buf.Bytes()
	for i := uint64(0); i < parent.DirChildrenCount(); i++ {
		off := i * ondisk.DirRecordSize
		rec, err := ondisk.DecodeDirRecord(data[off : off+ondisk.DirRecordSize])
		if err != nil {
			return 0, err
		}
		if rec.Name() == name {
			return rec.InodeNo, nil
		}
	}
	return 0, fmt.Errorf("assoofs: lookup %q: %w", name, ErrNotFound)
}

// dirAppendChild writes a new record at offset
// parent.DirChildrenCount*DirRecordSize, then bumps and persists the
// parent's child count.
func (sb *Superblock) dirAppendChild(parent *Inode, childIno uint64, name string) error {
	if !parent.rec.IsDir() {
		return ErrNotADirectory
	}

	off := parent.rec.DirChildrenCount() * ondisk.DirRecordSize
	if off+ondisk.DirRecordSize > ondisk.BlockSize {
		return fmt.Errorf("assoofs: append child %q: %w", name, ErrDirectoryFull)
	}

	buf, err := sb.dev.ReadBlock(parent.rec.DataBlockNumber)
	if err != nil {
		return err
	}
	defer buf.Release()

	var rec ondisk.DirRecord
	rec.InodeNo = childIno
	rec.SetName(name)
	copy(buf.Bytes()[off:off+ondisk.DirRecordSize], ondisk.EncodeDirRecord(&rec))
	buf.MarkDirty()
	if err := buf.Sync(); err != nil {
		return err
	}

	parent.rec.SetDirChildrenCount(parent.rec.DirChildrenCount() + 1)
	if err := sb.updateInodeRecord(parent.rec); err != nil {
		return err
	}
	sb.cacheInode(parent)
	return nil
}

// dirIterate walks up to n records (or all remaining when n<=0) starting
// at the given byte cursor, returning the entries found and the cursor to
// resume from. A non-zero cursor on an exhausted directory yields an
// empty slice, matching a one-shot enumeration contract.
func dirIterate(sb *Superblock, dir ondisk.InodeRecord, cursor int64, n int) ([]fs.DirEntry, int64, error) {
	if !dir.IsDir() {
		return nil, cursor, ErrNotADirectory
	}

	limit := int64(dir.DirChildrenCount()) * ondisk.DirRecordSize
	if cursor >= limit {
		return nil, cursor, nil
	}

	buf, err := sb.dev.ReadBlock(dir.DataBlockNumber)
	if err != nil {
		return nil, cursor, err
	}
	defer buf.Release()

	data := buf.Bytes()
	var out []fs.DirEntry
	for cursor < limit {
		rec, err := ondisk.DecodeDirRecord(data[cursor : cursor+ondisk.DirRecordSize])
		if err != nil {
			return nil, cursor, err
		}
		isDir := false
		if childRec, err := sb.getInodeRecord(rec.InodeNo); err == nil {
			isDir = childRec.IsDir()
		}
		out = append(out, &DirEntry{name: rec.Name(), ino: rec.InodeNo, isDir: isDir, sb: sb})
		cursor += ondisk.DirRecordSize
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out, cursor, nil
}

// Lookup resolves name within d, returning fs.ErrNotExist (not an assoofs
// error) on a miss so callers composing io/fs semantics get the contract
// they expect.
func (d *Dir) Lookup(name string) (*Inode, error) {
	childIno, err := d.sb.dirLookup(d.ino.rec, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fs.ErrNotExist
		}
		return nil, err
	}
	return d.sb.GetInode(childIno)
}

// ReadDir returns up to n directory entries (or all remaining when n<=0),
// advancing the *Dir's internal cursor. Once the directory is exhausted,
// further calls return an empty slice and a nil error, matching
// fs.ReadDirFile's contract and one-shot iterate semantics.
func (d *Dir) ReadDir(n int) ([]fs.DirEntry, error) {
	entries, next, err := dirIterate(d.sb, d.ino.rec, d.cursor, n)
	if err != nil {
		return nil, err
	}
	d.cursor = next
	return entries, nil
}
