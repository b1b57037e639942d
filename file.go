package assoofs

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sync"
	"time"

	"github.com/assoofs-project/assoofs/internal/ondisk"
)

// File is a convenience object allowing an inode to be used as a regular
// file, implementing fs.File, io.ReaderAt and io.WriterAt. assoofs files
// hold at most one data block, so ReadAt/WriteAt
// never need to walk a block chain.
type File struct {
	sb   *Superblock
	ino  *Inode
	name string

	mu  sync.Mutex
	pos int64
}

var _ fs.File = (*File)(nil)
var _ io.ReaderAt = (*File)(nil)
var _ io.WriterAt = (*File)(nil)

// ReadAt reads min(FileSize-off, len(p)) bytes from the file's single data
// block. off >= FileSize returns (0, io.EOF); reads are always satisfied
// by a single block since assoofs supports only single-block files.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if !f.ino.rec.IsRegular() {
		return 0, fmt.Errorf("assoofs: read: %w", ErrNotADirectory)
	}

	size := int64(f.ino.rec.FileSize())
	if off >= size {
		return 0, io.EOF
	}
	want := len(p)
	if off+int64(len(p)) > size {
		p = p[:size-off]
	}
	if off+int64(len(p)) > ondisk.BlockSize {
		return 0, fmt.Errorf("assoofs: read: offset beyond single data block: %w", ErrIO)
	}

	buf, err := f.sb.dev.ReadBlock(f.ino.rec.DataBlockNumber)
	if err != nil {
		return 0, fmt.Errorf("assoofs: read: %w", err)
	}
	defer buf.Release()

	n := copy(p, buf.Bytes()[off:off+int64(len(p))])
	if n < want {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt copies p into the file's single data block at offset off, then
// sets FileSize = off + len(p) so a write past the current end grows the
// reported size to cover what was actually written.
func (f *File) WriteAt(p []byte, off int64) (int, error) {
	if !f.ino.rec.IsRegular() {
		return 0, fmt.Errorf("assoofs: write: %w", ErrNotADirectory)
	}
	if off < 0 || off+int64(len(p)) > ondisk.BlockSize {
		return 0, fmt.Errorf("assoofs: write: exceeds single data block (%d bytes): %w", ondisk.MaxFileSize, ErrIO)
	}

	buf, err := f.sb.dev.ReadBlock(f.ino.rec.DataBlockNumber)
	if err != nil {
		return 0, fmt.Errorf("assoofs: write: %w", err)
	}
	defer buf.Release()

	n := copy(buf.Bytes()[off:], p)
	buf.MarkDirty()
	if err := buf.Sync(); err != nil {
		return n, fmt.Errorf("assoofs: write: %w", err)
	}

	f.ino.rec.SetFileSize(uint64(off) + uint64(n))
	if err := f.sb.updateInodeRecord(f.ino.rec); err != nil {
		return n, err
	}
	f.sb.cacheInode(f.ino)
	return n, nil
}

// Read implements fs.File/io.Reader using the File's internal sequential
// position, in the manner of os.File.
func (f *File) Read(p []byte) (int, error) {
	f.mu.Lock()
	pos := f.pos
	f.mu.Unlock()

	n, err := f.ReadAt(p, pos)
	f.mu.Lock()
	f.pos += int64(n)
	f.mu.Unlock()
	return n, err
}

// Write implements io.Writer using the File's internal sequential
// position.
func (f *File) Write(p []byte) (int, error) {
	f.mu.Lock()
	pos := f.pos
	f.mu.Unlock()

	n, err := f.WriteAt(p, pos)
	f.mu.Lock()
	f.pos += int64(n)
	f.mu.Unlock()
	return n, err
}

// Stat returns the file's fs.FileInfo.
func (f *File) Stat() (fs.FileInfo, error) {
	return &fileinfo{name: path.Base(f.name), ino: f.ino}, nil
}

// Close is a no-op; assoofs holds no open-file state beyond the in-memory
// position tracked here.
func (f *File) Close() error { return nil }

// fileinfo implements fs.FileInfo over an *Inode.
type fileinfo struct {
	name string
	ino  *Inode
}

var _ fs.FileInfo = (*fileinfo)(nil)

func (fi *fileinfo) Name() string       { return fi.name }
func (fi *fileinfo) Size() int64        { return fi.ino.Size() }
func (fi *fileinfo) Mode() fs.FileMode  { return fi.ino.Mode() }
func (fi *fileinfo) ModTime() time.Time { return fi.ino.ModTime() }
func (fi *fileinfo) IsDir() bool        { return fi.ino.IsDir() }
func (fi *fileinfo) Sys() any           { return fi.ino }

// FileDir is a convenience object allowing a directory inode to be used as
// an fs.ReadDirFile.
type FileDir struct {
	name string
	dir  *Dir
}

var _ fs.ReadDirFile = (*FileDir)(nil)

func (d *FileDir) Read(p []byte) (int, error)  { return 0, fs.ErrInvalid }
func (d *FileDir) Close() error                { return nil }
func (d *FileDir) ReadDir(n int) ([]fs.DirEntry, error) { return d.dir.ReadDir(n) }
func (d *FileDir) Stat() (fs.FileInfo, error) {
	return &fileinfo{name: path.Base(d.name), ino: d.dir.ino}, nil
}
