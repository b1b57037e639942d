package ondisk

import "errors"

// Package-specific sentinel error variables, usable with errors.Is().
var (
	// ErrBadSuperblock is returned when a block 0 does not carry the
	// expected magic number or block size.
	ErrBadSuperblock = errors.New("assoofs: bad superblock")

	// ErrNotFound is returned when an inode number or directory entry
	// does not exist.
	ErrNotFound = errors.New("assoofs: not found")

	// ErrNoSpace is returned when the inode store or free-block bitmap
	// has no room left.
	ErrNoSpace = errors.New("assoofs: no space left on device")

	// ErrDirectoryFull is returned when a directory's single data block
	// has no room for another child record.
	ErrDirectoryFull = errors.New("assoofs: directory full")

	// ErrNotADirectory is returned when a directory operation targets a
	// regular file.
	ErrNotADirectory = errors.New("assoofs: not a directory")

	// ErrIO is returned when the underlying block device fails a read or
	// write.
	ErrIO = errors.New("assoofs: i/o error")

	// ErrMountFailed is returned when fill_super cannot build the root
	// inode.
	ErrMountFailed = errors.New("assoofs: mount failed")
)
