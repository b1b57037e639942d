package assoofs

import "github.com/assoofs-project/assoofs/internal/ondisk"

// Package-specific error variables that can be used with errors.Is() for
// error handling. They alias the sentinels defined in internal/ondisk so
// callers never need to import that package directly.
var (
	// ErrBadSuperblock is returned by Mount when block 0 does not carry
	// the expected magic number or block size.
	ErrBadSuperblock = ondisk.ErrBadSuperblock

	// ErrNotFound is returned when an inode number or directory entry
	// does not exist.
	ErrNotFound = ondisk.ErrNotFound

	// ErrNoSpace is returned when the inode store or free-block bitmap
	// has no room left.
	ErrNoSpace = ondisk.ErrNoSpace

	// ErrDirectoryFull is returned when a directory's data block has no
	// room for another child record.
	ErrDirectoryFull = ondisk.ErrDirectoryFull

	// ErrNotADirectory is returned when a directory operation targets a
	// regular file.
	ErrNotADirectory = ondisk.ErrNotADirectory

	// ErrIO is returned when the underlying block device fails a read or
	// write.
	ErrIO = ondisk.ErrIO

	// ErrMountFailed is returned when Mount cannot build the root inode.
	ErrMountFailed = ondisk.ErrMountFailed
)
