package assoofs

import (
	"io/fs"

	"github.com/assoofs-project/assoofs/internal/ondisk"
)

// assoofs inode modes only ever distinguish directory from regular file
// (see ondisk.SIFDIR / ondisk.SIFREG); unlike a general-purpose Unix mode
// mapper this one has nothing else to tag.

// UnixToMode converts an assoofs on-disk mode bitmask into a fs.FileMode.
func UnixToMode(mode uint32) fs.FileMode {
	res := fs.FileMode(mode & 0777)

	if mode&ondisk.SIFDIR == ondisk.SIFDIR {
		res |= fs.ModeDir
	}

	return res
}

// ModeToUnix converts a fs.FileMode into an assoofs on-disk mode bitmask.
func ModeToUnix(mode fs.FileMode) uint32 {
	res := uint32(mode.Perm())

	if mode&fs.ModeDir == fs.ModeDir {
		res |= ondisk.SIFDIR
	} else {
		res |= ondisk.SIFREG
	}

	return res
}
