package ondisk

// Superblock is the in-memory form of block 0.
type Superblock struct {
	Magic       uint64
	BlockSize   uint64
	InodesCount uint64
	FreeBlocks  uint64 // bit i set => block i is free
	VolumeUUID  [16]byte
}

// Valid reports whether the decoded superblock matches the compile-time
// format constants.
func (s *Superblock) Valid() bool {
	return s.Magic == Magic && s.BlockSize == BlockSize
}

// BlockFree reports whether block n is currently unallocated.
func (s *Superblock) BlockFree(n uint64) bool {
	return s.FreeBlocks&(1<<n) != 0
}

// ClearBlock marks block n allocated.
func (s *Superblock) ClearBlock(n uint64) {
	s.FreeBlocks &^= 1 << n
}

// SetBlock marks block n free. No filesystem operation in the core calls
// it (there is no delete path); mkassoofs and test image builders use it
// to mark the initial data blocks free.
func (s *Superblock) SetBlock(n uint64) {
	s.FreeBlocks |= 1 << n
}

// InodeRecord is the in-memory form of one persistent inode-store entry.
// ChildrenOrSize is a tagged union: for directories it holds
// DirChildrenCount, for regular files it holds FileSize. Both share the
// same on-disk offset.
type InodeRecord struct {
	InodeNo         uint64
	Mode            uint32
	_               uint32 // on-disk padding, kept for stable record size
	DataBlockNumber uint64
	ChildrenOrSize  uint64
}

// IsDir reports whether the record's mode tags it as a directory.
func (r *InodeRecord) IsDir() bool { return r.Mode&SIFDIR == SIFDIR }

// IsRegular reports whether the record's mode tags it as a regular file.
func (r *InodeRecord) IsRegular() bool { return r.Mode&SIFREG == SIFREG }

// FileSize returns ChildrenOrSize interpreted as a byte count. Valid only
// when IsRegular().
func (r *InodeRecord) FileSize() uint64 { return r.ChildrenOrSize }

// DirChildrenCount returns ChildrenOrSize interpreted as an entry count.
// Valid only when IsDir().
func (r *InodeRecord) DirChildrenCount() uint64 { return r.ChildrenOrSize }

// SetFileSize stores a byte count into the shared field.
func (r *InodeRecord) SetFileSize(n uint64) { r.ChildrenOrSize = n }

// SetDirChildrenCount stores an entry count into the shared field.
func (r *InodeRecord) SetDirChildrenCount(n uint64) { r.ChildrenOrSize = n }

// DirRecord is one fixed-size entry in a directory's data block.
type DirRecord struct {
	InodeNo  uint64
	Filename [FilenameMaxLen]byte
}

// Name returns the directory record's filename with the zero padding
// trimmed.
func (d *DirRecord) Name() string {
	n := 0
	for n < len(d.Filename) && d.Filename[n] != 0 {
		n++
	}
	return string(d.Filename[:n])
}

// SetName copies name into the fixed-size, zero-padded Filename field. The
// name is truncated (raw bytes, no normalization) if it does not fit.
func (d *DirRecord) SetName(name string) {
	d.Filename = [FilenameMaxLen]byte{}
	copy(d.Filename[:], name)
}
