// Package ondisk defines the on-disk layout of an assoofs image: the
// superblock, inode records and directory records, and the pure
// decode/encode routines between those in-memory forms and a block-sized
// byte buffer. The package performs no I/O of its own.
package ondisk

const (
	// Magic identifies an assoofs image. Must match the first 8 bytes of
	// block 0.
	Magic uint64 = 0x20210102

	// BlockSize is the fixed I/O quantum of an assoofs image.
	BlockSize = 4096

	// MaxObjects bounds how many inode records fit in the single inode
	// store block.
	MaxObjects = 64

	// FilenameMaxLen is the zero-padded filename length stored in every
	// directory record. Chosen so that a directory's single data block
	// can hold MaxObjects-1 children, wide enough that directory
	// capacity is never the binding NoSpace constraint (the block
	// allocator is, since only MaxObjects-FirstDataBlock() blocks remain
	// once the reserved blocks are excluded).
	FilenameMaxLen = 48

	// Reserved block numbers.
	SuperblockNo    uint64 = 0
	InodeStoreNo    uint64 = 1
	RootDataBlockNo uint64 = 2
	firstDataBlock  uint64 = 3

	// RootIno is the inode number of the root directory.
	RootIno uint64 = 1

	// StartIno and ReservedInodes feed the "next inode number" formula:
	// next = inodesCount + StartIno - ReservedInodes + 1.
	StartIno       uint64 = 10
	ReservedInodes uint64 = 1

	// Unix mode bits used to tag inode records, mirroring the values the
	// Linux kernel (and squashfs.mode.go) use.
	SIFDIR uint32 = 0x4000
	SIFREG uint32 = 0x8000
	SIFMT  uint32 = 0xf000
)

// InodeRecordSize is the fixed on-disk size of one InodeRecord.
const InodeRecordSize = 8 + 4 + 4 + 8 + 8

// DirRecordSize is the fixed on-disk size of one DirRecord.
const DirRecordSize = 8 + FilenameMaxLen

// FirstDataBlock returns the first block number handed out by the
// allocator.
func FirstDataBlock() uint64 { return firstDataBlock }

// MaxFileSize is the largest byte count a regular file may hold. assoofs
// supports only single-block files, so this is exactly BlockSize.
const MaxFileSize = BlockSize
