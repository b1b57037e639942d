package invariant

import (
	"io"
	"strings"
	"testing"

	"github.com/assoofs-project/assoofs/internal/blockio"
	"github.com/assoofs-project/assoofs/internal/ondisk"
)

// memDevice is an in-memory io.ReaderAt/io.WriterAt, the same minimal
// harness blockio_test.go uses.
type memDevice struct {
	data []byte
}

func newMemDevice(blocks int) *memDevice {
	return &memDevice{data: make([]byte, blocks*ondisk.BlockSize)}
}

func (m *memDevice) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memDevice) WriteAt(p []byte, off int64) (int, error) {
	if off+int64(len(p)) > int64(len(m.data)) {
		return 0, io.ErrShortWrite
	}
	return copy(m.data[off:], p), nil
}

// freshImage writes a minimal valid assoofs image: superblock, inode store
// with just the root record, empty root directory block.
func freshImage(t *testing.T) *memDevice {
	t.Helper()
	mem := newMemDevice(ondisk.MaxObjects)

	sb := ondisk.Superblock{Magic: ondisk.Magic, BlockSize: ondisk.BlockSize, InodesCount: 1}
	for b := ondisk.FirstDataBlock(); b < ondisk.MaxObjects; b++ {
		sb.SetBlock(b)
	}
	if _, err := mem.WriteAt(ondisk.EncodeSuperblock(&sb), int64(ondisk.SuperblockNo)*ondisk.BlockSize); err != nil {
		t.Fatalf("write superblock: %s", err)
	}

	root := ondisk.InodeRecord{InodeNo: ondisk.RootIno, Mode: ondisk.SIFDIR | 0755, DataBlockNumber: ondisk.RootDataBlockNo}
	root.SetDirChildrenCount(0)
	store := make([]byte, ondisk.BlockSize)
	copy(store, ondisk.EncodeInodeRecord(&root))
	if _, err := mem.WriteAt(store, int64(ondisk.InodeStoreNo)*ondisk.BlockSize); err != nil {
		t.Fatalf("write inode store: %s", err)
	}
	return mem
}

func TestCheckImageAcceptsFreshImage(t *testing.T) {
	dev := blockio.New(freshImage(t))
	if err := CheckImage(dev); err != nil {
		t.Fatalf("CheckImage on a freshly formatted image: %s", err)
	}
}

func TestCheckImageCatchesBadMagic(t *testing.T) {
	mem := freshImage(t)
	sb := ondisk.Superblock{Magic: 0xbad, BlockSize: ondisk.BlockSize, InodesCount: 1}
	if _, err := mem.WriteAt(ondisk.EncodeSuperblock(&sb), int64(ondisk.SuperblockNo)*ondisk.BlockSize); err != nil {
		t.Fatalf("rewrite superblock: %s", err)
	}

	err := CheckImage(blockio.New(mem))
	if err == nil || !strings.Contains(err.Error(), "invariant 1") {
		t.Fatalf("expected invariant 1 violation, got %v", err)
	}
}

func TestCheckImageCatchesDuplicateInodeNumber(t *testing.T) {
	mem := freshImage(t)

	dup := ondisk.InodeRecord{InodeNo: ondisk.RootIno, Mode: ondisk.SIFREG, DataBlockNumber: ondisk.FirstDataBlock()}
	dup.SetFileSize(0)
	store := make([]byte, ondisk.BlockSize)
	root := ondisk.InodeRecord{InodeNo: ondisk.RootIno, Mode: ondisk.SIFDIR | 0755, DataBlockNumber: ondisk.RootDataBlockNo}
	root.SetDirChildrenCount(0)
	copy(store[0:ondisk.InodeRecordSize], ondisk.EncodeInodeRecord(&root))
	copy(store[ondisk.InodeRecordSize:2*ondisk.InodeRecordSize], ondisk.EncodeInodeRecord(&dup))
	if _, err := mem.WriteAt(store, int64(ondisk.InodeStoreNo)*ondisk.BlockSize); err != nil {
		t.Fatalf("rewrite inode store: %s", err)
	}

	sb := ondisk.Superblock{Magic: ondisk.Magic, BlockSize: ondisk.BlockSize, InodesCount: 2}
	for b := ondisk.FirstDataBlock(); b < ondisk.MaxObjects; b++ {
		sb.SetBlock(b)
	}
	sb.ClearBlock(ondisk.FirstDataBlock())
	if _, err := mem.WriteAt(ondisk.EncodeSuperblock(&sb), int64(ondisk.SuperblockNo)*ondisk.BlockSize); err != nil {
		t.Fatalf("rewrite superblock: %s", err)
	}

	err := CheckImage(blockio.New(mem))
	if err == nil || !strings.Contains(err.Error(), "invariant 3") {
		t.Fatalf("expected invariant 3 violation, got %v", err)
	}
}

func TestCheckImageCatchesUnallocatedDataBlock(t *testing.T) {
	mem := freshImage(t)

	// Root's data block (2) is reserved and always allocated; point a
	// second inode at a block the bitmap still shows free instead.
	child := ondisk.InodeRecord{InodeNo: 11, Mode: ondisk.SIFREG, DataBlockNumber: ondisk.FirstDataBlock()}
	child.SetFileSize(0)
	store := make([]byte, ondisk.BlockSize)
	root := ondisk.InodeRecord{InodeNo: ondisk.RootIno, Mode: ondisk.SIFDIR | 0755, DataBlockNumber: ondisk.RootDataBlockNo}
	root.SetDirChildrenCount(0)
	copy(store[0:ondisk.InodeRecordSize], ondisk.EncodeInodeRecord(&root))
	copy(store[ondisk.InodeRecordSize:2*ondisk.InodeRecordSize], ondisk.EncodeInodeRecord(&child))
	if _, err := mem.WriteAt(store, int64(ondisk.InodeStoreNo)*ondisk.BlockSize); err != nil {
		t.Fatalf("rewrite inode store: %s", err)
	}

	sb := ondisk.Superblock{Magic: ondisk.Magic, BlockSize: ondisk.BlockSize, InodesCount: 2}
	for b := ondisk.FirstDataBlock(); b < ondisk.MaxObjects; b++ {
		sb.SetBlock(b)
	}
	// Leave FirstDataBlock() marked free, contradicting child's claim on it.
	if _, err := mem.WriteAt(ondisk.EncodeSuperblock(&sb), int64(ondisk.SuperblockNo)*ondisk.BlockSize); err != nil {
		t.Fatalf("rewrite superblock: %s", err)
	}

	err := CheckImage(blockio.New(mem))
	if err == nil || !strings.Contains(err.Error(), "invariant 2") {
		t.Fatalf("expected invariant 2 violation, got %v", err)
	}
}

func TestCheckImageCatchesDanglingDirEntry(t *testing.T) {
	mem := freshImage(t)

	root := ondisk.InodeRecord{InodeNo: ondisk.RootIno, Mode: ondisk.SIFDIR | 0755, DataBlockNumber: ondisk.RootDataBlockNo}
	root.SetDirChildrenCount(1)
	store := make([]byte, ondisk.BlockSize)
	copy(store[0:ondisk.InodeRecordSize], ondisk.EncodeInodeRecord(&root))
	if _, err := mem.WriteAt(store, int64(ondisk.InodeStoreNo)*ondisk.BlockSize); err != nil {
		t.Fatalf("rewrite inode store: %s", err)
	}

	var rec ondisk.DirRecord
	rec.InodeNo = 999 // never appended to the inode store
	rec.SetName("ghost")
	dirBlock := make([]byte, ondisk.BlockSize)
	copy(dirBlock, ondisk.EncodeDirRecord(&rec))
	if _, err := mem.WriteAt(dirBlock, int64(ondisk.RootDataBlockNo)*ondisk.BlockSize); err != nil {
		t.Fatalf("rewrite root directory block: %s", err)
	}

	err := CheckImage(blockio.New(mem))
	if err == nil || !strings.Contains(err.Error(), "invariant 4") {
		t.Fatalf("expected invariant 4 violation, got %v", err)
	}
}

func TestCheckImageCatchesReservedBlockMarkedFree(t *testing.T) {
	mem := freshImage(t)

	sb := ondisk.Superblock{Magic: ondisk.Magic, BlockSize: ondisk.BlockSize, InodesCount: 1}
	for b := uint64(0); b < ondisk.MaxObjects; b++ {
		sb.SetBlock(b) // including the reserved blocks, which must never be free
	}
	if _, err := mem.WriteAt(ondisk.EncodeSuperblock(&sb), int64(ondisk.SuperblockNo)*ondisk.BlockSize); err != nil {
		t.Fatalf("rewrite superblock: %s", err)
	}

	err := CheckImage(blockio.New(mem))
	if err == nil || !strings.Contains(err.Error(), "invariant 7") {
		t.Fatalf("expected invariant 7 violation, got %v", err)
	}
}
