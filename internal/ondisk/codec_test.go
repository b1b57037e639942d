package ondisk

import "testing"

func TestSuperblockRoundTrip(t *testing.T) {
	sb := &Superblock{
		Magic:       Magic,
		BlockSize:   BlockSize,
		InodesCount: 7,
		FreeBlocks:  0xfffffffffffffff8,
	}
	copy(sb.VolumeUUID[:], []byte("0123456789abcdef"))

	buf := EncodeSuperblock(sb)
	if len(buf) != BlockSize {
		t.Fatalf("encoded superblock size = %d, want %d", len(buf), BlockSize)
	}

	got, err := DecodeSuperblock(buf)
	if err != nil {
		t.Fatalf("DecodeSuperblock: %s", err)
	}
	if *got != *sb {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, sb)
	}
	if !got.Valid() {
		t.Errorf("decoded superblock should be Valid()")
	}
}

func TestSuperblockValid(t *testing.T) {
	cases := []struct {
		name string
		sb   Superblock
		want bool
	}{
		{"good", Superblock{Magic: Magic, BlockSize: BlockSize}, true},
		{"bad magic", Superblock{Magic: 0xdead, BlockSize: BlockSize}, false},
		{"bad block size", Superblock{Magic: Magic, BlockSize: 512}, false},
	}
	for _, c := range cases {
		if got := c.sb.Valid(); got != c.want {
			t.Errorf("%s: Valid() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestDecodeSuperblockShortBuffer(t *testing.T) {
	if _, err := DecodeSuperblock(make([]byte, 10)); err == nil {
		t.Error("expected error decoding short buffer")
	}
}

func TestBlockBitmap(t *testing.T) {
	sb := &Superblock{FreeBlocks: 0}
	sb.SetBlock(5)
	if !sb.BlockFree(5) {
		t.Error("block 5 should be free after SetBlock")
	}
	sb.ClearBlock(5)
	if sb.BlockFree(5) {
		t.Error("block 5 should not be free after ClearBlock")
	}
}

func TestInodeRecordRoundTrip(t *testing.T) {
	rec := InodeRecord{
		InodeNo:         42,
		Mode:            SIFREG | 0644,
		DataBlockNumber: 9,
	}
	rec.SetFileSize(123)

	buf := EncodeInodeRecord(&rec)
	if len(buf) != InodeRecordSize {
		t.Fatalf("encoded inode record size = %d, want %d", len(buf), InodeRecordSize)
	}

	got, err := DecodeInodeRecord(buf)
	if err != nil {
		t.Fatalf("DecodeInodeRecord: %s", err)
	}
	if got != rec {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, rec)
	}
	if !got.IsRegular() || got.IsDir() {
		t.Errorf("mode tag lost in round trip: %#o", got.Mode)
	}
	if got.FileSize() != 123 {
		t.Errorf("FileSize() = %d, want 123", got.FileSize())
	}
}

func TestDirRecordRoundTrip(t *testing.T) {
	var rec DirRecord
	rec.InodeNo = 11
	rec.SetName("hello.txt")

	buf := EncodeDirRecord(&rec)
	if len(buf) != DirRecordSize {
		t.Fatalf("encoded dir record size = %d, want %d", len(buf), DirRecordSize)
	}

	got, err := DecodeDirRecord(buf)
	if err != nil {
		t.Fatalf("DecodeDirRecord: %s", err)
	}
	if got.InodeNo != 11 || got.Name() != "hello.txt" {
		t.Errorf("round trip mismatch: got InodeNo=%d Name=%q", got.InodeNo, got.Name())
	}
}

func TestDirRecordNameTruncation(t *testing.T) {
	var rec DirRecord
	long := ""
	for i := 0; i < FilenameMaxLen+20; i++ {
		long += "x"
	}
	rec.SetName(long)
	if len(rec.Name()) != FilenameMaxLen {
		t.Errorf("Name() length = %d, want %d", len(rec.Name()), FilenameMaxLen)
	}
}
