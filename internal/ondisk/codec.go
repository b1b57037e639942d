package ondisk

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// order is the byte order used throughout an assoofs image. Unlike
// squashfs, which switches between little and big endian based on its
// magic bytes, assoofs images are always written by mkassoofs on the host
// running them, so one fixed order keeps the codec simple.
var order = binary.LittleEndian

// EncodeSuperblock serializes sb into a BlockSize-sized buffer suitable
// for writing to block 0.
func EncodeSuperblock(sb *Superblock) []byte {
	buf := make([]byte, BlockSize)
	w := bytes.NewBuffer(buf[:0])
	binary.Write(w, order, sb.Magic)
	binary.Write(w, order, sb.BlockSize)
	binary.Write(w, order, sb.InodesCount)
	binary.Write(w, order, sb.FreeBlocks)
	binary.Write(w, order, sb.VolumeUUID)
	out := w.Bytes()
	copy(buf, out)
	return buf
}

// DecodeSuperblock parses the first bytes of a block-0 buffer into a
// Superblock. It does not validate Magic/BlockSize; callers check Valid().
func DecodeSuperblock(buf []byte) (*Superblock, error) {
	if len(buf) < BlockSize {
		return nil, fmt.Errorf("ondisk: superblock buffer too short: %w", ErrIO)
	}
	r := bytes.NewReader(buf)
	sb := &Superblock{}
	for _, f := range []any{&sb.Magic, &sb.BlockSize, &sb.InodesCount, &sb.FreeBlocks, &sb.VolumeUUID} {
		if err := binary.Read(r, order, f); err != nil {
			return nil, fmt.Errorf("ondisk: decode superblock: %w", err)
		}
	}
	return sb, nil
}

// EncodeInodeRecord serializes rec into a fixed InodeRecordSize buffer.
func EncodeInodeRecord(rec *InodeRecord) []byte {
	buf := make([]byte, InodeRecordSize)
	w := bytes.NewBuffer(buf[:0])
	binary.Write(w, order, rec.InodeNo)
	binary.Write(w, order, rec.Mode)
	binary.Write(w, order, uint32(0))
	binary.Write(w, order, rec.DataBlockNumber)
	binary.Write(w, order, rec.ChildrenOrSize)
	return w.Bytes()
}

// DecodeInodeRecord parses a fixed InodeRecordSize buffer into an
// InodeRecord.
func DecodeInodeRecord(buf []byte) (InodeRecord, error) {
	var rec InodeRecord
	if len(buf) < InodeRecordSize {
		return rec, fmt.Errorf("ondisk: inode record buffer too short: %w", ErrIO)
	}
	r := bytes.NewReader(buf)
	var pad uint32
	for _, f := range []any{&rec.InodeNo, &rec.Mode, &pad, &rec.DataBlockNumber, &rec.ChildrenOrSize} {
		if err := binary.Read(r, order, f); err != nil {
			return rec, fmt.Errorf("ondisk: decode inode record: %w", err)
		}
	}
	return rec, nil
}

// EncodeDirRecord serializes rec into a fixed DirRecordSize buffer.
func EncodeDirRecord(rec *DirRecord) []byte {
	buf := make([]byte, DirRecordSize)
	w := bytes.NewBuffer(buf[:0])
	binary.Write(w, order, rec.InodeNo)
	binary.Write(w, order, rec.Filename)
	return w.Bytes()
}

// DecodeDirRecord parses a fixed DirRecordSize buffer into a DirRecord.
func DecodeDirRecord(buf []byte) (DirRecord, error) {
	var rec DirRecord
	if len(buf) < DirRecordSize {
		return rec, fmt.Errorf("ondisk: dir record buffer too short: %w", ErrIO)
	}
	r := bytes.NewReader(buf)
	if err := binary.Read(r, order, &rec.InodeNo); err != nil {
		return rec, fmt.Errorf("ondisk: decode dir record: %w", err)
	}
	if err := binary.Read(r, order, &rec.Filename); err != nil {
		return rec, fmt.Errorf("ondisk: decode dir record: %w", err)
	}
	return rec, nil
}
