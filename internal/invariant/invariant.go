// Package invariant re-reads a mounted image from scratch and checks the
// seven persisted invariants an assoofs image must satisfy after every
// operation. It is read-only — callers run it between operations in a
// test to catch a violation introduced by the operation that just ran,
// rather than trusting in-memory state that might not match what was
// actually persisted.
package invariant

import (
	"errors"
	"fmt"

	"github.com/assoofs-project/assoofs/internal/blockio"
	"github.com/assoofs-project/assoofs/internal/ondisk"
)

// CheckImage validates invariants 1-7 against the current contents of
// dev: the superblock, every inode record in the inode store, and every
// directory inode's data block. It returns a joined error naming every
// violation found, or nil if the image is consistent.
func CheckImage(dev *blockio.Device) error {
	sbRec, err := readSuperblock(dev)
	if err != nil {
		return err
	}

	var errs []error
	if !sbRec.Valid() {
		errs = append(errs, errors.New("invariant 1: superblock Magic/BlockSize does not match the compile-time constants"))
	}
	if err := checkReservedBitsCleared(sbRec); err != nil {
		errs = append(errs, err)
	}

	recs, err := readInodeRecords(dev, sbRec)
	if err != nil {
		errs = append(errs, err)
		return errors.Join(errs...)
	}

	seenIno := make(map[uint64]bool, len(recs))
	seenBlock := make(map[uint64]uint64, len(recs))
	for _, rec := range recs {
		if seenIno[rec.InodeNo] {
			errs = append(errs, fmt.Errorf("invariant 3: inode number %d appears more than once in the inode store", rec.InodeNo))
		}
		seenIno[rec.InodeNo] = true

		if sbRec.BlockFree(rec.DataBlockNumber) {
			errs = append(errs, fmt.Errorf("invariant 2: inode %d's data block %d is marked free", rec.InodeNo, rec.DataBlockNumber))
		}

		if owner, ok := seenBlock[rec.DataBlockNumber]; ok {
			errs = append(errs, fmt.Errorf("invariant 6: inodes %d and %d share data block %d", owner, rec.InodeNo, rec.DataBlockNumber))
		} else {
			seenBlock[rec.DataBlockNumber] = rec.InodeNo
		}
	}

	for _, rec := range recs {
		if !rec.IsDir() {
			continue
		}
		if err := checkDirChildrenExist(dev, rec, seenIno); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func readSuperblock(dev *blockio.Device) (ondisk.Superblock, error) {
	buf, err := dev.ReadBlock(ondisk.SuperblockNo)
	if err != nil {
		return ondisk.Superblock{}, fmt.Errorf("invariant: read superblock: %w", err)
	}
	defer buf.Release()

	rec, err := ondisk.DecodeSuperblock(buf.Bytes())
	if err != nil {
		return ondisk.Superblock{}, fmt.Errorf("invariant: decode superblock: %w", err)
	}
	return *rec, nil
}

// checkReservedBitsCleared is invariant 7: blocks 0..FirstDataBlock()-1
// are never free.
func checkReservedBitsCleared(sb ondisk.Superblock) error {
	for b := uint64(0); b < ondisk.FirstDataBlock(); b++ {
		if sb.BlockFree(b) {
			return fmt.Errorf("invariant 7: reserved block %d is marked free", b)
		}
	}
	return nil
}

// readInodeRecords is also invariant 5: InodesCount must not overflow the
// inode store's single block, so every counted record decodes cleanly.
func readInodeRecords(dev *blockio.Device, sb ondisk.Superblock) ([]ondisk.InodeRecord, error) {
	buf, err := dev.ReadBlock(ondisk.InodeStoreNo)
	if err != nil {
		return nil, fmt.Errorf("invariant: read inode store: %w", err)
	}
	defer buf.Release()

	data := buf.Bytes()
	recs := make([]ondisk.InodeRecord, 0, sb.InodesCount)
	for i := uint64(0); i < sb.InodesCount; i++ {
		off := i * ondisk.InodeRecordSize
		if off+ondisk.InodeRecordSize > ondisk.BlockSize {
			return nil, fmt.Errorf("invariant 5: InodesCount=%d overflows the inode store block", sb.InodesCount)
		}
		rec, err := ondisk.DecodeInodeRecord(data[off : off+ondisk.InodeRecordSize])
		if err != nil {
			return nil, fmt.Errorf("invariant: decode inode record %d: %w", i, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// checkDirChildrenExist is invariant 4: every child a directory records
// in its first DirChildrenCount entries must name an inode that actually
// exists in the inode store.
func checkDirChildrenExist(dev *blockio.Device, dir ondisk.InodeRecord, existing map[uint64]bool) error {
	buf, err := dev.ReadBlock(dir.DataBlockNumber)
	if err != nil {
		return fmt.Errorf("invariant 4: read directory %d's data block: %w", dir.InodeNo, err)
	}
	defer buf.Release()

	data := buf.Bytes()
	for i := uint64(0); i < dir.DirChildrenCount(); i++ {
		off := i * ondisk.DirRecordSize
		rec, err := ondisk.DecodeDirRecord(data[off : off+ondisk.DirRecordSize])
		if err != nil {
			return fmt.Errorf("invariant 4: decode directory %d record %d: %w", dir.InodeNo, i, err)
		}
		if !existing[rec.InodeNo] {
			return fmt.Errorf("invariant 4: directory %d references inode %d, which is not in the inode store", dir.InodeNo, rec.InodeNo)
		}
	}
	return nil
}
