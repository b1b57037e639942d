// Package assoofs implements a small persistent on-disk filesystem: a
// hierarchical directory tree, single-block regular files, and fixed-size
// block storage over any io.ReaderAt (optionally also io.WriterAt).
//
// The on-disk layout, superblock/inode bookkeeping, free-block allocator
// and path-resolution algorithms live here and in
// internal/ondisk and internal/blockio. There is no real kernel VFS in this
// rendition, so "mounting" means decoding block 0 of the given device and
// building the in-memory root inode (see Mount).
package assoofs

import (
	"fmt"
	"log"
	"sync"

	"github.com/assoofs-project/assoofs/internal/blockio"
	"github.com/assoofs-project/assoofs/internal/ondisk"
)

// Superblock is the live, mounted association between a device and its
// in-memory assoofs state.
type Superblock struct {
	mu  sync.Mutex
	dev *blockio.Device
	log *log.Logger

	root *Inode

	inoCacheMu sync.RWMutex
	inoCache   map[uint64]*Inode
}

// Mount reads block 0 of dev, validates it, and builds the in-memory root
// inode.
func Mount(dev *blockio.Device, opts ...Option) (*Superblock, error) {
	sb := &Superblock{
		dev:      dev,
		log:      log.Default(),
		inoCache: make(map[uint64]*Inode),
	}
	for _, opt := range opts {
		if err := opt(sb); err != nil {
			return nil, err
		}
	}

	buf, err := dev.ReadBlock(ondisk.SuperblockNo)
	if err != nil {
		return nil, err
	}
	rec, err := ondisk.DecodeSuperblock(buf.Bytes())
	buf.Release()
	if err != nil {
		return nil, fmt.Errorf("assoofs: mount: %w: %w", ondisk.ErrBadSuperblock, err)
	}
	if !rec.Valid() {
		return nil, fmt.Errorf("assoofs: mount: %w", ondisk.ErrBadSuperblock)
	}

	root, err := sb.GetInode(ondisk.RootIno)
	if err != nil {
		return nil, fmt.Errorf("assoofs: mount: %w: %w", ondisk.ErrMountFailed, err)
	}
	if !root.IsDir() {
		return nil, fmt.Errorf("assoofs: mount: root is not a directory: %w", ondisk.ErrMountFailed)
	}
	sb.root = root

	sb.log.Printf("assoofs: mounted, inodes=%d", rec.InodesCount)
	return sb, nil
}

// Root returns the mount's root directory inode.
func (sb *Superblock) Root() *Inode { return sb.root }

// readSuper reads and decodes block 0, releasing the buffer before
// returning (the superblock struct is small and copied by value, so
// nothing is gained by holding the buffer past the decode).
func (sb *Superblock) readSuper() (ondisk.Superblock, error) {
	buf, err := sb.dev.ReadBlock(ondisk.SuperblockNo)
	if err != nil {
		return ondisk.Superblock{}, err
	}
	defer buf.Release()
	rec, err := ondisk.DecodeSuperblock(buf.Bytes())
	if err != nil {
		return ondisk.Superblock{}, err
	}
	return *rec, nil
}

// writeSuper persists rec to block 0 under a fresh durability barrier.
func (sb *Superblock) writeSuper(rec ondisk.Superblock) error {
	buf, err := sb.dev.ReadBlock(ondisk.SuperblockNo)
	if err != nil {
		return err
	}
	defer buf.Release()
	copy(buf.Bytes(), ondisk.EncodeSuperblock(&rec))
	buf.MarkDirty()
	return buf.Sync()
}

// acquireBlock implements the free-block allocator: scan
// FreeBlocks from bit 3 upward, tie-break on lowest index, clear the bit,
// and persist the superblock immediately.
func (sb *Superblock) acquireBlock() (uint64, error) {
	rec, err := sb.readSuper()
	if err != nil {
		return 0, err
	}

	for b := ondisk.FirstDataBlock(); b < ondisk.MaxObjects; b++ {
		if rec.BlockFree(b) {
			rec.ClearBlock(b)
			if err := sb.writeSuper(rec); err != nil {
				return 0, err
			}
			return b, nil
		}
	}
	return 0, fmt.Errorf("assoofs: acquire block: %w", ondisk.ErrNoSpace)
}

// getInodeRecord performs the inode store's linear-scan Get.
func (sb *Superblock) getInodeRecord(ino uint64) (ondisk.InodeRecord, error) {
	rec, err := sb.readSuper()
	if err != nil {
		return ondisk.InodeRecord{}, err
	}

	storeBuf, err := sb.dev.ReadBlock(ondisk.InodeStoreNo)
	if err != nil {
		return ondisk.InodeRecord{}, err
	}
	defer storeBuf.Release()

	data := storeBuf.Bytes()
	for i := uint64(0); i < rec.InodesCount; i++ {
		off := i * ondisk.InodeRecordSize
		r, err := ondisk.DecodeInodeRecord(data[off : off+ondisk.InodeRecordSize])
		if err != nil {
			return ondisk.InodeRecord{}, err
		}
		if r.InodeNo == ino {
			return r, nil
		}
	}
	return ondisk.InodeRecord{}, fmt.Errorf("assoofs: inode %d: %w", ino, ondisk.ErrNotFound)
}

// appendInodeRecord implements the inode store's Append: the
// inode write is durable before the superblock counter bump, so a crash
// between the two leaves the extra record present but invisible.
func (sb *Superblock) appendInodeRecord(rec ondisk.InodeRecord) error {
	sbRec, err := sb.readSuper()
	if err != nil {
		return err
	}
	if sbRec.InodesCount >= ondisk.MaxObjects {
		return fmt.Errorf("assoofs: append inode: %w", ondisk.ErrNoSpace)
	}

	storeBuf, err := sb.dev.ReadBlock(ondisk.InodeStoreNo)
	if err != nil {
		return err
	}
	defer storeBuf.Release()

	off := sbRec.InodesCount * ondisk.InodeRecordSize
	copy(storeBuf.Bytes()[off:off+ondisk.InodeRecordSize], ondisk.EncodeInodeRecord(&rec))
	storeBuf.MarkDirty()
	if err := storeBuf.Sync(); err != nil {
		return err
	}

	sbRec.InodesCount++
	return sb.writeSuper(sbRec)
}

// updateInodeRecord implements the inode store's Update:
// locate the record by InodeNo and overwrite it in place.
func (sb *Superblock) updateInodeRecord(rec ondisk.InodeRecord) error {
	sbRec, err := sb.readSuper()
	if err != nil {
		return err
	}

	storeBuf, err := sb.dev.ReadBlock(ondisk.InodeStoreNo)
	if err != nil {
		return err
	}
	defer storeBuf.Release()

	data := storeBuf.Bytes()
	for i := uint64(0); i < sbRec.InodesCount; i++ {
		off := i * ondisk.InodeRecordSize
		existing, err := ondisk.DecodeInodeRecord(data[off : off+ondisk.InodeRecordSize])
		if err != nil {
			return err
		}
		if existing.InodeNo == rec.InodeNo {
			copy(data[off:off+ondisk.InodeRecordSize], ondisk.EncodeInodeRecord(&rec))
			storeBuf.MarkDirty()
			return storeBuf.Sync()
		}
	}
	return fmt.Errorf("assoofs: update inode %d: %w", rec.InodeNo, ondisk.ErrNotFound)
}

// nextInodeNo computes the next inode number per the formula:
// next = inodesCount + StartIno - ReservedInodes + 1.
func nextInodeNo(inodesCount uint64) uint64 {
	return inodesCount + ondisk.StartIno - ondisk.ReservedInodes + 1
}

func (sb *Superblock) cacheInode(i *Inode) {
	sb.inoCacheMu.Lock()
	sb.inoCache[i.Ino] = i
	sb.inoCacheMu.Unlock()
}

func (sb *Superblock) cachedInode(ino uint64) (*Inode, bool) {
	sb.inoCacheMu.RLock()
	defer sb.inoCacheMu.RUnlock()
	i, ok := sb.inoCache[ino]
	return i, ok
}
