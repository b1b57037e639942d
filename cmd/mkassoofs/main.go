// Command mkassoofs formats a regular file as a fresh assoofs image: a
// superblock (block 0), an empty inode store seeded with the root
// directory's record (block 1), and the root directory's empty data
// block (block 2).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/assoofs-project/assoofs/internal/ondisk"
)

func main() {
	var size int64
	flag.Int64Var(&size, "blocks", ondisk.MaxObjects, "number of blocks to pre-size the image to")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: mkassoofs [-blocks N] <image-path>\n")
		os.Exit(1)
	}
	path := flag.Arg(0)

	if err := format(path, size); err != nil {
		log.Fatalf("mkassoofs: %s", err)
	}
	log.Printf("mkassoofs: wrote fresh assoofs image to %s", path)
}

func format(path string, blocks int64) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	defer f.Close()

	if err := f.Truncate(blocks * ondisk.BlockSize); err != nil {
		return fmt.Errorf("truncate image: %w", err)
	}

	sb := ondisk.Superblock{
		Magic:       ondisk.Magic,
		BlockSize:   ondisk.BlockSize,
		InodesCount: 1, // root
	}
	// Reserved blocks (superblock, inode store, root data) are never
	// allocated; every other block up to MaxObjects starts free.
	for b := ondisk.FirstDataBlock(); b < ondisk.MaxObjects; b++ {
		sb.SetBlock(b)
	}
	vol, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("generate volume uuid: %w", err)
	}
	copy(sb.VolumeUUID[:], vol[:])

	if _, err := f.WriteAt(ondisk.EncodeSuperblock(&sb), int64(ondisk.SuperblockNo)*ondisk.BlockSize); err != nil {
		return fmt.Errorf("write superblock: %w", err)
	}

	root := ondisk.InodeRecord{
		InodeNo:         ondisk.RootIno,
		Mode:            ondisk.SIFDIR | 0755,
		DataBlockNumber: ondisk.RootDataBlockNo,
	}
	root.SetDirChildrenCount(0)

	inodeStore := make([]byte, ondisk.BlockSize)
	copy(inodeStore, ondisk.EncodeInodeRecord(&root))
	if _, err := f.WriteAt(inodeStore, int64(ondisk.InodeStoreNo)*ondisk.BlockSize); err != nil {
		return fmt.Errorf("write inode store: %w", err)
	}

	rootData := make([]byte, ondisk.BlockSize)
	if _, err := f.WriteAt(rootData, int64(ondisk.RootDataBlockNo)*ondisk.BlockSize); err != nil {
		return fmt.Errorf("write root directory block: %w", err)
	}

	return nil
}
