package main

import (
	"fmt"
	"os"

	"github.com/assoofs-project/assoofs"
	"github.com/assoofs-project/assoofs/internal/blockio"
)

// openMount opens path read-write when possible, falling back to read-only,
// and mounts it via assoofs.Mount.
func openMount(path string) (*assoofs.Superblock, func(), error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		f, err = os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open image: %w", err)
		}
	}

	dev := blockio.New(f)
	sb, err := assoofs.Mount(dev)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return sb, func() { f.Close() }, nil
}
