// Package blockio adapts an io.ReaderAt (and, optionally, an io.WriterAt)
// into fixed-size block reads and durability-barrier writes, the role the
// spec calls the BlockIO adapter: the only place in assoofs that touches
// raw device I/O.
package blockio

import (
	"fmt"
	"io"

	"github.com/assoofs-project/assoofs/internal/ondisk"
)

// Device is a raw block store: a regular file, an in-memory buffer, or a
// block device opened by the caller. Read-only devices may leave wa nil;
// syncing a dirty buffer on such a device fails.
type Device struct {
	ra io.ReaderAt
	wa io.WriterAt
}

// New wraps r (and, if it also implements io.WriterAt, w) as a Device.
func New(r io.ReaderAt) *Device {
	d := &Device{ra: r}
	if w, ok := r.(io.WriterAt); ok {
		d.wa = w
	}
	return d
}

// Writable reports whether the device accepts writes.
func (d *Device) Writable() bool { return d.wa != nil }

// Buffer is a byte-addressable view of one block, tracking whether the
// caller has mutated it since it was read. Every Buffer obtained from
// ReadBlock must be released via Release on every exit path, typically
// with defer immediately after a successful ReadBlock call.
type Buffer struct {
	dev     *Device
	blockNo uint64
	data    []byte
	dirty   bool
}

// ReadBlock reads block blockNo (BlockSize bytes) and returns an owning
// Buffer. Fails with ondisk.ErrIO if the device read errors; a read that
// ends short with io.EOF is not an error, and the rest of the buffer is
// zero-filled.
func (d *Device) ReadBlock(blockNo uint64) (*Buffer, error) {
	buf := make([]byte, ondisk.BlockSize)
	n, err := d.ra.ReadAt(buf, int64(blockNo)*ondisk.BlockSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("blockio: read block %d: %w: %w", blockNo, ondisk.ErrIO, err)
	}
	if n < len(buf) {
		// A freshly formatted (sparse) image may read short past EOF;
		// the remainder is implicitly zero, matching a freshly
		// allocated data block.
		for i := n; i < len(buf); i++ {
			buf[i] = 0
		}
	}
	return &Buffer{dev: d, blockNo: blockNo, data: buf}, nil
}

// Bytes returns the buffer's mutable byte view. Callers that mutate it
// must call MarkDirty before Sync/Release.
func (b *Buffer) Bytes() []byte { return b.data }

// MarkDirty records that the buffer's contents must be written back on
// the next Sync.
func (b *Buffer) MarkDirty() { b.dirty = true }

// Sync flushes a dirty buffer back to the device. It is a no-op on a
// clean buffer. Fails with ondisk.ErrIO if the device has no writer or the
// underlying write fails.
func (b *Buffer) Sync() error {
	if !b.dirty {
		return nil
	}
	if b.dev.wa == nil {
		return fmt.Errorf("blockio: device not writable: %w", ondisk.ErrIO)
	}
	if _, err := b.dev.wa.WriteAt(b.data, int64(b.blockNo)*ondisk.BlockSize); err != nil {
		return fmt.Errorf("blockio: write block %d: %w: %w", b.blockNo, ondisk.ErrIO, err)
	}
	b.dirty = false
	return nil
}

// Release detaches the buffer's backing storage. It is idempotent and
// safe to call multiple times, including after an error return, matching
// the scoped-guard release pattern the core relies on.
func (b *Buffer) Release() {
	b.data = nil
}
