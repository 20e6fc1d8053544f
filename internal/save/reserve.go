// Package save implements the forward-only, checksummed save-game byte
// stream described in spec.md §4.E: description, version strings, WAD
// signature, PWAD path list, options block, per-component archive
// sections, and a trailing consistency marker.
package save

const reserveChunk = 1024

// Buffer is the append-only write buffer with the documented geometric
// growth policy: callers must Reserve(n) before any multi-byte write, and
// growth proceeds in 1 KiB chunks (spec.md §4.E).
type Buffer struct {
	data []byte
	len  int
}

// NewBuffer allocates an empty save buffer.
func NewBuffer() *Buffer { return &Buffer{} }

// Reserve ensures at least n additional bytes of capacity exist, growing in
// 1 KiB increments.
func (b *Buffer) Reserve(n int) {
	for len(b.data)-b.len < n {
		grown := make([]byte, len(b.data)+reserveChunk)
		copy(grown, b.data[:b.len])
		b.data = grown
	}
}

// Write appends p, reserving space first.
func (b *Buffer) Write(p []byte) {
	b.Reserve(len(p))
	copy(b.data[b.len:], p)
	b.len += len(p)
}

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(v byte) { b.Write([]byte{v}) }

// Bytes returns the written portion of the buffer.
func (b *Buffer) Bytes() []byte { return b.data[:b.len] }

// Len reports the number of bytes written.
func (b *Buffer) Len() int { return b.len }
