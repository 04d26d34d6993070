package netcode

import (
	"bytes"
	"fmt"

	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

// Writer accumulates a net command stream. Weapons are written as indices
// of the table the Writer was created with.
type Writer struct {
	buf   *bytes.Buffer
	table *IndexTable
}

// NewWriter creates a writer encoding weapons against table.
func NewWriter(table *IndexTable) *Writer {
	return &Writer{
		buf:   bytes.NewBuffer(make([]byte, 0, 64)),
		table: table,
	}
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) error {
	return w.buf.WriteByte(b)
}

// WriteWeapon writes the index of c; nil and unknown types write index 0.
func (w *Writer) WriteWeapon(c *weapon.Class) {
	w.buf.Write(AppendIndex(nil, w.table.Index(c)))
}

// Bytes returns the written stream.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reset discards the written stream.
func (w *Writer) Reset() {
	w.buf.Reset()
}

// Reader consumes a net command stream, decoding weapons against its table.
type Reader struct {
	data  []byte
	pos   int
	table *IndexTable
}

// NewReader creates a reader over data.
func NewReader(data []byte, table *IndexTable) *Reader {
	return &Reader{data: data, table: table}
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("ReadByte: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadWeapon reads one weapon index. An index outside the table decodes to
// nil rather than failing.
func (r *Reader) ReadWeapon() (*weapon.Class, error) {
	index, n := DecodeIndex(r.data[r.pos:])
	if n == 0 {
		return nil, fmt.Errorf("ReadWeapon: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	r.pos += n
	return r.table.Class(index), nil
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}
