package codec

import (
	"encoding/binary"
	"math"
)

// Cursor reads little-endian fields from a record buffer and reports the
// failing field and offset on underrun.
type Cursor struct {
	record string
	buf    []byte
	off    int
}

func NewCursor(record string, buf []byte) *Cursor {
	return &Cursor{record: record, buf: buf}
}

func (c *Cursor) Offset() int {
	return c.off
}

func (c *Cursor) Remaining() int {
	return len(c.buf) - c.off
}

// ReadFixed returns a copy of the next n bytes.
func (c *Cursor) ReadFixed(field string, n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, malformed(c.record, field, c.off, n, c.Remaining())
	}
	out := make([]byte, n)
	copy(out, c.buf[c.off:c.off+n])
	c.off += n
	return out, nil
}

// ReadInto fills dst exactly.
func (c *Cursor) ReadInto(field string, dst []byte) error {
	if len(dst) > c.Remaining() {
		return malformed(c.record, field, c.off, len(dst), c.Remaining())
	}
	copy(dst, c.buf[c.off:c.off+len(dst)])
	c.off += len(dst)
	return nil
}

func (c *Cursor) ReadU32(field string) (uint32, error) {
	if c.Remaining() < 4 {
		return 0, malformed(c.record, field, c.off, 4, c.Remaining())
	}
	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += 4
	return v, nil
}

func (c *Cursor) ReadI64(field string) (int64, error) {
	if c.Remaining() < 8 {
		return 0, malformed(c.record, field, c.off, 8, c.Remaining())
	}
	v := int64(binary.LittleEndian.Uint64(c.buf[c.off:]))
	c.off += 8
	return v, nil
}

// ReadLengthPrefixed reads a u32 length followed by that many bytes.
func (c *Cursor) ReadLengthPrefixed(field string) ([]byte, error) {
	lenOffset := c.off
	n, err := c.ReadU32(field + "_len")
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(c.Remaining()) {
		return nil, malformed(c.record, field, lenOffset+4, int(min(uint64(n), math.MaxInt32)), c.Remaining())
	}
	return c.ReadFixed(field, int(n))
}

func (c *Cursor) ReadRemaining() []byte {
	out := make([]byte, c.Remaining())
	copy(out, c.buf[c.off:])
	c.off = len(c.buf)
	return out
}

func (c *Cursor) Skip(field string, n int) error {
	if n < 0 || n > c.Remaining() {
		return malformed(c.record, field, c.off, n, c.Remaining())
	}
	c.off += n
	return nil
}

// ExpectEnd fails when unread bytes remain.
func (c *Cursor) ExpectEnd() error {
	if c.Remaining() != 0 {
		return malformed(c.record, "trailing", c.off, 0, c.Remaining())
	}
	return nil
}

// Writer appends little-endian fields to a growing buffer.
type Writer struct {
	record string
	buf    []byte
	err    error
}

func NewWriter(record string, capacity int) *Writer {
	return &Writer{record: record, buf: make([]byte, 0, capacity)}
}

func (w *Writer) PutFixed(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *Writer) PutU32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) PutI64(v int64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(v))
}

// PutLengthPrefixed writes len(b) as u32 then b. Lengths past u32 poison the writer.
func (w *Writer) PutLengthPrefixed(field string, b []byte) {
	if uint64(len(b)) > math.MaxUint32 {
		if w.err == nil {
			w.err = malformed(w.record, field, len(w.buf), math.MaxInt32, len(b))
		}
		return
	}
	w.PutU32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}
