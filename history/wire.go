// Package history implements the undo/redo engine: a byte-exact
// before/after tile snapshot codec, LZ4 compression of large snapshots,
// a fixed-capacity/fixed-budget ring buffer of operations, and the
// stateful recorder that groups tile mutations into atomic operations.
package history

import (
	"encoding/binary"
	"fmt"
)

// wbuf is a small binary writer in the same spirit as a typical
// length-prefixed wire encoder: typed Write* methods appending to an
// internal byte slice, little-endian throughout for consistency with the
// rest of this engine's on-disk formats.
type wbuf struct {
	b []byte
}

func (w *wbuf) WriteU8(v uint8) { w.b = append(w.b, v) }

func (w *wbuf) WriteBool(v bool) {
	if v {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
}

func (w *wbuf) WriteU16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	w.b = append(w.b, tmp[:]...)
}
func (w *wbuf) WriteU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.b = append(w.b, tmp[:]...)
}
func (w *wbuf) WriteI32(v int32) { w.WriteU32(uint32(v)) }
func (w *wbuf) WriteI16(v int16) { w.WriteU16(uint16(v)) }
func (w *wbuf) WriteString(s string) {
	w.WriteU16(uint16(len(s)))
	w.b = append(w.b, s...)
}
func (w *wbuf) WriteBytes(b []byte) {
	w.WriteU32(uint32(len(b)))
	w.b = append(w.b, b...)
}
func (w *wbuf) Bytes() []byte { return w.b }

// rbuf is the matching reader, tracking a cursor into a byte slice. All
// reads fail with an error on truncation rather than panicking.
type rbuf struct {
	b   []byte
	pos int
}

func newRbuf(b []byte) *rbuf { return &rbuf{b: b} }

func (r *rbuf) remaining() int { return len(r.b) - r.pos }

func (r *rbuf) ReadU8() (uint8, error) {
	if r.remaining() < 1 {
		return 0, fmt.Errorf("history: truncated reading u8")
	}
	v := r.b[r.pos]
	r.pos++
	return v, nil
}

func (r *rbuf) ReadBool() (bool, error) {
	v, err := r.ReadU8()
	return v != 0, err
}

func (r *rbuf) ReadU16() (uint16, error) {
	if r.remaining() < 2 {
		return 0, fmt.Errorf("history: truncated reading u16")
	}
	v := binary.LittleEndian.Uint16(r.b[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *rbuf) ReadU32() (uint32, error) {
	if r.remaining() < 4 {
		return 0, fmt.Errorf("history: truncated reading u32")
	}
	v := binary.LittleEndian.Uint32(r.b[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *rbuf) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *rbuf) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func (r *rbuf) ReadString() (string, error) {
	length, err := r.ReadU16()
	if err != nil {
		return "", err
	}
	if r.remaining() < int(length) {
		return "", fmt.Errorf("history: truncated reading string")
	}
	s := string(r.b[r.pos : r.pos+int(length)])
	r.pos += int(length)
	return s, nil
}

func (r *rbuf) ReadBytes() ([]byte, error) {
	length, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if r.remaining() < int(length) {
		return nil, fmt.Errorf("history: truncated reading bytes")
	}
	b := r.b[r.pos : r.pos+int(length)]
	r.pos += int(length)
	return b, nil
}
