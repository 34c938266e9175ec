package node

import (
	"bufio"
	"fmt"
	"io"
)

// Writer emits a node stream matching Reader's framing and escaping
// exactly: every write here must be read back byte-for-byte by Reader.
type Writer struct {
	w   *bufio.Writer
	wc  io.Closer
	err error
}

// Create writes the four-byte identifier and returns a Writer ready for a
// single top-level BeginNode/EndNode pair.
func Create(w io.Writer, identifier [4]byte) (*Writer, error) {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(identifier[:]); err != nil {
		return nil, fmt.Errorf("node: write identifier: %w", err)
	}
	nw := &Writer{w: bw}
	if closer, ok := w.(io.Closer); ok {
		nw.wc = closer
	}
	return nw, nil
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) writeRaw(b byte) {
	if w.err != nil {
		return
	}
	if err := w.w.WriteByte(b); err != nil {
		w.fail(err)
	}
}

// writeEscaped stuffs b with a preceding escape byte whenever b collides
// with a sentinel value.
func (w *Writer) writeEscaped(b byte) {
	if b == tokenStart || b == tokenEnd || b == tokenEscape {
		w.writeRaw(tokenEscape)
	}
	w.writeRaw(b)
}

// BeginNode opens a node of the given type. Every BeginNode must be
// matched by exactly one EndNode, possibly with nested BeginNode/EndNode
// pairs (children) in between.
func (w *Writer) BeginNode(nodeType byte) {
	w.writeRaw(tokenStart)
	w.writeEscaped(nodeType)
}

// EndNode closes the most recently opened node.
func (w *Writer) EndNode() {
	w.writeRaw(tokenEnd)
}

// WriteU8 writes one byte.
func (w *Writer) WriteU8(v uint8) { w.writeEscaped(v) }

// WriteU16 writes a little-endian uint16.
func (w *Writer) WriteU16(v uint16) {
	w.writeEscaped(byte(v))
	w.writeEscaped(byte(v >> 8))
}

// WriteU32 writes a little-endian uint32.
func (w *Writer) WriteU32(v uint32) {
	for i := 0; i < 4; i++ {
		w.writeEscaped(byte(v >> (8 * i)))
	}
}

// WriteU64 writes a little-endian uint64.
func (w *Writer) WriteU64(v uint64) {
	for i := 0; i < 8; i++ {
		w.writeEscaped(byte(v >> (8 * i)))
	}
}

// WriteString writes a u16-length-prefixed byte string.
func (w *Writer) WriteString(s string) {
	if len(s) > 0xFFFF {
		w.fail(fmt.Errorf("node: string too long (%d bytes)", len(s)))
		return
	}
	w.WriteU16(uint16(len(s)))
	for i := 0; i < len(s); i++ {
		w.writeEscaped(s[i])
	}
}

// WriteBytes writes raw bytes with no length prefix.
func (w *Writer) WriteBytes(b []byte) {
	for _, c := range b {
		w.writeEscaped(c)
	}
}

// Err returns the first error encountered by any write call, if any.
func (w *Writer) Err() error { return w.err }

// Flush flushes the underlying buffered writer, returning any deferred
// write error first.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

// Close flushes and releases the underlying writer, if it was closable.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	if w.wc != nil {
		return w.wc.Close()
	}
	return nil
}
