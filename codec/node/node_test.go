package node

import (
	"bytes"
	"testing"
)

var testID = [4]byte{'T', 'E', 'S', 'T'}

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := Create(&buf, testID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	w.BeginNode(1)
	w.WriteU16(0xFE) // deliberately a sentinel-colliding value, to exercise stuffing
	w.WriteString("hello")
	w.BeginNode(2)
	w.WriteU8(0xFD)
	w.EndNode()
	w.EndNode()
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := Open(&buf, testID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	root, err := r.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if root.Type != 1 {
		t.Fatalf("root type = %d, want 1", root.Type)
	}
	v, err := root.ReadU16()
	if err != nil || v != 0xFE {
		t.Fatalf("ReadU16 = %d, %v, want 0xFE", v, err)
	}
	s, err := root.ReadString()
	if err != nil || s != "hello" {
		t.Fatalf("ReadString = %q, %v, want hello", s, err)
	}
	children := root.Children()
	if len(children) != 1 || children[0].Type != 2 {
		t.Fatalf("expected one child of type 2, got %v", children)
	}
	cv, err := children[0].ReadU8()
	if err != nil || cv != 0xFD {
		t.Fatalf("child ReadU8 = %d, %v, want 0xFD", cv, err)
	}
}

func TestIdentifierMismatch(t *testing.T) {
	var buf bytes.Buffer
	w, _ := Create(&buf, [4]byte{'N', 'O', 'P', 'E'})
	w.BeginNode(1)
	w.EndNode()
	_ = w.Close()

	if _, err := Open(&buf, testID); err == nil {
		t.Fatalf("expected identifier mismatch error")
	}
}

func TestTruncatedReadFails(t *testing.T) {
	var buf bytes.Buffer
	w, _ := Create(&buf, testID)
	w.BeginNode(1)
	w.WriteU8(1)
	w.EndNode()
	_ = w.Close()

	r, err := Open(&buf, testID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	root, err := r.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if _, err := root.ReadU32(); err == nil {
		t.Fatalf("expected truncated read error reading u32 out of a 1-byte node")
	}
}

func TestNestedChildrenPreserveOrder(t *testing.T) {
	var buf bytes.Buffer
	w, _ := Create(&buf, testID)
	w.BeginNode(10)
	for i := byte(0); i < 3; i++ {
		w.BeginNode(20 + i)
		w.WriteU8(i)
		w.EndNode()
	}
	w.EndNode()
	_ = w.Close()

	r, _ := Open(&buf, testID)
	root, err := r.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	children := root.Children()
	if len(children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(children))
	}
	for i, c := range children {
		if c.Type != 20+byte(i) {
			t.Fatalf("child %d type = %d, want %d", i, c.Type, 20+i)
		}
	}
}
