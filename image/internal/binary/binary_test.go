package binary

import (
	"bytes"
	"errors"
	"testing"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	w.Byte(0x7f)
	w.WriteU32(0xdeadbeef)
	w.WriteU64(1 << 40)
	w.WriteI64(-295)
	w.WriteName("heap_base")
	w.WriteBytes([]byte{1, 2, 3})

	r := NewReader(w.Bytes())

	b, err := r.ReadByte()
	if err != nil || b != 0x7f {
		t.Fatalf("ReadByte: got %#x, %v", b, err)
	}
	u32, err := r.ReadU32()
	if err != nil || u32 != 0xdeadbeef {
		t.Fatalf("ReadU32: got %#x, %v", u32, err)
	}
	u64, err := r.ReadU64()
	if err != nil || u64 != 1<<40 {
		t.Fatalf("ReadU64: got %#x, %v", u64, err)
	}
	i64, err := r.ReadI64()
	if err != nil || i64 != -295 {
		t.Fatalf("ReadI64: got %d, %v", i64, err)
	}
	name, err := r.ReadName()
	if err != nil || name != "heap_base" {
		t.Fatalf("ReadName: got %q, %v", name, err)
	}
	tail, err := r.ReadBytes(3)
	if err != nil || !bytes.Equal(tail, []byte{1, 2, 3}) {
		t.Fatalf("ReadBytes: got %v, %v", tail, err)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining: got %d, want 0", r.Remaining())
	}
}

func TestWriterLittleEndian(t *testing.T) {
	w := NewWriter()
	w.WriteU32(0x12345678)
	want := []byte{0x78, 0x56, 0x34, 0x12}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("WriteU32: got % x, want % x", w.Bytes(), want)
	}
}

func TestReaderPosition(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	if r.Position() != 0 {
		t.Errorf("initial position: got %d", r.Position())
	}
	if _, err := r.ReadU32(); err != nil {
		t.Fatal(err)
	}
	if r.Position() != 4 {
		t.Errorf("position after ReadU32: got %d, want 4", r.Position())
	}
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader([]byte{1, 2})
	if _, err := r.ReadU32(); !errors.Is(err, ErrUnexpectedEnd) {
		t.Errorf("ReadU32 on short buffer: got %v", err)
	}
	if _, err := r.ReadU64(); !errors.Is(err, ErrUnexpectedEnd) {
		t.Errorf("ReadU64 on short buffer: got %v", err)
	}
	if _, err := r.ReadBytes(5); !errors.Is(err, ErrUnexpectedEnd) {
		t.Errorf("ReadBytes on short buffer: got %v", err)
	}
}

func TestReadNameInvalidUTF8(t *testing.T) {
	w := NewWriter()
	w.WriteU32(2)
	w.WriteBytes([]byte{0xff, 0xfe})

	r := NewReader(w.Bytes())
	if _, err := r.ReadName(); err == nil {
		t.Error("ReadName accepted invalid UTF-8")
	}
}

func TestReadNameTruncatedPayload(t *testing.T) {
	w := NewWriter()
	w.WriteU32(10)
	w.WriteBytes([]byte("abc"))

	r := NewReader(w.Bytes())
	if _, err := r.ReadName(); !errors.Is(err, ErrUnexpectedEnd) {
		t.Errorf("ReadName on truncated payload: got %v", err)
	}
}
