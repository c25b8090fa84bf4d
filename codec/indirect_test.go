package codec

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/wippyai/reltkit/errors"
)

type point struct {
	X, Y int16
}

func readPoint(r *Reader) (point, error) {
	x, err := r.ReadI16()
	if err != nil {
		return point{}, err
	}
	y, err := r.ReadI16()
	return point{X: x, Y: y}, err
}

func writePoint(w *Writer, p *point) error {
	if err := w.WriteI16(p.X); err != nil {
		return err
	}
	return w.WriteI16(p.Y)
}

func TestReadIndirect_RestoresCursor(t *testing.T) {
	w, buf := newTestWriter(t, Little)
	// [0] u32 pointer to 8, [4] u32 marker, [8] pascal string
	_ = w.WritePointer(PtrU32, 8)
	_ = w.WriteU32(0xfeedface)
	_ = w.WritePascalString("target")

	r := readerFor(buf.Bytes(), Little)
	s, err := ReadIndirect(r, PtrU32, FromStart, (*Reader).ReadPascalString)
	if err != nil {
		t.Fatalf("ReadIndirect: %v", err)
	}
	if s != "target" {
		t.Errorf("got %q, want %q", s, "target")
	}
	if r.Position() != 4 {
		t.Errorf("position after indirect read: got %d, want 4", r.Position())
	}
	if v, _ := r.ReadU32(); v != 0xfeedface {
		t.Errorf("next field: got %#x", v)
	}
}

func TestReadIndirect_Relative(t *testing.T) {
	w, buf := newTestWriter(t, Big)
	// relative pointer: target = end of pointer field + 2
	_ = w.WritePointer(PtrI16, 2)
	_ = w.WriteU16(0)
	_ = w.WriteU32(0x01020304)

	r := readerFor(buf.Bytes(), Big)
	v, err := ReadIndirect(r, PtrI16, FromCurrent, (*Reader).ReadU32)
	if err != nil {
		t.Fatalf("ReadIndirect: %v", err)
	}
	if v != 0x01020304 {
		t.Errorf("got %#x, want 0x01020304", v)
	}
	if r.Position() != 2 {
		t.Errorf("position: got %d, want 2", r.Position())
	}
}

func TestReadIndirect_ZeroRelativeTarget(t *testing.T) {
	w, buf := newTestWriter(t, Little)
	_ = w.WritePointer(PtrU8, 0)
	_ = w.WriteU16(0x4242)

	r := readerFor(buf.Bytes(), Little)
	v, err := ReadIndirect(r, PtrU8, FromCurrent, (*Reader).ReadU16)
	if err != nil {
		t.Fatalf("ReadIndirect: %v", err)
	}
	if v != 0x4242 {
		t.Errorf("got %#x", v)
	}
	if r.Position() != 1 {
		t.Errorf("zero relative target should still restore the cursor, got %d", r.Position())
	}
}

func TestReadObject_FastPath(t *testing.T) {
	w, buf := newTestWriter(t, Little)
	_ = writePoint(w, &point{X: 1, Y: -1})
	_ = writePoint(w, &point{X: 2, Y: -2})

	r := readerFor(buf.Bytes(), Little)
	p, err := ReadObject(r, 0, FromCurrent, readPoint)
	if err != nil {
		t.Fatalf("ReadObject: %v", err)
	}
	if p != (point{X: 1, Y: -1}) {
		t.Errorf("got %+v", p)
	}
	if r.Position() != 4 {
		t.Errorf("fast path should leave the cursor after the value, got %d", r.Position())
	}

	p, err = ReadObject(r, 0, FromStart, readPoint)
	if err != nil {
		t.Fatalf("ReadObject: %v", err)
	}
	if p != (point{X: 1, Y: -1}) {
		t.Errorf("absolute read: got %+v", p)
	}
	if r.Position() != 4 {
		t.Errorf("absolute read should restore the cursor, got %d", r.Position())
	}
}

func TestObjects_RoundTrip(t *testing.T) {
	points := []point{{1, 2}, {3, 4}, {-5, 6}}

	w, buf := newTestWriter(t, Big)
	_ = w.WritePointer(PtrU64, 8)
	if err := WriteObjects(w, points, writePoint); err != nil {
		t.Fatalf("WriteObjects: %v", err)
	}

	r := readerFor(buf.Bytes(), Big)
	got, err := ReadIndirectArray(r, PtrU64, len(points), FromStart, readPoint)
	if err != nil {
		t.Fatalf("ReadIndirectArray: %v", err)
	}
	if diff := deep.Equal(got, points); diff != nil {
		t.Error(diff)
	}
	if r.Position() != 8 {
		t.Errorf("position: got %d, want 8", r.Position())
	}

	got, err = ReadObjects(r, 2, 12, FromStart, readPoint)
	if err != nil {
		t.Fatalf("ReadObjects: %v", err)
	}
	if diff := deep.Equal(got, points[1:]); diff != nil {
		t.Error(diff)
	}
}

func TestReadIndirectFrom(t *testing.T) {
	w, buf := newTestWriter(t, Little)
	_ = w.WriteZeros(16)
	_ = w.WritePointer(PtrU16, 4)
	_ = w.WriteU16(0)
	_ = w.WriteU8(0x99)

	r := readerFor(buf.Bytes(), Little)
	_ = r.Skip(16)
	v, err := ReadIndirectFrom(r, PtrU16, 16, (*Reader).ReadU8)
	if err != nil {
		t.Fatalf("ReadIndirectFrom: %v", err)
	}
	if v != 0x99 {
		t.Errorf("got %#x, want 0x99", v)
	}
}

func TestReadIndirect_TruncatedTarget(t *testing.T) {
	w, buf := newTestWriter(t, Little)
	_ = w.WritePointer(PtrU32, 100)

	r := readerFor(buf.Bytes(), Little)
	_, err := ReadIndirect(r, PtrU32, FromStart, (*Reader).ReadU32)
	if !errors.IsKind(err, errors.KindTruncated) {
		t.Fatalf("expected truncated, got %v", err)
	}
	if r.Position() != 4 {
		t.Errorf("position after failed read: got %d, want 4", r.Position())
	}
}
