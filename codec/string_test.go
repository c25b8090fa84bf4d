package codec

import (
	"bytes"
	"testing"

	"github.com/wippyai/reltkit/errors"
)

func TestWriteString_Framing(t *testing.T) {
	tests := []struct {
		name string
		kind StringKind
		enc  Encoding
		text string
		want []byte
	}{
		{"zero-terminated utf8", ZeroTerminated, UTF8, "hi", []byte{'h', 'i', 0}},
		{"zero-terminated utf16", ZeroTerminated, UTF16, "hi", []byte{'h', 0, 'i', 0, 0, 0}},
		{"u16 count", U16Count, UTF8, "abc", []byte{3, 0, 'a', 'b', 'c'}},
		{"u32 count", U32Count, UTF8, "abc", []byte{3, 0, 0, 0, 'a', 'b', 'c'}},
		{"pascal", Pascal, UTF8, "ab", []byte{2, 0, 'a', 'b', 0}},
		{"pascal empty", Pascal, UTF8, "", []byte{0, 0, 0}},
		{"u16 count utf16 counts bytes", U16Count, UTF16, "é", []byte{2, 0, 0xe9, 0}},
		{"u16 count multibyte utf8", U16Count, UTF8, "é", []byte{2, 0, 0xc3, 0xa9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, buf := newTestWriter(t, Little)
			w.SetEncoding(tt.enc)
			if err := w.WriteString(tt.text, tt.kind); err != nil {
				t.Fatalf("WriteString: %v", err)
			}
			if !bytes.Equal(buf.Bytes(), tt.want) {
				t.Errorf("got % x, want % x", buf.Bytes(), tt.want)
			}

			r := readerFor(buf.Bytes(), Little)
			r.SetEncoding(tt.enc)
			got, err := r.ReadString(tt.kind)
			if err != nil {
				t.Fatalf("ReadString: %v", err)
			}
			if got != tt.text {
				t.Errorf("read back %q, want %q", got, tt.text)
			}
			if r.Position() != int64(len(tt.want)) {
				t.Errorf("position: got %d, want %d", r.Position(), len(tt.want))
			}
		})
	}
}

func TestWriteString_BigEndianUTF16(t *testing.T) {
	w, buf := newTestWriter(t, Big)
	w.SetEncoding(UTF16)
	if err := w.WriteString("A", U16Count); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	want := []byte{0, 2, 0, 'A'}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % x, want % x", buf.Bytes(), want)
	}
}

func TestWriteString_Errors(t *testing.T) {
	w, _ := newTestWriter(t, Little)
	if err := w.WriteString("x", StringKind(3)); !errors.IsKind(err, errors.KindInvalidEnum) {
		t.Errorf("unknown kind: expected invalid_enum, got %v", err)
	}
	long := string(bytes.Repeat([]byte{'a'}, 0x10000))
	if err := w.WriteString(long, U16Count); !errors.IsKind(err, errors.KindOverflow) {
		t.Errorf("long u16 string: expected overflow, got %v", err)
	}
	if w.Position() != 0 {
		t.Errorf("failed write moved the cursor to %d", w.Position())
	}
}

func TestReadString_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		kind StringKind
		want errors.Kind
	}{
		{"unterminated", []byte{'a', 'b'}, ZeroTerminated, errors.KindTruncated},
		{"short payload", []byte{5, 0, 'a'}, U16Count, errors.KindTruncated},
		{"missing pascal nul", []byte{1, 0, 'a'}, Pascal, errors.KindTruncated},
		{"unknown kind", []byte{0}, StringKind(8), errors.KindInvalidEnum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readerFor(tt.data, Little).ReadString(tt.kind)
			if !errors.IsKind(err, tt.want) {
				t.Errorf("expected %s, got %v", tt.want, err)
			}
		})
	}
}
