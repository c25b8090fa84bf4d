package checksum

import "testing"

func TestCompute(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"", 0},
		{"123456789", 0xcbf43926},
		{"The quick brown fox jumps over the lazy dog", 0x414fa339},
	}
	for _, tt := range tests {
		if got := Compute([]byte(tt.in)); got != tt.want {
			t.Errorf("Compute(%q) = %#08x, want %#08x", tt.in, got, tt.want)
		}
	}
}

func TestComputeString(t *testing.T) {
	if got, want := ComputeString("123456789"), Compute([]byte("123456789")); got != want {
		t.Errorf("ascii: got %#08x, want %#08x", got, want)
	}

	// U+0141 truncates to 0x41 ('A'), so it hashes like "A".
	if got, want := ComputeString("Ł"), Compute([]byte("A")); got != want {
		t.Errorf("truncated unit: got %#08x, want %#08x", got, want)
	}

	// One UTF-16 unit per BMP rune, not one byte per UTF-8 byte.
	if got, want := ComputeString("é"), Compute([]byte{0xe9}); got != want {
		t.Errorf("latin-1 rune: got %#08x, want %#08x", got, want)
	}
}

func TestUpdate(t *testing.T) {
	crc := Update(0, []byte("12345"))
	crc = Update(crc, []byte("6789"))
	if crc != 0xcbf43926 {
		t.Errorf("incremental: got %#08x, want 0xcbf43926", crc)
	}
}
