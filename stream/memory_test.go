package stream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	relterrors "github.com/wippyai/reltkit/errors"
)

// memoryWASM is a minimal WASM module with 1 page of memory exported as "memory"
var memoryWASM = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 page, no max
	0x07, 0x0a, 0x01, // export section: 10 bytes, 1 export
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, // name: "memory"
	0x02, 0x00, // kind: memory, index 0
}

func newTestMemory(t *testing.T) api.Memory {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { rt.Close(ctx) })

	compiled, err := rt.CompileModule(ctx, memoryWASM)
	if err != nil {
		t.Fatalf("failed to compile: %v", err)
	}

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		t.Fatalf("failed to instantiate: %v", err)
	}

	mem := mod.ExportedMemory("memory")
	if mem == nil {
		t.Fatal("module exports no memory")
	}
	return mem
}

func TestNewMemory_Nil(t *testing.T) {
	if m := NewMemory(nil, 0, 0); m != nil {
		t.Error("expected nil for nil memory")
	}
}

func TestMemory_WriteReadAtBase(t *testing.T) {
	mem := newTestMemory(t)
	m := NewMemory(mem, 1024, 0)

	if _, err := m.Write([]byte("RELT")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if m.Len() != 4 {
		t.Errorf("Len: got %d, want 4", m.Len())
	}

	raw, ok := mem.Read(1024, 4)
	if !ok || string(raw) != "RELT" {
		t.Errorf("memory at base: got %q, want RELT", raw)
	}

	if _, err := m.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	got := make([]byte, 8)
	n, err := m.Read(got)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 4 || string(got[:n]) != "RELT" {
		t.Errorf("Read: got %q, want RELT", got[:n])
	}
	if _, err := m.Read(got); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestMemory_SeekGapZeroFilled(t *testing.T) {
	mem := newTestMemory(t)
	mem.Write(0, []byte{0xff, 0xff, 0xff, 0xff})
	m := NewMemory(mem, 0, 0)

	if _, err := m.Write([]byte{1}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := m.Seek(3, io.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if _, err := m.Write([]byte{2}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := m.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Equal(got, []byte{1, 0, 0, 2}) {
		t.Errorf("Bytes: got %v, want [1 0 0 2]", got)
	}
}

func TestMemory_GrowPastPage(t *testing.T) {
	mem := newTestMemory(t)
	m := NewMemory(mem, 65530, 0)

	data := bytes.Repeat([]byte{0xab}, 16)
	if _, err := m.Write(data); err != nil {
		t.Fatalf("Write across page: %v", err)
	}
	if mem.Size() < 2*wasmPageSize {
		t.Errorf("memory size: got %d, want at least 2 pages", mem.Size())
	}
}

func TestMemory_NoGrow(t *testing.T) {
	mem := newTestMemory(t)
	m := NewMemory(mem, 65530, 0)
	m.Grow = false

	_, err := m.Write(make([]byte, 16))
	if !relterrors.IsKind(err, relterrors.KindOutOfBounds) {
		t.Errorf("expected out_of_bounds, got %v", err)
	}
}

func TestMemory_ExistingRegion(t *testing.T) {
	mem := newTestMemory(t)
	mem.Write(256, []byte{10, 20, 30})
	m := NewMemory(mem, 256, 3)

	got, err := io.ReadAll(m)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, []byte{10, 20, 30}) {
		t.Errorf("ReadAll: got %v, want [10 20 30]", got)
	}
}
