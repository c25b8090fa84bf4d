package sample

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-test/deep"
	"github.com/tetratelabs/wazero"

	"github.com/wippyai/reltkit/codec"
	"github.com/wippyai/reltkit/relt"
	"github.com/wippyai/reltkit/stream"
)

// memoryWASM exports one page of memory as "memory".
var memoryWASM = []byte{
	0x00, 0x61, 0x73, 0x6d,
	0x01, 0x00, 0x00, 0x00,
	0x05, 0x03, 0x01, 0x00, 0x01,
	0x07, 0x0a, 0x01,
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79,
	0x02, 0x00,
}

func testOptions() relt.Options {
	opts := relt.DefaultOptions()
	opts.Codec.Endian = codec.Little
	return opts
}

func TestWriteRead(t *testing.T) {
	for _, e := range []codec.Endian{codec.Little, codec.Big} {
		t.Run(e.String(), func(t *testing.T) {
			opts := testOptions()
			opts.Codec.Endian = e

			buf := stream.NewBuffer()
			defer buf.Release()
			if err := Write(buf, Items(), opts); err != nil {
				t.Fatalf("Write: %v", err)
			}

			got, err := Read(stream.NewBufferFrom(buf.Bytes()), opts)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if diff := deep.Equal(got, Items()); diff != nil {
				t.Error(diff)
			}
		})
	}
}

func TestWrite_RelocationTable(t *testing.T) {
	opts := testOptions()
	buf := stream.NewBuffer()
	defer buf.Release()
	if err := Write(buf, Items(), opts); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data := buf.Bytes()

	r := codec.NewBytesReader(data, opts.Codec)
	if _, err := r.Seek(int64(bytes.LastIndex(data, opts.TableMagic)), codec.FromStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	table, err := relt.ReadTable(r, opts)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if len(table.Descriptors) != 2 {
		t.Fatalf("sections: got %d, want 2", len(table.Descriptors))
	}

	// Header pointer at 8, then per record the tags pointer at +24.
	// The last record has no tags and writes an unregistered null field.
	wantData := []int64{8, 16 + 24, 56 + 24, 96 + 24}
	if diff := deep.Equal(table.Offsets(SectionData), wantData); diff != nil {
		t.Errorf("data section: %v", diff)
	}

	// 4 names and 5 tag references.
	if got := len(table.Offsets(SectionStrings)); got != 9 {
		t.Errorf("string pointers: got %d, want 9", got)
	}
	if int(table.Offset)+int(table.Length) != len(data) {
		t.Errorf("table is not the last artifact")
	}
}

func TestWrite_WasmMemory(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	mod, err := rt.Instantiate(ctx, memoryWASM)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	mem := stream.NewMemory(mod.ExportedMemory("memory"), 4096, 0)

	opts := testOptions()
	if err := Write(mem, Items(), opts); err != nil {
		t.Fatalf("Write to memory: %v", err)
	}

	buf := stream.NewBuffer()
	defer buf.Release()
	if err := Write(buf, Items(), opts); err != nil {
		t.Fatalf("Write to buffer: %v", err)
	}

	data, err := mem.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Equal(data, buf.Bytes()) {
		t.Error("memory sink and buffer sink produced different bytes")
	}

	if _, err := mem.Seek(0, 0); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	got, err := Read(mem, opts)
	if err != nil {
		t.Fatalf("Read from memory: %v", err)
	}
	if diff := deep.Equal(got, Items()); diff != nil {
		t.Error(diff)
	}
}
