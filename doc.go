// Package reltkit produces and consumes pointer-based binary containers of the
// kind used by game-asset archive formats.
//
// Records in such containers are fixed-layout, but fields may hold offsets into
// the same stream instead of immediate values. Strings are deduplicated into a
// pool, and every 8-byte pointer field is listed in a compact relocation table
// so a loader can rebase the file after mapping it.
//
// # Architecture Overview
//
//	reltkit/         Root package with the Sink and Source stream interfaces
//	├── codec/       Endian-aware primitives, stream cursor, strings, pointer reads
//	├── relt/        Pointer reservation and backpatching, string pool, relocation table
//	├── stream/      Seekable sinks: pooled memory buffer and wasm linear memory
//	├── checksum/    CRC-32 of names and payloads
//	├── errors/      Structured error types
//	├── internal/    Sample container shared by the CLI demo and examples
//	└── cmd/relt/    Inspector for relocation tables and string pools
//
// # Quick Start
//
// Write a record whose name lives in the string pool and whose body lives at
// the end of the stream:
//
//	buf := stream.NewBuffer()
//	defer buf.Release()
//
//	w := relt.NewWriter(buf, relt.DefaultOptions())
//	nameRef, _ := w.InternString("player", codec.PtrU64, 0)
//	bodyRef, _ := w.ReservePointer(codec.PtrU64, func(cw *codec.Writer) error {
//	    return cw.WriteU32(100)
//	}, relt.ReserveOptions{})
//
//	_ = w.Commit(bodyRef)
//	_ = w.EmitStringPool()
//	_ = w.EmitRelocationTable()
//
// The name placeholder is backpatched while the pool is emitted; both pointer
// fields end up in section 0 of the relocation table.
//
// # Reading
//
// Pointer fields are followed without disturbing the sequential read position:
//
//	r := codec.NewReader(src, codec.DefaultOptions())
//	name, err := codec.ReadIndirect(r, codec.PtrU64, codec.FromStart, (*codec.Reader).ReadPascalString)
//
// # Concurrency
//
// Writers and readers own their stream exclusively and are not safe for
// concurrent use. Separate artifacts may be processed in parallel, one writer
// or reader each.
package reltkit
