// Package stream provides seekable sinks and sources for reltkit writers and
// readers.
//
// # Buffer
//
// Buffer is an in-memory stream backed by a pooled byte buffer. Writes past
// the end zero-fill the gap, so a writer may seek forward freely:
//
//	buf := stream.NewBuffer()
//	defer buf.Release()
//	w := codec.NewWriter(buf, codec.DefaultOptions())
//
// # Memory
//
// Memory adapts a WebAssembly linear memory (wazero api.Memory) so a container
// can be produced or parsed directly inside a guest's address space:
//
//	mem := stream.NewMemory(instance.Memory(), base, 0)
//	// mem implements reltkit.SinkSource
//
// Neither type is safe for concurrent use.
package stream
