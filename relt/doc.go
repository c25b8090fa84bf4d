// Package relt writes relocatable binary containers.
//
// A Writer wraps codec.Writer with a two-phase pointer protocol: a pointer
// field is reserved as a zero placeholder, and committing it later backpatches
// the placeholder with the offset where the pointee is written. 8-byte pointer
// fields are recorded per section in a Tracker and compressed into a RELT
// relocation table at the end of the pass. Strings referenced through
// pointers can be interned into a deduplicated pool that is laid out in
// bit-reversed key order.
//
// A typical pass:
//
//	w := relt.NewWriter(sink, relt.DefaultOptions())
//	name, _ := w.InternString("player", codec.PtrU64, 0)
//	data, _ := w.ReservePointer(codec.PtrU64, writePayload, relt.ReserveOptions{})
//	_ = w.Commit(data)
//	_ = w.EmitStringPool()
//	_ = w.EmitRelocationTable()
//
// ReadTable and ReadStringPool decode the two trailing artifacts.
package relt
