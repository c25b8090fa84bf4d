// Package codec provides the endian-aware primitive codec and stream cursor
// that the rest of reltkit is built on.
//
// # Cursor
//
// Writer and Reader track an absolute position over a seekable stream. The
// position is shared mutable state: any helper may move it, so code that needs
// to visit another offset uses WithTemporarySeek, which restores the position
// on every exit path.
//
// # Primitives
//
// Fixed-width integers and floats honor the current Endian, which can be
// changed at any time and applies to subsequent calls only. Decimals use a
// fixed little-endian 128-bit layout.
//
// # Strings
//
// Text is encoded as UTF-8 or UTF-16 and framed as zero-terminated,
// u16-counted, u32-counted or Pascal (u16 count plus NUL).
//
// # Pointer Fields
//
// PtrKind is the closed set of pointer widths. ReadIndirect follows a pointer
// field to decode its target and returns with the cursor right after the
// field, so headers can be read in declaration order while payloads live
// elsewhere.
package codec
