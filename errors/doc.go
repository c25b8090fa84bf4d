// Package errors provides structured error types for reltkit.
//
// Errors are categorized by Phase (which pass was running) and Kind (error category).
// The Error type carries the stream offset, the field path, the expected and
// actual bytes of a failed signature check, and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCommit, errors.KindOverflow).
//		Offset(0x40).
//		Field("header", "names").
//		Detail("target 0x10000 does not fit u16").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Overflow(errors.PhaseCommit, 0x40, 0x10000, "u16")
//	err := errors.MagicMismatch(errors.PhaseRead, 0, []byte("RELT"), got)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
