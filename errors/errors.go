package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which pass was running when the error occurred
type Phase string

const (
	PhaseWrite  Phase = "write"  // primitive and string encoding
	PhaseRead   Phase = "read"   // primitive and string decoding
	PhaseCommit Phase = "commit" // pointer backpatching
	PhasePool   Phase = "pool"   // string pool interning and emission
	PhaseTable  Phase = "table"  // relocation table emission and decoding
	PhaseStream Phase = "stream" // sink/source adapters
)

// Kind categorizes the error
type Kind string

const (
	KindOverflow      Kind = "overflow"
	KindUnsupported   Kind = "unsupported"
	KindTruncated     Kind = "truncated"
	KindMagicMismatch Kind = "magic_mismatch"
	KindInvalidEnum   Kind = "invalid_enum"
	KindInvalidState  Kind = "invalid_state"
	KindConflict      Kind = "conflict"
	KindOutOfBounds   Kind = "out_of_bounds"
	KindIO            Kind = "io"
)

// NoOffset marks an error that is not tied to a stream position.
const NoOffset int64 = -1

// Error is the structured error type used throughout reltkit
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Detail   string
	Field    []string
	Expected []byte
	Actual   []byte
	Offset   int64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Field) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Field, "."))
	}

	if e.Offset >= 0 {
		fmt.Fprintf(&b, " (offset 0x%x)", e.Offset)
	}

	if e.Expected != nil || e.Actual != nil {
		fmt.Fprintf(&b, ": expected % x, got % x", e.Expected, e.Actual)
	}

	if e.Detail != "" {
		if e.Expected != nil || e.Actual != nil {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether err is an *Error of the given kind, in any phase.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: NoOffset,
		},
	}
}

// Offset sets the stream offset
func (b *Builder) Offset(off int64) *Builder {
	b.err.Offset = off
	return b
}

// Field sets the field path
func (b *Builder) Field(path ...string) *Builder {
	b.err.Field = path
	return b
}

// Expected sets the expected bytes
func (b *Builder) Expected(data []byte) *Builder {
	b.err.Expected = data
	return b
}

// Actual sets the bytes actually found
func (b *Builder) Actual(data []byte) *Builder {
	b.err.Actual = data
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Overflow creates an overflow error for a value that does not fit targetType
func Overflow(phase Phase, offset int64, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Offset: offset,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Offset: NoOffset,
		Detail: what,
	}
}

// Truncated creates an error for a decode that ran out of input
func Truncated(phase Phase, offset int64, want, got int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTruncated,
		Offset: offset,
		Detail: fmt.Sprintf("need %d bytes, %d available", want, got),
		Value:  want,
	}
}

// MagicMismatch creates a signature mismatch error carrying both byte sequences
func MagicMismatch(phase Phase, offset int64, expected, actual []byte) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindMagicMismatch,
		Offset:   offset,
		Expected: append([]byte(nil), expected...),
		Actual:   append([]byte(nil), actual...),
	}
}

// InvalidEnum creates an error for a value outside a closed enumeration
func InvalidEnum(phase Phase, value any, enumName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidEnum,
		Offset: NoOffset,
		Detail: fmt.Sprintf("%v is not a valid %s", value, enumName),
		Value:  value,
	}
}

// InvalidState creates an error for an operation issued in the wrong order
func InvalidState(phase Phase, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidState,
		Offset: NoOffset,
		Detail: detail,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, offset int64, length, size uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Offset: offset,
		Detail: fmt.Sprintf("%d bytes at 0x%x exceed size %d", length, offset, size),
		Value:  offset,
	}
}

// IO wraps a failure of the underlying stream
func IO(phase Phase, offset int64, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Offset: offset,
		Cause:  cause,
	}
}
