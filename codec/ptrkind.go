package codec

import (
	"fmt"
	"math"

	"github.com/ccoveille/go-safecast"

	"github.com/wippyai/reltkit/errors"
)

// PtrKind is the integer type of a pointer field. The set is closed: every
// kind has a width of 1, 2, 4 or 8 bytes and a signedness.
type PtrKind uint8

const (
	PtrU8 PtrKind = iota + 1
	PtrU16
	PtrU32
	PtrU64
	PtrI8
	PtrI16
	PtrI32
	PtrI64
)

// PtrKindFor returns the kind of the given byte width and signedness.
func PtrKindFor(size int, signed bool) (PtrKind, error) {
	var k PtrKind
	switch size {
	case 1:
		k = PtrU8
	case 2:
		k = PtrU16
	case 4:
		k = PtrU32
	case 8:
		k = PtrU64
	default:
		return 0, errors.Unsupported(errors.PhaseWrite, fmt.Sprintf("pointer width %d (want 1, 2, 4 or 8)", size))
	}
	if signed {
		k += PtrI8 - PtrU8
	}
	return k, nil
}

// Valid reports whether k is one of the eight pointer kinds.
func (k PtrKind) Valid() bool {
	return k >= PtrU8 && k <= PtrI64
}

// Size returns the width in bytes, or 0 for an invalid kind.
func (k PtrKind) Size() int {
	switch k {
	case PtrU8, PtrI8:
		return 1
	case PtrU16, PtrI16:
		return 2
	case PtrU32, PtrI32:
		return 4
	case PtrU64, PtrI64:
		return 8
	default:
		return 0
	}
}

// Signed reports whether the field is a signed integer.
func (k PtrKind) Signed() bool {
	return k >= PtrI8 && k <= PtrI64
}

// Relocatable reports whether fields of this kind are native-width pointers
// that a loader has to rebase.
func (k PtrKind) Relocatable() bool {
	return k.Size() == 8
}

// Max returns the largest offset the kind can hold.
func (k PtrKind) Max() uint64 {
	switch k {
	case PtrU8:
		return math.MaxUint8
	case PtrU16:
		return math.MaxUint16
	case PtrU32:
		return math.MaxUint32
	case PtrU64:
		return math.MaxUint64
	case PtrI8:
		return math.MaxInt8
	case PtrI16:
		return math.MaxInt16
	case PtrI32:
		return math.MaxInt32
	case PtrI64:
		return math.MaxInt64
	default:
		return 0
	}
}

func (k PtrKind) String() string {
	switch k {
	case PtrU8:
		return "u8"
	case PtrU16:
		return "u16"
	case PtrU32:
		return "u32"
	case PtrU64:
		return "u64"
	case PtrI8:
		return "i8"
	case PtrI16:
		return "i16"
	case PtrI32:
		return "i32"
	case PtrI64:
		return "i64"
	default:
		return fmt.Sprintf("PtrKind(%d)", uint8(k))
	}
}

// Validate returns an unsupported-width error for kinds outside the set.
func (k PtrKind) Validate() error {
	if !k.Valid() {
		return errors.Unsupported(errors.PhaseWrite, fmt.Sprintf("pointer kind %d", uint8(k)))
	}
	return nil
}

// Narrow checks that offset fits the kind and returns the bits to store.
// The result is an overflow error if it does not fit.
func (k PtrKind) Narrow(offset int64) (uint64, error) {
	if !k.Valid() {
		return 0, k.Validate()
	}

	var err error
	var bits uint64
	switch k {
	case PtrU8:
		var v uint8
		v, err = safecast.ToUint8(offset)
		bits = uint64(v)
	case PtrU16:
		var v uint16
		v, err = safecast.ToUint16(offset)
		bits = uint64(v)
	case PtrU32:
		var v uint32
		v, err = safecast.ToUint32(offset)
		bits = uint64(v)
	case PtrU64:
		bits, err = safecast.ToUint64(offset)
	case PtrI8:
		var v int8
		v, err = safecast.ToInt8(offset)
		bits = uint64(uint8(v))
	case PtrI16:
		var v int16
		v, err = safecast.ToInt16(offset)
		bits = uint64(uint16(v))
	case PtrI32:
		var v int32
		v, err = safecast.ToInt32(offset)
		bits = uint64(uint32(v))
	case PtrI64:
		bits = uint64(offset)
	}
	if offset < 0 {
		err = fmt.Errorf("negative offset %d", offset)
	}
	if err != nil {
		e := errors.Overflow(errors.PhaseCommit, errors.NoOffset, offset, k.String())
		e.Cause = err
		return 0, e
	}
	return bits, nil
}

// widen converts stored bits back into an offset, sign-extending signed kinds.
func (k PtrKind) widen(bits uint64) int64 {
	switch k {
	case PtrI8:
		return int64(int8(bits))
	case PtrI16:
		return int64(int16(bits))
	case PtrI32:
		return int64(int32(bits))
	default:
		return int64(bits)
	}
}
