package codec

import (
	"encoding/binary"
	"math/big"
	"strings"
)

// Decimal is a 96-bit unsigned mantissa with a base-10 scale and a sign, in
// the 128-bit layout used by .NET tooling. It is stored little-endian
// regardless of the stream byte order.
type Decimal struct {
	Lo    uint32
	Mid   uint32
	Hi    uint32
	Flags uint32 // bits 16-23 scale, bit 31 sign
}

const (
	decimalScaleShift = 16
	decimalSignBit    = 1 << 31
)

// Scale returns the number of digits after the decimal point.
func (d Decimal) Scale() int {
	return int(d.Flags>>decimalScaleShift) & 0xff
}

// Negative reports whether the sign bit is set.
func (d Decimal) Negative() bool {
	return d.Flags&decimalSignBit != 0
}

// Mantissa returns the unscaled 96-bit magnitude.
func (d Decimal) Mantissa() *big.Int {
	m := new(big.Int).SetUint64(uint64(d.Hi))
	m.Lsh(m, 32)
	m.Or(m, new(big.Int).SetUint64(uint64(d.Mid)))
	m.Lsh(m, 32)
	return m.Or(m, new(big.Int).SetUint64(uint64(d.Lo)))
}

func (d Decimal) String() string {
	digits := d.Mantissa().String()
	scale := d.Scale()
	if scale > 0 {
		if len(digits) <= scale {
			digits = strings.Repeat("0", scale-len(digits)+1) + digits
		}
		digits = digits[:len(digits)-scale] + "." + digits[len(digits)-scale:]
	}
	if d.Negative() {
		return "-" + digits
	}
	return digits
}

func (d Decimal) put(b []byte) {
	binary.LittleEndian.PutUint32(b[0:], d.Lo)
	binary.LittleEndian.PutUint32(b[4:], d.Mid)
	binary.LittleEndian.PutUint32(b[8:], d.Hi)
	binary.LittleEndian.PutUint32(b[12:], d.Flags)
}

func decimalFrom(b []byte) Decimal {
	return Decimal{
		Lo:    binary.LittleEndian.Uint32(b[0:]),
		Mid:   binary.LittleEndian.Uint32(b[4:]),
		Hi:    binary.LittleEndian.Uint32(b[8:]),
		Flags: binary.LittleEndian.Uint32(b[12:]),
	}
}
