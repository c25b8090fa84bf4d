// Package checksum computes CRC-32 (IEEE) checksums of binary buffers and of
// text.
package checksum

import (
	"unicode/utf16"

	"github.com/klauspost/crc32"
)

// Compute returns the CRC-32/IEEE checksum of data.
func Compute(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// ComputeString returns the checksum of s taken over its UTF-16 code units,
// each truncated to its low byte. For ASCII text this equals Compute of the
// raw bytes.
func ComputeString(s string) uint32 {
	units := utf16.Encode([]rune(s))
	data := make([]byte, len(units))
	for i, u := range units {
		data[i] = byte(u)
	}
	return crc32.ChecksumIEEE(data)
}

// Update adds data to a running checksum started from 0.
func Update(crc uint32, data []byte) uint32 {
	return crc32.Update(crc, crc32.IEEETable, data)
}
