// Package zipformat implements the on-disk byte layouts of the ZIP and
// ZIP64 archive format: local file headers, central directory headers,
// their ZIP64 extra fields, and the end-of-central-directory records.
//
// No layout here depends on platform endianness; every multi-byte field
// is packed explicitly in little-endian order.
package zipformat

import "encoding/binary"

// putUint16 stores the low 16 bits of v into dst in little-endian
// order. Wider values are truncated.
func putUint16(dst []byte, v uint64) {
	binary.LittleEndian.PutUint16(dst, uint16(v))
}

// putUint32 stores the low 32 bits of v into dst in little-endian
// order. Wider values are truncated.
func putUint32(dst []byte, v uint64) {
	binary.LittleEndian.PutUint32(dst, uint32(v))
}

// putUint64 stores v into dst in little-endian order.
func putUint64(dst []byte, v uint64) {
	binary.LittleEndian.PutUint64(dst, v)
}

// Sentinel32 is the value stored in a 32-bit size or offset field to
// indicate that the real value lives in a ZIP64 extra field.
const Sentinel32 = 0xFFFFFFFF

// Sentinel16 is the value stored in a 16-bit entry-count field to
// indicate that the real count lives in the ZIP64 end-of-central-
// directory record.
const Sentinel16 = 0xFFFF

// Overflows32 reports whether v needs to be promoted to a 64-bit ZIP64
// field, using the spec's "≥ 2³²−1" threshold: the all-ones 32-bit
// value is reserved as the overflow sentinel, so it is never a valid
// plain value either.
func Overflows32(v uint64) bool {
	return v >= Sentinel32
}
