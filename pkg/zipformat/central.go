package zipformat

// CentralHeaderSize is the fixed-size portion of a central directory
// header, not including the path, extra field, or comment that follow
// it.
const CentralHeaderSize = 46

// CentralHeader is the 46-byte fixed record describing one archived
// member in the central directory.
type CentralHeader struct {
	VersionNeeded    uint16
	ModTime          uint16
	ModDate          uint16
	CRC32            uint32
	CompressedSize   uint64
	UncompressedSize uint64
	LocalOffset      uint64
	PathLen          uint16
	ExtraLen         uint16
	ExternalAttribs  uint32
}

// Marshal encodes the fixed 46-byte central directory header. Any of
// CompressedSize, UncompressedSize or LocalOffset that is at or beyond
// the ZIP64 threshold (2³²−1) is replaced with the 0xFFFFFFFF sentinel;
// the real value belongs in the ZIP64 extra field built separately by
// NewCentralZIP64Extra, which the caller writes immediately after the
// path.
func (h CentralHeader) Marshal() []byte {
	buf := make([]byte, CentralHeaderSize)
	copy(buf[0:4], centralHeaderSignature[:])

	versionMadeBy := h.VersionNeeded
	if versionMadeBy < VersionZIP64 {
		versionMadeBy = VersionZIP64
	}
	putUint16(buf[4:6], uint64(versionMadeBy)|CreatorUnix)
	putUint16(buf[6:8], uint64(h.VersionNeeded))
	putUint16(buf[8:10], FlagMaximumCompression)
	putUint16(buf[10:12], MethodDeflate)
	putUint16(buf[12:14], uint64(h.ModTime))
	putUint16(buf[14:16], uint64(h.ModDate))
	putUint32(buf[16:20], uint64(h.CRC32))

	if Overflows32(h.CompressedSize) {
		putUint32(buf[20:24], Sentinel32)
	} else {
		putUint32(buf[20:24], h.CompressedSize)
	}
	if Overflows32(h.UncompressedSize) {
		putUint32(buf[24:28], Sentinel32)
	} else {
		putUint32(buf[24:28], h.UncompressedSize)
	}

	putUint16(buf[28:30], uint64(h.PathLen))
	putUint16(buf[30:32], uint64(h.ExtraLen))
	putUint16(buf[32:34], 0) // comment length
	putUint16(buf[34:36], 0) // disk-start
	putUint16(buf[36:38], 0) // internal attributes
	putUint32(buf[38:42], uint64(h.ExternalAttribs))

	if Overflows32(h.LocalOffset) {
		putUint32(buf[42:46], Sentinel32)
	} else {
		putUint32(buf[42:46], h.LocalOffset)
	}
	return buf
}

// CentralZIP64Extra is the variable-length ZIP64 extra field attached
// to a central directory header. It carries exactly those 64-bit
// values whose corresponding 32-bit slot in the central header was set
// to the overflow sentinel, always in the fixed order (uncompressed
// size, compressed size, local header offset).
type CentralZIP64Extra struct {
	Values []uint64
}

// NewCentralZIP64Extra builds the extra field for a member, including
// only the fields that actually overflow 32 bits. The "≥" threshold
// means the all-ones value itself is always promoted.
func NewCentralZIP64Extra(uncompressedSize, compressedSize, localOffset uint64) CentralZIP64Extra {
	var values []uint64
	if Overflows32(uncompressedSize) {
		values = append(values, uncompressedSize)
	}
	if Overflows32(compressedSize) {
		values = append(values, compressedSize)
	}
	if Overflows32(localOffset) {
		values = append(values, localOffset)
	}
	return CentralZIP64Extra{Values: values}
}

// Len returns the total byte length of the extra field, including its
// 4-byte tag/size header, or 0 if no field overflowed (in which case no
// extra field should be written at all).
func (e CentralZIP64Extra) Len() int {
	if len(e.Values) == 0 {
		return 0
	}
	return 4 + 8*len(e.Values)
}

// Marshal encodes the extra field, or returns nil if it is empty.
func (e CentralZIP64Extra) Marshal() []byte {
	if len(e.Values) == 0 {
		return nil
	}
	buf := make([]byte, e.Len())
	putUint16(buf[0:2], 0x0001)
	putUint16(buf[2:4], uint64(8*len(e.Values)))
	for i, v := range e.Values {
		putUint64(buf[4+8*i:12+8*i], v)
	}
	return buf
}
