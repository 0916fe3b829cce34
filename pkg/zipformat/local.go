package zipformat

// LocalHeaderSize is the fixed-size portion of a local file header, not
// including the path or extra field that follow it.
const LocalHeaderSize = 30

// LocalZIP64ExtraSize is the size of the local ZIP64 extra field. Both
// 64-bit sizes are always present together when this extra is used.
const LocalZIP64ExtraSize = 20

// LocalHeader is the 30-byte fixed record that precedes a member's path
// and compressed data.
type LocalHeader struct {
	VersionNeeded    uint16
	ModTime          uint16
	ModDate          uint16
	CRC32            uint32
	CompressedSize   uint64
	UncompressedSize uint64
	PathLen          uint16
	// NeedsZIP64 selects whether CompressedSize/UncompressedSize are
	// written as the 0xFFFFFFFF sentinel (with the real values moved
	// into a LocalZIP64Extra that follows the path) or written
	// directly.
	NeedsZIP64 bool
}

// Marshal encodes the fixed 30-byte local header. The extra-field
// length is set to LocalZIP64ExtraSize when NeedsZIP64 is set, else 0;
// the caller is responsible for writing the path and, if NeedsZIP64,
// the LocalZIP64Extra immediately after.
func (h LocalHeader) Marshal() []byte {
	buf := make([]byte, LocalHeaderSize)
	copy(buf[0:4], localHeaderSignature[:])
	putUint16(buf[4:6], uint64(h.VersionNeeded))
	putUint16(buf[6:8], FlagMaximumCompression)
	putUint16(buf[8:10], MethodDeflate)
	putUint16(buf[10:12], uint64(h.ModTime))
	putUint16(buf[12:14], uint64(h.ModDate))
	putUint32(buf[14:18], uint64(h.CRC32))
	if h.NeedsZIP64 {
		putUint32(buf[18:22], Sentinel32)
		putUint32(buf[22:26], Sentinel32)
		putUint16(buf[28:30], LocalZIP64ExtraSize)
	} else {
		putUint32(buf[18:22], h.CompressedSize)
		putUint32(buf[22:26], h.UncompressedSize)
		putUint16(buf[28:30], 0)
	}
	putUint16(buf[26:28], uint64(h.PathLen))
	return buf
}

// LocalZIP64Extra is the 20-byte ZIP64 extra field attached to a local
// header. Unlike the central directory's variable-length extra, the
// local extra always carries both sizes, in this fixed order.
type LocalZIP64Extra struct {
	UncompressedSize uint64
	CompressedSize   uint64
}

// Marshal encodes the 20-byte local ZIP64 extra field.
func (e LocalZIP64Extra) Marshal() []byte {
	buf := make([]byte, LocalZIP64ExtraSize)
	putUint16(buf[0:2], 0x0001)
	putUint16(buf[2:4], 16)
	putUint64(buf[4:12], e.UncompressedSize)
	putUint64(buf[12:20], e.CompressedSize)
	return buf
}
