package zipformat

// EOCDSize is the fixed size of the classic end-of-central-directory
// record, not counting the (always empty, in this writer) comment.
const EOCDSize = 22

// EOCD64Size is the fixed size of the ZIP64 end-of-central-directory
// record.
const EOCD64Size = 56

// EOCD64LocatorSize is the fixed size of the ZIP64 end-of-central-
// directory locator.
const EOCD64LocatorSize = 20

// NeedsEOCD64 reports whether the trailer must be written using the
// ZIP64 end-of-central-directory record and locator, per invariant 5:
// the archive has more than 65535 members, or the central directory's
// size or starting offset is at or beyond the 32-bit limit.
func NeedsEOCD64(entryCount, cdSize, cdOffset uint64) bool {
	return entryCount > 0xFFFF || Overflows32(cdSize) || Overflows32(cdOffset)
}

// EOCD is the classic, always-present end-of-central-directory record.
// When the archive also carries an EOCD64, any field here that
// overflows is replaced by its sentinel; the exact value lives in the
// EOCD64 instead.
type EOCD struct {
	EntryCount uint64
	CDSize     uint64
	CDOffset   uint64
}

// Marshal encodes the 22-byte classic EOCD record.
func (e EOCD) Marshal() []byte {
	buf := make([]byte, EOCDSize)
	copy(buf[0:4], eocdSignature[:])
	putUint16(buf[4:6], 0) // this disk
	putUint16(buf[6:8], 0) // disk with start of central directory

	if e.EntryCount > 0xFFFF {
		putUint16(buf[8:10], Sentinel16)
		putUint16(buf[10:12], Sentinel16)
	} else {
		putUint16(buf[8:10], e.EntryCount)
		putUint16(buf[10:12], e.EntryCount)
	}

	if Overflows32(e.CDSize) {
		putUint32(buf[12:16], Sentinel32)
	} else {
		putUint32(buf[12:16], e.CDSize)
	}
	// Store the offset sentinel here, not a value derived from
	// CDSize: an earlier revision of this writer stored the wrong
	// field in this overflow path.
	if Overflows32(e.CDOffset) {
		putUint32(buf[16:20], Sentinel32)
	} else {
		putUint32(buf[16:20], e.CDOffset)
	}

	putUint16(buf[20:22], 0) // comment length
	return buf
}

// EOCD64 is the ZIP64 end-of-central-directory record. It always
// stores exact values; 32-bit sentinels never appear here.
type EOCD64 struct {
	EntryCount uint64
	CDSize     uint64
	CDOffset   uint64
}

// Marshal encodes the 56-byte EOCD64 record.
func (e EOCD64) Marshal() []byte {
	buf := make([]byte, EOCD64Size)
	copy(buf[0:4], eocd64Signature[:])
	// Size of the remainder of this record, i.e. EOCD64Size minus the
	// 4-byte signature and the 8-byte size field itself.
	putUint64(buf[4:12], uint64(EOCD64Size-12))
	putUint16(buf[12:14], VersionZIP64|CreatorUnix)
	putUint16(buf[14:16], VersionZIP64)
	putUint32(buf[16:20], 0) // this disk
	putUint32(buf[20:24], 0) // disk with start of central directory
	putUint64(buf[24:32], e.EntryCount)
	putUint64(buf[32:40], e.EntryCount)
	putUint64(buf[40:48], e.CDSize)
	putUint64(buf[48:56], e.CDOffset)
	return buf
}

// EOCD64Locator points from the end of the archive back to the EOCD64
// record.
type EOCD64Locator struct {
	EOCD64Offset uint64
}

// Marshal encodes the 20-byte EOCD64 locator.
func (l EOCD64Locator) Marshal() []byte {
	buf := make([]byte, EOCD64LocatorSize)
	copy(buf[0:4], eocd64LocatorSignature[:])
	putUint32(buf[4:8], 0) // disk with the EOCD64 record
	putUint64(buf[8:16], l.EOCD64Offset)
	putUint32(buf[16:20], 1) // total number of disks
	return buf
}
