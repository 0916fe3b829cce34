package archivewriter

import "github.com/blgl/s3zip/pkg/zipformat"

// worstCaseCompressedSize bounds, before a single byte is compressed,
// how large a member's DEFLATE stream could possibly grow relative to
// its page count and page size. Raw DEFLATE never expands a block by
// more than 5 bytes per 65535-byte chunk, so this is a safe upper
// bound for deciding local-header framing in advance.
func worstCaseCompressedSize(pageSize int, pageCount int64) uint64 {
	if pageCount <= 0 {
		return 0
	}
	chunksPerPage := uint64(pageSize+65534) / 65535
	if chunksPerPage == 0 {
		chunksPerPage = 1
	}
	overheadPerPage := chunksPerPage * 5
	return uint64(pageCount) * (uint64(pageSize) + overheadPerPage)
}

// classification is the per-member framing decision computed before
// any page is streamed, from quantities already known: uncompressed
// size, the worst-case compressed-size bound, and the member's local-
// header offset in the archive.
type classification struct {
	needsL64      bool
	needsC64      bool
	versionNeeded uint16
}

// classify decides local and central ZIP64 framing for a member. Both
// decisions use the same "≥ 2³²−1" overflow threshold as every other
// promotion decision in this archive: the all-ones 32-bit value is
// reserved as a sentinel, so a member whose size lands exactly on it
// must still be promoted, not just one that exceeds it.
func classify(uncompressedSize, worstCompressedSize, localOffset uint64) classification {
	needsL64 := zipformat.Overflows32(uncompressedSize) || zipformat.Overflows32(worstCompressedSize)
	needsC64 := needsL64 || zipformat.Overflows32(localOffset)

	versionNeeded := uint16(zipformat.VersionClassic)
	if needsC64 {
		versionNeeded = zipformat.VersionZIP64
	}
	return classification{needsL64: needsL64, needsC64: needsC64, versionNeeded: versionNeeded}
}
