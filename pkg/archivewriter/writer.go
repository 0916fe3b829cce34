// Package archivewriter implements the two-pass ZIP member writer: for
// each input it reserves local-header space, streams compressed page
// data at an offset past that reservation, then seeks back and fills
// in the header once the real CRC-32 and compressed size are known. It
// also builds the central directory and the trailer (classic EOCD, or
// EOCD64 plus locator plus EOCD) once every member has been written.
//
// Classic vs ZIP64 framing is chosen per member from a worst-case
// compressed-size bound computed before any byte is compressed, so
// that the local-header reservation never needs to grow once payload
// streaming has begun.
package archivewriter

import (
	"errors"
	"io"
	"time"

	"github.com/blgl/s3zip/pkg/deflate"
	"github.com/blgl/s3zip/pkg/util"
	"github.com/blgl/s3zip/pkg/zipformat"

	"google.golang.org/grpc/codes"
)

var (
	errInconsistentPageSize  = errors.New("page source delivered a page of the wrong size")
	errInconsistentPageCount = errors.New("page source delivered a different number of pages than reported")
)

// Member describes one archive entry to be written, everything about
// it that is known before any page is streamed.
type Member struct {
	Path      string
	Mode      uint32
	ModTime   time.Time
	PageSize  int
	PageCount int64
}

// MemberResult reports the sizes actually observed for a written
// member, for compression-ratio diagnostics.
type MemberResult struct {
	UncompressedSize uint64
	CompressedSize   uint64
	// ArchivedSize is the total archive bytes this member occupies:
	// local header, path, ZIP64 extra if present, and payload.
	ArchivedSize uint64
}

type centralEntry struct {
	path             string
	mode             uint32
	versionNeeded    uint16
	modTime          uint16
	modDate          uint16
	crc32            uint32
	compressedSize   uint64
	uncompressedSize uint64
	localOffset      uint64
}

// Writer builds a ZIP archive member by member onto a seekable output,
// using one deflate engine reset between members.
type Writer struct {
	rw     io.WriterAt
	engine deflate.Engine

	offset  uint64
	entries []centralEntry
}

// New constructs a Writer. rw must be empty at offset 0; engine must
// not yet have been used.
func New(rw io.WriterAt, engine deflate.Engine) *Writer {
	return &Writer{rw: rw, engine: engine}
}

// Size returns the number of bytes written so far, including the
// trailer once Finish has returned.
func (w *Writer) Size() uint64 {
	return w.offset
}

// WriteMember streams one member's pages and writes its local header.
// streamPages must invoke yield exactly PageCount times, each with a
// page of exactly PageSize bytes, in ascending page-number order; any
// other count or length is reported as a fatal page-source failure.
func (w *Writer) WriteMember(m Member, streamPages func(yield func(page []byte) error) error) (MemberResult, error) {
	uncompressedSize := uint64(m.PageSize) * uint64(m.PageCount)
	worst := worstCaseCompressedSize(m.PageSize, m.PageCount)
	localOffset := w.offset
	cls := classify(uncompressedSize, worst, localOffset)

	pathLen := uint16(len(m.Path))
	reservation := uint64(zipformat.LocalHeaderSize) + uint64(pathLen)
	if cls.needsL64 {
		reservation += zipformat.LocalZIP64ExtraSize
	}
	payloadOffset := localOffset + reservation

	var crc zipformat.CRC32
	cw := &countingWriter{w: &sectionWriter{w: w.rw, offset: payloadOffset}}
	w.engine.Reset(cw)

	var seen int64
	streamErr := streamPages(func(page []byte) error {
		if int64(len(page)) != int64(m.PageSize) {
			return util.StatusWrapfWithCode(errInconsistentPageSize, codes.DataLoss, "%s", m.Path)
		}
		seen++
		if seen > m.PageCount {
			return util.StatusWrapfWithCode(errInconsistentPageCount, codes.DataLoss, "%s", m.Path)
		}
		crc.Update(page)
		return w.engine.FeedPage(page, seen == m.PageCount)
	})
	if streamErr == nil && m.PageCount == 0 {
		streamErr = w.engine.FeedPage(nil, true)
	}
	if streamErr == nil && seen != m.PageCount {
		streamErr = util.StatusWrapfWithCode(errInconsistentPageCount, codes.DataLoss, "%s", m.Path)
	}
	if streamErr != nil {
		return MemberResult{}, streamErr
	}

	compressedSize := cw.size
	modDate, modTime := zipformat.DOSDateTime(m.ModTime)

	local := zipformat.LocalHeader{
		VersionNeeded:    cls.versionNeeded,
		ModTime:          modTime,
		ModDate:          modDate,
		CRC32:            crc.Sum32(),
		CompressedSize:   compressedSize,
		UncompressedSize: uncompressedSize,
		PathLen:          pathLen,
		NeedsZIP64:       cls.needsL64,
	}
	headerWriter := &sectionWriter{w: w.rw, offset: localOffset}
	if _, err := headerWriter.Write(local.Marshal()); err != nil {
		return MemberResult{}, util.StatusWrapWithCode(err, codes.Unknown, "write local header")
	}
	if _, err := headerWriter.Write([]byte(m.Path)); err != nil {
		return MemberResult{}, util.StatusWrapWithCode(err, codes.Unknown, "write local header path")
	}
	if cls.needsL64 {
		extra := zipformat.LocalZIP64Extra{UncompressedSize: uncompressedSize, CompressedSize: compressedSize}
		if _, err := headerWriter.Write(extra.Marshal()); err != nil {
			return MemberResult{}, util.StatusWrapWithCode(err, codes.Unknown, "write local zip64 extra")
		}
	}

	w.entries = append(w.entries, centralEntry{
		path:             m.Path,
		mode:             m.Mode,
		versionNeeded:    cls.versionNeeded,
		modTime:          modTime,
		modDate:          modDate,
		crc32:            crc.Sum32(),
		compressedSize:   compressedSize,
		uncompressedSize: uncompressedSize,
		localOffset:      localOffset,
	})

	w.offset = payloadOffset + compressedSize
	return MemberResult{
		UncompressedSize: uncompressedSize,
		CompressedSize:   compressedSize,
		ArchivedSize:     w.offset - localOffset,
	}, nil
}

// Finish writes the central directory and trailer. No further member
// may be written afterwards.
func (w *Writer) Finish() error {
	cdOffset := w.offset
	cw := &countingWriter{w: &sectionWriter{w: w.rw, offset: cdOffset}}

	for _, e := range w.entries {
		extra := zipformat.NewCentralZIP64Extra(e.uncompressedSize, e.compressedSize, e.localOffset)
		header := zipformat.CentralHeader{
			VersionNeeded:    e.versionNeeded,
			ModTime:          e.modTime,
			ModDate:          e.modDate,
			CRC32:            e.crc32,
			CompressedSize:   e.compressedSize,
			UncompressedSize: e.uncompressedSize,
			LocalOffset:      e.localOffset,
			PathLen:          uint16(len(e.path)),
			ExtraLen:         uint16(extra.Len()),
			ExternalAttribs:  (e.mode & 0xFFFF) << 16,
		}
		if _, err := cw.Write(header.Marshal()); err != nil {
			return util.StatusWrapWithCode(err, codes.Unknown, "write central header")
		}
		if _, err := cw.Write([]byte(e.path)); err != nil {
			return util.StatusWrapWithCode(err, codes.Unknown, "write central header path")
		}
		if extraBytes := extra.Marshal(); extraBytes != nil {
			if _, err := cw.Write(extraBytes); err != nil {
				return util.StatusWrapWithCode(err, codes.Unknown, "write central zip64 extra")
			}
		}
	}

	cdSize := cw.size
	entryCount := uint64(len(w.entries))
	trailerWriter := &sectionWriter{w: w.rw, offset: cdOffset + cdSize}

	if zipformat.NeedsEOCD64(entryCount, cdSize, cdOffset) {
		eocd64 := zipformat.EOCD64{EntryCount: entryCount, CDSize: cdSize, CDOffset: cdOffset}
		if _, err := trailerWriter.Write(eocd64.Marshal()); err != nil {
			return util.StatusWrapWithCode(err, codes.Unknown, "write eocd64")
		}
		locator := zipformat.EOCD64Locator{EOCD64Offset: cdOffset + cdSize}
		if _, err := trailerWriter.Write(locator.Marshal()); err != nil {
			return util.StatusWrapWithCode(err, codes.Unknown, "write eocd64 locator")
		}
	}

	eocd := zipformat.EOCD{EntryCount: entryCount, CDSize: cdSize, CDOffset: cdOffset}
	if _, err := trailerWriter.Write(eocd.Marshal()); err != nil {
		return util.StatusWrapWithCode(err, codes.Unknown, "write eocd")
	}

	w.offset = trailerWriter.offset
	return nil
}
