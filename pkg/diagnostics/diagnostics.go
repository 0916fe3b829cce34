// Package diagnostics reports per-run human-readable status to a
// stream, in the narrow shape this tool needs: one compression-ratio
// line per member as it finishes, a final overall-ratio line, and a
// single line per fatal error. It mirrors the shape of
// util.ErrorLogger: a tiny interface so tests can capture output
// instead of asserting against os.Stderr.
package diagnostics

import (
	"fmt"
	"io"
)

// Reporter is what the orchestrator drives to report progress and
// failure. Implementations are not expected to be safe for concurrent
// use; this tool never calls one from more than one goroutine.
type Reporter interface {
	// MemberCompressed reports one input's compression ratio: its
	// total footprint in the archive (header, path, extra, and
	// payload) divided by its logical uncompressed size.
	MemberCompressed(path string, uncompressedSize, archivedSize uint64)

	// Overall reports the run's total compression ratio once the
	// archive is complete: the final output size divided by the sum
	// of every member's uncompressed size.
	Overall(archiveSize, totalUncompressedSize uint64)

	// Error reports a fatal error, identifying the operation or path
	// it occurred on.
	Error(err error)
}

// streamReporter writes to an arbitrary io.Writer in the same format
// the original tool used: "%.6f  %s" per member, a "========" rule,
// then "%.6f  (total)".
type streamReporter struct {
	w io.Writer
}

// NewStreamReporter returns a Reporter that writes to w (ordinarily
// os.Stderr).
func NewStreamReporter(w io.Writer) Reporter {
	return &streamReporter{w: w}
}

func (r *streamReporter) MemberCompressed(path string, uncompressedSize, archivedSize uint64) {
	fmt.Fprintf(r.w, "%.6f  %s\n", ratio(archivedSize, uncompressedSize), path)
}

func (r *streamReporter) Overall(archiveSize, totalUncompressedSize uint64) {
	fmt.Fprintf(r.w, "========\n%.6f  (total)\n", ratio(archiveSize, totalUncompressedSize))
}

func (r *streamReporter) Error(err error) {
	fmt.Fprintf(r.w, "%s\n", err)
}

// ratio returns archived/logical, or 0 for a logical size of 0 (an
// empty input has nothing to divide by, and nothing useful to report).
func ratio(archived, logical uint64) float64 {
	if logical == 0 {
		return 0
	}
	return float64(archived) / float64(logical)
}
