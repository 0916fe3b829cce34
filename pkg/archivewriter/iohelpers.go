package archivewriter

import "io"

// sectionWriter adapts an io.WriterAt into an io.Writer with an
// advancing cursor, so that sequential writes (a header, then a path,
// then compressed payload) land at consecutive offsets without the
// caller tracking position by hand.
type sectionWriter struct {
	w      io.WriterAt
	offset uint64
}

func (w *sectionWriter) Write(p []byte) (int, error) {
	n, err := w.w.WriteAt(p, int64(w.offset))
	w.offset += uint64(n)
	return n, err
}

// countingWriter wraps an io.Writer and tallies the bytes that pass
// through it, so the actual compressed size of a member (unknown until
// the deflate engine has finished draining) can be recovered without a
// second pass over the data.
type countingWriter struct {
	w    io.Writer
	size uint64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.size += uint64(n)
	return n, err
}
