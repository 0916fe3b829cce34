package deflate

import (
	"io"

	"github.com/blgl/s3zip/pkg/util"

	"github.com/klauspost/compress/flate"
	"google.golang.org/grpc/codes"
)

// FlateEngine is the Engine backing every real run: raw DEFLATE output
// (no zlib or gzip wrapper), best compression, reused across members by
// calling Reset rather than reallocating.
type FlateEngine struct {
	w *flate.Writer
}

// NewFlateEngine allocates and initializes one DEFLATE stream at
// Z_BEST_COMPRESSION-equivalent quality. It is created once per run;
// Reset is used between members instead of creating a new one.
func NewFlateEngine() (*FlateEngine, error) {
	w, err := flate.NewWriter(io.Discard, flate.BestCompression)
	if err != nil {
		return nil, util.StatusWrapWithCode(err, codes.Internal, "flate.NewWriter")
	}
	return &FlateEngine{w: w}, nil
}

// Reset implements Engine.
func (e *FlateEngine) Reset(w io.Writer) {
	e.w.Reset(w)
}

// FeedPage implements Engine. Every page except a member's last is
// pushed through Flush, which is klauspost/compress's nearest
// equivalent to Z_BLOCK: it drains whatever the compressor is willing
// to emit without permanently closing the stream, bounding how much
// input the deflator can accumulate before this page's bytes show up in
// the archive. The final page instead goes through Close, which emits
// the terminating block that makes the member standalone-decodable.
func (e *FlateEngine) FeedPage(page []byte, final bool) error {
	if _, err := e.w.Write(page); err != nil {
		return util.StatusWrapWithCode(err, codes.Internal, "flate write")
	}
	if final {
		if err := e.w.Close(); err != nil {
			return util.StatusWrapWithCode(err, codes.Internal, "flate close")
		}
		return nil
	}
	if err := e.w.Flush(); err != nil {
		return util.StatusWrapWithCode(err, codes.Internal, "flate flush")
	}
	return nil
}

var _ Engine = (*FlateEngine)(nil)
