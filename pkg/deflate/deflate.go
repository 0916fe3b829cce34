// Package deflate models the compressor used to turn one member's page
// stream into the bytes stored in the archive. It is a narrow interface
// (Reset, FeedPage) rather than a direct dependency on a specific
// compression library, so that the archive writer can be exercised in
// tests without pulling in real DEFLATE output.
package deflate

import "io"

// Engine is an incremental, raw (unwrapped) DEFLATE compressor. One
// Engine is created per run and handed to the archive writer, which
// calls Reset before every member; it is never recreated.
type Engine interface {
	// Reset redirects subsequent output to w and discards any
	// dictionary state left over from a previous member. It must be
	// called before the first FeedPage call of a member.
	Reset(w io.Writer)

	// FeedPage compresses exactly one page of input, writing whatever
	// output the engine is willing to drain to the writer passed to
	// Reset. final must be true for a member's last page (flush
	// mode FINISH, closing the raw DEFLATE stream so the member is
	// standalone-decodable) and false otherwise (flush mode BLOCK,
	// which bounds deflator memory while still improving compression
	// over unflushed input).
	FeedPage(page []byte, final bool) error
}
