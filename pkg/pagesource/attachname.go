package pagesource

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// attachAlphabet is a scrambling of the 36 base-36 symbols. Using it
// instead of "0123456789abcdefghijklmnopqrstuvwxyz" means an attached
// name built from a small index doesn't look like a small number, so
// nothing can address an input by guessing its name.
const attachAlphabet = "1qa2zws3xed4crf5vtg6byh7nuj8mik9ol0p"

// maxAttachedInputs bounds how many inputs fit in the fixed 6-digit
// name field.
const maxAttachedInputs = 36 * 36 * 36 * 36 * 36 * 36

// AttachName returns the synthetic internal database name for the
// input at the given zero-based command-line position: an underscore
// followed by six digits in the scrambled alphabet above. The
// underscore prefix keeps the name from colliding with a SQL keyword,
// and the scrambled digits keep it unlike an identifier a user might
// plausibly choose.
func AttachName(index int) (string, error) {
	if index < 0 || index >= maxAttachedInputs {
		return "", status.Errorf(codes.OutOfRange, "attach index %d out of range", index)
	}
	digits := make([]byte, 6)
	n := index
	for i := 5; i >= 0; i-- {
		digits[i] = attachAlphabet[n%36]
		n /= 36
	}
	return "_" + string(digits), nil
}
