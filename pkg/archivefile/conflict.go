package archivefile

import (
	"github.com/blgl/s3zip/pkg/util"

	"google.golang.org/grpc/codes"
)

// CheckOutputConflict stats outputPath (a no-op if it does not yet
// exist) and rejects it if its identity matches any already-validated
// input: writing the archive over one of its own inputs would
// truncate that input out from under the snapshot that is about to
// read it.
//
// Both fields of the identity comparison must use ==: assigning dev
// with = instead of comparing it would make that half of the check
// depend on whether the device number is nonzero rather than on
// equality, so an output on a device numbered zero would be silently
// accepted even when it is one of the inputs.
func CheckOutputConflict(outputPath string, inputs []Input) error {
	id, exists, err := StatOptional(outputPath)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	for _, in := range inputs {
		if in.Identity.Dev == id.Dev && in.Identity.Ino == id.Ino {
			return util.StatusWrapfWithCode(errOutputConflict, codes.InvalidArgument, "%s", outputPath)
		}
	}
	return nil
}

var errOutputConflict = statusError("conflicts with an input file")
