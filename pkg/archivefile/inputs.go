package archivefile

import (
	"path/filepath"

	"github.com/blgl/s3zip/pkg/util"

	"google.golang.org/grpc/codes"
)

// maxPathLen matches the 16-bit path-length field every ZIP header
// stores a name in.
const maxPathLen = 0xFFFF

// Input is one validated, stat'd command-line input.
type Input struct {
	Path     string
	Identity Identity
	Mode     uint32
}

// ValidateInputs checks every rule §7 of the specification places on
// the input list, in the order the original tool applied them: no
// absolute paths, no empty paths, no overlong paths, every path must
// stat as a regular file, and no two paths may name the same file.
func ValidateInputs(paths []string) ([]Input, error) {
	inputs := make([]Input, 0, len(paths))
	for _, path := range paths {
		if filepath.IsAbs(path) {
			return nil, util.StatusWrapfWithCode(errAbsolutePath, codes.InvalidArgument, "%s", path)
		}
		if len(path) == 0 {
			return nil, util.StatusWrapWithCode(errEmptyPath, codes.InvalidArgument, "input path")
		}
		if len(path) > maxPathLen {
			return nil, util.StatusWrapfWithCode(errPathTooLong, codes.InvalidArgument, "%s", path)
		}

		id, mode, err := Stat(path)
		if err != nil {
			return nil, err
		}

		for _, seen := range inputs {
			if seen.Identity == id {
				return nil, util.StatusWrapfWithCode(errDuplicateInput, codes.InvalidArgument, "%s", path)
			}
		}

		inputs = append(inputs, Input{Path: path, Identity: id, Mode: mode})
	}
	return inputs, nil
}

var (
	errAbsolutePath   = statusError("no absolute paths allowed")
	errEmptyPath      = statusError("no empty paths allowed")
	errPathTooLong    = statusError("path too long")
	errDuplicateInput = statusError("duplicate input")
)

type statusError string

func (e statusError) Error() string { return string(e) }
