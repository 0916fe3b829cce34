// Package archivefile validates the command-line input paths and the
// output archive path before any SQLite connection is opened: no
// absolute paths, no empty paths, no paths over 65535 bytes, every
// input must be a regular file, no two inputs may name the same file,
// and the output path must not alias any input.
//
// Aliasing is decided by device and inode number, not by path string
// comparison, so that two different paths to the same file (through a
// symlink, a bind mount, or a hard link) are still caught.
package archivefile

import (
	"errors"
	"os"

	"github.com/blgl/s3zip/pkg/util"

	"golang.org/x/sys/unix"
	"google.golang.org/grpc/codes"
)

var errNotRegular = errors.New("not a regular file")

// Identity is the (device, inode) pair that names a file independent
// of the path used to reach it.
type Identity struct {
	Dev uint64
	Ino uint64
}

// Stat returns path's identity and file mode, and confirms it names a
// regular file. The mode is the raw st_mode bitfield, destined for the
// high 16 bits of a central directory entry's external-attributes
// field.
func Stat(path string) (Identity, uint32, error) {
	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		return Identity{}, 0, util.StatusWrapfWithCode(err, codes.NotFound, "%s", path)
	}
	if stat.Mode&unix.S_IFMT != unix.S_IFREG {
		return Identity{}, 0, util.StatusWrapfWithCode(errNotRegular, codes.InvalidArgument, "%s", path)
	}
	return Identity{Dev: uint64(stat.Dev), Ino: stat.Ino}, uint32(stat.Mode), nil
}

// StatOptional is like Stat, but a nonexistent output path is not an
// error: an archive being created fresh has no prior identity to
// compare against.
func StatOptional(path string) (Identity, bool, error) {
	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		if os.IsNotExist(err) {
			return Identity{}, false, nil
		}
		return Identity{}, false, util.StatusWrapfWithCode(err, codes.Unknown, "%s", path)
	}
	return Identity{Dev: uint64(stat.Dev), Ino: stat.Ino}, true, nil
}
