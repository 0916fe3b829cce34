// Package orchestrator drives the run's fixed lifecycle: validate
// inputs, open the page source, attach every input, hold a snapshot,
// collect metadata, stream-compress each member in command-line order,
// release the snapshot, then write the central directory and trailer.
//
// Every lifecycle resource (the page source's open workspace, the held
// snapshot, the output file) is torn down from an idempotent cleanup
// path on any failure, in the order snapshot, page source, output
// file, then removal of the output file. On success the snapshot and
// the page source are released before the central directory and
// trailer are written, and the output file is closed last and
// retained.
package orchestrator

import (
	"context"
	"io"
	"os"

	"github.com/blgl/s3zip/pkg/archivefile"
	"github.com/blgl/s3zip/pkg/archivewriter"
	"github.com/blgl/s3zip/pkg/deflate"
	"github.com/blgl/s3zip/pkg/diagnostics"
	"github.com/blgl/s3zip/pkg/pagesource"
	"github.com/blgl/s3zip/pkg/util"

	"google.golang.org/grpc/codes"
)

// OutputFile is the narrow filesystem capability the archive writer
// needs from the output: positioned writes, a durability barrier, and
// a close. A *os.File satisfies this directly.
type OutputFile interface {
	io.WriterAt
	Sync() error
	Close() error
}

// Orchestrator owns the two external collaborators (a page source and
// a deflate engine) for the duration of one run, plus where diagnostics
// go.
type Orchestrator struct {
	Source   pagesource.Source
	Engine   deflate.Engine
	Reporter diagnostics.Reporter

	// OpenOutput creates the archive file fresh. Defaults to opening
	// it read-write, created or truncated, with mode 0644.
	OpenOutput func(path string) (OutputFile, error)
	// RemoveOutput deletes the archive file. Defaults to os.Remove.
	RemoveOutput func(path string) error
}

// Run executes one complete archive build. On any failure, the
// already-created output file (if any) is removed before Run returns.
func (o *Orchestrator) Run(ctx context.Context, archivePath string, inputPaths []string) error {
	openOutput := o.OpenOutput
	if openOutput == nil {
		openOutput = defaultOpenOutput
	}
	removeOutput := o.RemoveOutput
	if removeOutput == nil {
		removeOutput = os.Remove
	}

	inputs, err := archivefile.ValidateInputs(inputPaths)
	if err != nil {
		o.reportError(err)
		return err
	}
	if err := archivefile.CheckOutputConflict(archivePath, inputs); err != nil {
		o.reportError(err)
		return err
	}

	var (
		sourceOpen   bool
		snapshotHeld bool
		file         OutputFile
		fileCreated  bool
	)
	cleanup := func() {
		if snapshotHeld {
			o.Source.EndSnapshot(ctx)
		}
		if sourceOpen {
			o.Source.Close()
		}
		if file != nil {
			file.Close()
		}
		if fileCreated {
			removeOutput(archivePath)
		}
	}
	fail := func(err error) error {
		o.reportError(err)
		cleanup()
		return err
	}

	if err := o.Source.Open(ctx); err != nil {
		return fail(err)
	}
	sourceOpen = true

	handles := make([]pagesource.Handle, len(inputs))
	for i, in := range inputs {
		h, err := o.Source.Attach(ctx, i, in.Path)
		if err != nil {
			return fail(err)
		}
		handles[i] = h
	}

	f, err := openOutput(archivePath)
	if err != nil {
		return fail(err)
	}
	file = f
	fileCreated = true

	if err := o.Source.BeginSnapshot(ctx); err != nil {
		return fail(err)
	}
	snapshotHeld = true

	members := make([]archivewriter.Member, len(inputs))
	for i, in := range inputs {
		meta, err := o.Source.Metadata(ctx, handles[i])
		if err != nil {
			return fail(err)
		}
		members[i] = archivewriter.Member{
			Path:      in.Path,
			Mode:      in.Mode,
			ModTime:   meta.ModTime,
			PageSize:  meta.PageSize,
			PageCount: meta.PageCount,
		}
	}

	writer := archivewriter.New(file, o.Engine)
	var totalUncompressed uint64
	for i, member := range members {
		handle := handles[i]
		result, err := writer.WriteMember(member, func(yield func(page []byte) error) error {
			return o.Source.Pages(ctx, handle, yield)
		})
		if err != nil {
			return fail(err)
		}
		totalUncompressed += result.UncompressedSize
		if o.Reporter != nil {
			o.Reporter.MemberCompressed(member.Path, result.UncompressedSize, result.ArchivedSize)
		}
	}

	o.Source.EndSnapshot(ctx)
	snapshotHeld = false
	if err := o.Source.Close(); err != nil {
		return fail(err)
	}
	sourceOpen = false

	if err := writer.Finish(); err != nil {
		return fail(err)
	}
	if err := file.Sync(); err != nil {
		return fail(err)
	}
	if o.Reporter != nil {
		o.Reporter.Overall(writer.Size(), totalUncompressed)
	}
	if err := file.Close(); err != nil {
		file = nil
		return fail(err)
	}
	return nil
}

func (o *Orchestrator) reportError(err error) {
	if o.Reporter != nil {
		o.Reporter.Error(err)
	}
}

func defaultOpenOutput(path string) (OutputFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, util.StatusWrapfWithCode(err, codes.Unknown, "%s", path)
	}
	return f, nil
}
