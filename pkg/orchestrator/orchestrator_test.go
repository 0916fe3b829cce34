package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blgl/s3zip/pkg/deflate"
	"github.com/blgl/s3zip/pkg/orchestrator"
	"github.com/blgl/s3zip/pkg/pagesource"
	"github.com/blgl/s3zip/pkg/pagesource/syntheticsource"

	"github.com/stretchr/testify/require"
)

type fakeFile struct {
	data   []byte
	closed bool
	synced bool
}

func (f *fakeFile) WriteAt(p []byte, off int64) (int, error) {
	end := int(off) + len(p)
	if end > len(f.data) {
		grown := make([]byte, end)
		copy(grown, f.data)
		f.data = grown
	}
	copy(f.data[off:end], p)
	return len(p), nil
}

func (f *fakeFile) Sync() error { f.synced = true; return nil }
func (f *fakeFile) Close() error {
	f.closed = true
	return nil
}

type recordingReporter struct {
	members []string
	overall bool
	errs    []error
}

func (r *recordingReporter) MemberCompressed(path string, uncompressedSize, compressedSize uint64) {
	r.members = append(r.members, path)
}
func (r *recordingReporter) Overall(archiveSize, totalUncompressedSize uint64) { r.overall = true }
func (r *recordingReporter) Error(err error)                                  { r.errs = append(r.errs, err) }

func writeTempFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	// Inputs must be relative paths, so return path relative to the
	// working directory.
	wd, err := os.Getwd()
	require.NoError(t, err)
	rel, err := filepath.Rel(wd, path)
	require.NoError(t, err)
	return rel
}

func newFlateEngine(t *testing.T) deflate.Engine {
	t.Helper()
	e, err := deflate.NewFlateEngine()
	require.NoError(t, err)
	return e
}

func TestRunBuildsArchiveAndRetainsOutput(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.db")
	b := writeTempFile(t, dir, "b.db")
	archivePath := filepath.Join(dir, "out.zip")

	src := syntheticsource.New([]syntheticsource.Input{
		{Metadata: pagesource.Metadata{PageSize: 4, PageCount: 2, ModTime: time.Now()}, Pages: [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}}},
		{Metadata: pagesource.Metadata{PageSize: 4, PageCount: 0, ModTime: time.Now()}},
	})

	var file *fakeFile
	var removed []string
	reporter := &recordingReporter{}
	o := &orchestrator.Orchestrator{
		Source:   src,
		Engine:   newFlateEngine(t),
		Reporter: reporter,
		OpenOutput: func(path string) (orchestrator.OutputFile, error) {
			file = &fakeFile{}
			return file, nil
		},
		RemoveOutput: func(path string) error {
			removed = append(removed, path)
			return nil
		},
	}

	err := o.Run(context.Background(), archivePath, []string{a, b})
	require.NoError(t, err)
	require.Empty(t, removed)
	require.True(t, file.closed)
	require.True(t, file.synced)
	require.Equal(t, []string{a, b}, reporter.members)
	require.True(t, reporter.overall)
	require.Equal(t, []byte("PK\x03\x04"), file.data[0:4])
}

func TestRunRemovesOutputOnPageStreamFailure(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.db")
	archivePath := filepath.Join(dir, "out.zip")

	boom := errors.New("page source exploded")
	src := syntheticsource.New([]syntheticsource.Input{
		{Metadata: pagesource.Metadata{PageSize: 4, PageCount: 1}, PagesErr: boom},
	})

	var removed []string
	reporter := &recordingReporter{}
	o := &orchestrator.Orchestrator{
		Source:   src,
		Engine:   newFlateEngine(t),
		Reporter: reporter,
		OpenOutput: func(path string) (orchestrator.OutputFile, error) {
			return &fakeFile{}, nil
		},
		RemoveOutput: func(path string) error {
			removed = append(removed, path)
			return nil
		},
	}

	err := o.Run(context.Background(), archivePath, []string{a})
	require.Error(t, err)
	require.Equal(t, []string{archivePath}, removed)
	require.NotEmpty(t, reporter.errs)
}

func TestRunRejectsInvalidInputsBeforeTouchingOutput(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "out.zip")
	openCalled := false
	o := &orchestrator.Orchestrator{
		Source: syntheticsource.New(nil),
		Engine: newFlateEngine(t),
		OpenOutput: func(path string) (orchestrator.OutputFile, error) {
			openCalled = true
			return &fakeFile{}, nil
		},
	}

	err := o.Run(context.Background(), archivePath, []string{""})
	require.Error(t, err)
	require.False(t, openCalled, "output must not be created when input validation fails")
}
