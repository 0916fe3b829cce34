// Package sqlitesource implements pagesource.Source against a live
// SQLite engine, using exactly the statements the original s3zip tool
// used: ATTACH under a synthetic schema name, the pragma_page_size,
// pragma_page_count and pragma_journal_mode table-valued functions for
// metadata, and the sqlite_dbpage virtual table for the page stream
// itself.
//
// It uses modernc.org/sqlite, a cgo-free, pure Go SQLite build, so that
// this tool has no C toolchain dependency.
package sqlitesource

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/blgl/s3zip/pkg/pagesource"
	"github.com/blgl/s3zip/pkg/util"

	_ "modernc.org/sqlite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// busyTimeoutMillis is the busy-wait applied to the in-memory catalog
// connection. 999,999,999 ms is, for all practical purposes,
// "wait indefinitely" -- concurrent writers to the inputs should never
// cause the snapshot below to fail to acquire for lack of patience.
const busyTimeoutMillis = 999999999

// maxPageSize is the largest page size this tool supports streaming
// (§1 Non-goals: "No support for page sizes exceeding 65536 bytes").
const maxPageSize = 1 << 16

// Source is a pagesource.Source backed by a single SQLite connection
// that never sees concurrent use: every method here is expected to be
// called from the orchestrator's single goroutine, in the fixed order
// pagesource.Source documents.
type Source struct {
	db    *sql.DB
	paths map[string]string // attach name -> original path, for post-lock re-stat

	// ErrorLogger receives EndSnapshot's rollback error, if any. These
	// failures are non-fatal (the run has already succeeded, or has
	// already failed for some other, already-reported reason) but are
	// still worth surfacing rather than discarding outright. Defaults
	// to util.DefaultErrorLogger.
	ErrorLogger util.ErrorLogger
}

var _ pagesource.Source = (*Source)(nil)

// New constructs a Source. Open must be called before any other method.
func New() *Source {
	return &Source{paths: map[string]string{}, ErrorLogger: util.DefaultErrorLogger}
}

// Open implements pagesource.Source.
func (s *Source) Open(ctx context.Context) error {
	db, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		return util.StatusWrapWithCode(err, codes.Internal, "sql.Open")
	}
	// A single shared in-memory catalog must be served by exactly one
	// connection: a second pooled connection would see an empty,
	// unattached database.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, fmt.Sprintf("pragma busy_timeout=%d", busyTimeoutMillis)); err != nil {
		db.Close()
		return util.StatusWrapWithCode(err, codes.Internal, "pragma busy_timeout")
	}
	s.db = db
	return nil
}

// Attach implements pagesource.Source.
//
// The explicit schema name (rather than attaching as "main") matters:
// if one of the inputs contained a table literally named
// "pragma_page_size", an unqualified reference could resolve to it
// instead of the pragma virtual table this code relies on.
func (s *Source) Attach(ctx context.Context, index int, path string) (pagesource.Handle, error) {
	name, err := pagesource.AttachName(index)
	if err != nil {
		return pagesource.Handle{}, err
	}
	uri := pagesource.FileURI(path)
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("attach database ? as %s", name), uri); err != nil {
		return pagesource.Handle{}, util.StatusWrapfWithCode(err, codes.FailedPrecondition, "attach %s", path)
	}
	s.paths[name] = path
	return pagesource.NewHandle(name), nil
}

// BeginSnapshot implements pagesource.Source.
func (s *Source) BeginSnapshot(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "begin immediate"); err != nil {
		return util.StatusWrapWithCode(err, codes.FailedPrecondition, "begin immediate")
	}
	return nil
}

// Metadata implements pagesource.Source.
func (s *Source) Metadata(ctx context.Context, h pagesource.Handle) (pagesource.Metadata, error) {
	row := s.db.QueryRowContext(ctx,
		`select page_size, page_count, journal_mode
		   from main.pragma_page_size(?1),
		        main.pragma_page_count(?1),
		        main.pragma_journal_mode(?1)`,
		h.Name())

	var pageSize int
	var pageCount int64
	var journalMode string
	if err := row.Scan(&pageSize, &pageCount, &journalMode); err != nil {
		return pagesource.Metadata{}, util.StatusWrapWithCode(err, codes.FailedPrecondition, "query metadata")
	}
	if pageSize > maxPageSize {
		return pagesource.Metadata{}, status.Errorf(codes.InvalidArgument, "unsupported page size %d", pageSize)
	}

	path := s.paths[h.Name()]
	modTime, err := snapshotModTime(path, journalMode)
	if err != nil {
		return pagesource.Metadata{}, util.StatusWrapWithCode(err, codes.Unknown, "stat")
	}

	return pagesource.Metadata{
		PageSize:    pageSize,
		PageCount:   pageCount,
		ModTime:     modTime,
		JournalMode: journalMode,
	}, nil
}

// snapshotModTime re-stats the backing file now that it is locked, and
// in WAL mode prefers the -wal side file's modification time when it is
// newer than the main file's.
func snapshotModTime(path, journalMode string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	mtime := info.ModTime()
	if journalMode == "wal" {
		if walInfo, err := os.Stat(path + "-wal"); err == nil && walInfo.ModTime().After(mtime) {
			mtime = walInfo.ModTime()
		}
	}
	return mtime, nil
}

// Pages implements pagesource.Source.
func (s *Source) Pages(ctx context.Context, h pagesource.Handle, yield func(page []byte) error) error {
	rows, err := s.db.QueryContext(ctx,
		"select data from main.sqlite_dbpage(?1) order by pgno", h.Name())
	if err != nil {
		return util.StatusWrapWithCode(err, codes.FailedPrecondition, "query pages")
	}
	defer rows.Close()

	for rows.Next() {
		var page []byte
		if err := rows.Scan(&page); err != nil {
			return util.StatusWrapWithCode(err, codes.FailedPrecondition, "scan page")
		}
		if err := yield(page); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return util.StatusWrapWithCode(err, codes.FailedPrecondition, "iterate pages")
	}
	return nil
}

// EndSnapshot implements pagesource.Source. Failures are non-fatal: by
// the time this runs, the run has either already succeeded (in which
// case a rollback failure changes nothing useful) or already failed
// for some other, already-reported reason. They are still logged,
// never silently dropped.
func (s *Source) EndSnapshot(ctx context.Context) {
	if _, err := s.db.ExecContext(ctx, "rollback"); err != nil && s.ErrorLogger != nil {
		s.ErrorLogger.Log(util.StatusWrapWithCode(err, codes.Unknown, "rollback"))
	}
}

// Close implements pagesource.Source.
func (s *Source) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
