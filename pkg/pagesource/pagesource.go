// Package pagesource defines the capability this program needs from the
// embedded relational engine that stores each input database: a
// consistent, cross-database snapshot from which logical pages can be
// streamed one at a time. The engine that actually provides this
// (SQLite, through its sqlite_dbpage virtual table) lives in
// sqlitesource; a deterministic fake used by tests lives in
// syntheticsource.
package pagesource

import (
	"context"
	"time"
)

// Handle identifies one attached input within a Source for the
// duration of a single run. It is opaque outside this package, except
// to Source implementations, which construct it via NewHandle.
type Handle struct {
	name string
}

// NewHandle wraps an attached database's internal name into a Handle.
// Only Source implementations should need to call this.
func NewHandle(name string) Handle {
	return Handle{name: name}
}

// Name returns the synthetic internal database name underlying h, for
// Source implementations that need to refer back to it (e.g. to build
// a bound-parameter value for a table-valued function call).
func (h Handle) Name() string {
	return h.name
}

// Metadata is the per-input information needed to size and date-stamp
// an archive member, collected once the snapshot is held.
type Metadata struct {
	PageSize   int
	PageCount  int64
	ModTime    time.Time
	JournalMode string
}

// Source is the narrow interface the orchestrator drives. Calls are
// made in the fixed order: Open, Attach (once per input), BeginSnapshot,
// Metadata (once per input), Pages (once per input, after every input's
// Metadata call has completed), EndSnapshot, Close.
type Source interface {
	// Open creates a fresh workspace and arranges for a generous busy
	// timeout, so that a concurrent writer to one of the inputs does
	// not cause the snapshot acquisition below to abort prematurely.
	Open(ctx context.Context) error

	// Attach binds path as a read-only backing store, returning a
	// handle used by every subsequent call for this input. index is
	// this input's position in command-line order and determines the
	// synthetic internal name assigned to it.
	Attach(ctx context.Context, index int, path string) (Handle, error)

	// BeginSnapshot acquires an immediate, simultaneous read lock
	// across every attached input. A concurrent write that begins
	// after this call returns must not be observed by Pages.
	BeginSnapshot(ctx context.Context) error

	// Metadata returns page size, page count, and the snapshot
	// modification time for one attached input. It is always called
	// after BeginSnapshot.
	Metadata(ctx context.Context, h Handle) (Metadata, error)

	// Pages invokes yield once per page of h, in ascending page-number
	// order, with a blob whose length equals Metadata's PageSize. If
	// yield returns an error, streaming stops and that error is
	// returned. Pages does not itself check the number or the length
	// of the pages it delivers; archivewriter.Writer.WriteMember
	// rejects a stream with the wrong page count or a page of the
	// wrong length.
	Pages(ctx context.Context, h Handle, yield func(page []byte) error) error

	// EndSnapshot releases the lock. Failures here are non-fatal.
	EndSnapshot(ctx context.Context)

	// Close tears down the workspace.
	Close() error
}
