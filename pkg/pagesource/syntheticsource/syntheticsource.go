// Package syntheticsource implements pagesource.Source with
// caller-controlled bytes and sizes, so that archive writer and
// orchestrator tests can exercise every boundary case in the
// specification (inconsistent page counts, zero-page members, WAL mtime
// promotion, oversized page sizes) without a real SQLite engine.
package syntheticsource

import (
	"context"

	"github.com/blgl/s3zip/pkg/pagesource"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Input describes one synthetic database: Metadata is returned as is by
// Source.Metadata, and Pages are yielded as is by Source.Pages. For a
// consistent input, Pages holds exactly Metadata.PageCount entries of
// exactly Metadata.PageSize bytes each; nothing here checks that, so
// setting PageCount to something other than len(Pages), or giving a
// page another length, is how inconsistent-length boundary cases are
// exercised.
type Input struct {
	Metadata  pagesource.Metadata
	Pages     [][]byte
	AttachErr error
	PagesErr  error
}

// Source is a pagesource.Source over a fixed list of Inputs, indexed in
// the order Attach is called (which must match command-line order).
type Source struct {
	Inputs []Input

	opened   bool
	attached map[string]int
}

var _ pagesource.Source = (*Source)(nil)

// New constructs a synthetic Source over the given inputs.
func New(inputs []Input) *Source {
	return &Source{Inputs: inputs, attached: map[string]int{}}
}

// Open implements pagesource.Source.
func (s *Source) Open(ctx context.Context) error {
	s.opened = true
	return nil
}

// Attach implements pagesource.Source.
func (s *Source) Attach(ctx context.Context, index int, path string) (pagesource.Handle, error) {
	if index < 0 || index >= len(s.Inputs) {
		return pagesource.Handle{}, status.Errorf(codes.OutOfRange, "no synthetic input at index %d", index)
	}
	if err := s.Inputs[index].AttachErr; err != nil {
		return pagesource.Handle{}, err
	}
	name, err := pagesource.AttachName(index)
	if err != nil {
		return pagesource.Handle{}, err
	}
	s.attached[name] = index
	return pagesource.NewHandle(name), nil
}

// BeginSnapshot implements pagesource.Source.
func (s *Source) BeginSnapshot(ctx context.Context) error {
	return nil
}

// Metadata implements pagesource.Source.
func (s *Source) Metadata(ctx context.Context, h pagesource.Handle) (pagesource.Metadata, error) {
	idx, ok := s.attached[h.Name()]
	if !ok {
		return pagesource.Metadata{}, status.Error(codes.NotFound, "unknown handle")
	}
	return s.Inputs[idx].Metadata, nil
}

// Pages implements pagesource.Source.
func (s *Source) Pages(ctx context.Context, h pagesource.Handle, yield func(page []byte) error) error {
	idx, ok := s.attached[h.Name()]
	if !ok {
		return status.Error(codes.NotFound, "unknown handle")
	}
	in := s.Inputs[idx]
	if in.PagesErr != nil {
		return in.PagesErr
	}
	for _, page := range in.Pages {
		if err := yield(page); err != nil {
			return err
		}
	}
	return nil
}

// EndSnapshot implements pagesource.Source.
func (s *Source) EndSnapshot(ctx context.Context) {}

// Close implements pagesource.Source.
func (s *Source) Close() error {
	s.opened = false
	return nil
}
