package syntheticsource_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blgl/s3zip/pkg/pagesource"
	"github.com/blgl/s3zip/pkg/pagesource/syntheticsource"

	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("synthetic failure")

func TestSourceStreamsPagesInOrder(t *testing.T) {
	ctx := context.Background()
	mtime := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	src := syntheticsource.New([]syntheticsource.Input{
		{
			Metadata: pagesource.Metadata{PageSize: 4, PageCount: 2, ModTime: mtime, JournalMode: "delete"},
			Pages:    [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}},
		},
	})
	require.NoError(t, src.Open(ctx))
	h, err := src.Attach(ctx, 0, "a.db")
	require.NoError(t, err)
	require.NoError(t, src.BeginSnapshot(ctx))

	meta, err := src.Metadata(ctx, h)
	require.NoError(t, err)
	require.Equal(t, 4, meta.PageSize)
	require.Equal(t, int64(2), meta.PageCount)
	require.True(t, mtime.Equal(meta.ModTime))

	var pages [][]byte
	require.NoError(t, src.Pages(ctx, h, func(page []byte) error {
		pages = append(pages, append([]byte(nil), page...))
		return nil
	}))
	require.Equal(t, [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}}, pages)

	src.EndSnapshot(ctx)
	require.NoError(t, src.Close())
}

func TestSourceCanReportInconsistentPageCount(t *testing.T) {
	ctx := context.Background()
	src := syntheticsource.New([]syntheticsource.Input{
		{
			Metadata: pagesource.Metadata{PageSize: 4, PageCount: 3},
			Pages:    [][]byte{{1, 2, 3, 4}},
		},
	})
	require.NoError(t, src.Open(ctx))
	h, err := src.Attach(ctx, 0, "a.db")
	require.NoError(t, err)
	require.NoError(t, src.BeginSnapshot(ctx))

	meta, err := src.Metadata(ctx, h)
	require.NoError(t, err)

	var count int
	require.NoError(t, src.Pages(ctx, h, func(page []byte) error {
		count++
		return nil
	}))
	require.NotEqual(t, meta.PageCount, int64(count))
}

func TestSourcePropagatesAttachAndPagesErrors(t *testing.T) {
	ctx := context.Background()
	src := syntheticsource.New([]syntheticsource.Input{
		{AttachErr: errBoom},
		{PagesErr: errBoom},
	})
	require.NoError(t, src.Open(ctx))

	_, err := src.Attach(ctx, 0, "a.db")
	require.ErrorIs(t, err, errBoom)

	h, err := src.Attach(ctx, 1, "b.db")
	require.NoError(t, err)
	require.NoError(t, src.BeginSnapshot(ctx))
	err = src.Pages(ctx, h, func(page []byte) error { return nil })
	require.ErrorIs(t, err, errBoom)
}

func TestSourceYieldErrorStopsStreaming(t *testing.T) {
	ctx := context.Background()
	src := syntheticsource.New([]syntheticsource.Input{
		{Pages: [][]byte{{1}, {2}, {3}}},
	})
	require.NoError(t, src.Open(ctx))
	h, err := src.Attach(ctx, 0, "a.db")
	require.NoError(t, err)
	require.NoError(t, src.BeginSnapshot(ctx))

	var seen int
	err = src.Pages(ctx, h, func(page []byte) error {
		seen++
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, 1, seen)
}
