package pagesource_test

import (
	"testing"

	"github.com/blgl/s3zip/pkg/pagesource"

	"github.com/stretchr/testify/require"
)

func TestAttachNameIsStableAndUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		name, err := pagesource.AttachName(i)
		require.NoError(t, err)
		require.Len(t, name, 7)
		require.Equal(t, byte('_'), name[0])
		require.False(t, seen[name], "name %q reused", name)
		seen[name] = true

		again, err := pagesource.AttachName(i)
		require.NoError(t, err)
		require.Equal(t, name, again)
	}
}

func TestAttachNameRejectsNegative(t *testing.T) {
	_, err := pagesource.AttachName(-1)
	require.Error(t, err)
}

func TestFileURIEncodesReservedBytes(t *testing.T) {
	require.Equal(t, "file:plain.db?mode=ro", pagesource.FileURI("plain.db"))
	require.Equal(t, "file:a%20b.db?mode=ro", pagesource.FileURI("a b.db"))
	require.Equal(t, "file:a%23b.db?mode=ro", pagesource.FileURI("a#b.db"))
	require.Equal(t, "file:a%3Fb.db?mode=ro", pagesource.FileURI("a?b.db"))
	require.Equal(t, "file:a%25b.db?mode=ro", pagesource.FileURI("a%b.db"))
	require.Equal(t, "file:a%FFb.db?mode=ro", pagesource.FileURI("a\xffb.db"))
}

func TestFileURIAbsolutePathGetsTripleSlash(t *testing.T) {
	require.Equal(t, "file:///abs.db?mode=ro", pagesource.FileURI("/abs.db"))
}
