package archivefile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blgl/s3zip/pkg/archivefile"

	"github.com/stretchr/testify/require"
)

// relPath returns path relative to the working directory, since
// ValidateInputs rejects absolute paths.
func relPath(t *testing.T, path string) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	rel, err := filepath.Rel(wd, path)
	require.NoError(t, err)
	return rel
}

func writeTempFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	return relPath(t, path)
}

func TestValidateInputsAcceptsDistinctFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.db")
	b := writeTempFile(t, dir, "b.db")

	inputs, err := archivefile.ValidateInputs([]string{a, b})
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	require.NotEqual(t, inputs[0].Identity, inputs[1].Identity)
}

func TestValidateInputsRejectsAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.db")
	_, err := archivefile.ValidateInputs([]string{a})
	require.NoError(t, err)

	_, err = archivefile.ValidateInputs([]string{filepath.Join("/", "a.db")})
	require.Error(t, err)
}

func TestValidateInputsRejectsEmptyPath(t *testing.T) {
	_, err := archivefile.ValidateInputs([]string{""})
	require.Error(t, err)
}

func TestValidateInputsRejectsNonRegularFile(t *testing.T) {
	dir := t.TempDir()
	_, err := archivefile.ValidateInputs([]string{relPath(t, dir)})
	require.Error(t, err)
}

func TestValidateInputsRejectsDuplicateInput(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.db")
	link := relPath(t, filepath.Join(dir, "a-hardlink.db"))
	require.NoError(t, os.Link(a, link))

	_, err := archivefile.ValidateInputs([]string{a, link})
	require.Error(t, err)
}

func TestCheckOutputConflictAllowsFreshPath(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.db")
	inputs, err := archivefile.ValidateInputs([]string{a})
	require.NoError(t, err)

	err = archivefile.CheckOutputConflict(filepath.Join(dir, "out.zip"), inputs)
	require.NoError(t, err)
}

func TestCheckOutputConflictRejectsSameFileAsInput(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.db")
	inputs, err := archivefile.ValidateInputs([]string{a})
	require.NoError(t, err)

	err = archivefile.CheckOutputConflict(a, inputs)
	require.Error(t, err)
}

func TestCheckOutputConflictAllowsExistingNonInputFile(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.db")
	out := writeTempFile(t, dir, "out.zip")
	inputs, err := archivefile.ValidateInputs([]string{a})
	require.NoError(t, err)

	err = archivefile.CheckOutputConflict(out, inputs)
	require.NoError(t, err)
}
