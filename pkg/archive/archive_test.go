package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, root string) {
	t.Helper()
	files := map[string]string{
		"a.txt":          "alpha",
		"sub/b.txt":      "beta",
		"sub/deep/c.txt": "gamma",
		"another/d.md":   "delta",
	}
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func assertContent(t *testing.T, path, want string) {
	t.Helper()
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))
}

func TestZipRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := filepath.Join(dir, "project")
	fixture(t, src)

	archive := filepath.Join(dir, "project.zip")
	require.NoError(t, Zip(ctx, src, archive))

	out := filepath.Join(dir, "out")
	require.NoError(t, Unzip(ctx, archive, out))
	assertContent(t, filepath.Join(out, "a.txt"), "alpha")
	assertContent(t, filepath.Join(out, "sub", "deep", "c.txt"), "gamma")
	assertContent(t, filepath.Join(out, "another", "d.md"), "delta")
}

func TestTarRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := filepath.Join(dir, "project")
	fixture(t, src)

	archive := filepath.Join(dir, "project.tar")
	require.NoError(t, Tar(ctx, src, archive))

	out := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, Untar(ctx, archive, out))
	assertContent(t, filepath.Join(out, "project", "a.txt"), "alpha")
	assertContent(t, filepath.Join(out, "project", "sub", "b.txt"), "beta")
}

func TestWithinRejectsEscapes(t *testing.T) {
	_, err := within("/tmp/out", "../etc/passwd")
	assert.Error(t, err)

	got, err := within("/tmp/out", "ok/file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/out", "ok", "file.txt"), got)
}

func TestCancelledZip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "project")
	fixture(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Zip(ctx, src, filepath.Join(dir, "x.zip")), context.Canceled)
}
