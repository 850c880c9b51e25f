package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dir, stdin string, args ...string) string {
	t.Helper()
	t.Setenv("HOME", dir)
	t.Setenv("FSH_CONFIG_PATH", dir)

	var out bytes.Buffer
	cmd := New()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--journal", filepath.Join(dir, "journal.json"),
		"--trash", filepath.Join(dir, "trash"),
		"--no-color",
	}, args...))
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestHistoryJSONEmpty(t *testing.T) {
	dir := t.TempDir()
	out := run(t, dir, "", "history", "--json")
	assert.JSONEq(t, "[]", out)
}

func TestShellThenUndo(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("alpha"), 0o644))

	run(t, dir, "cp "+src+" "+filepath.Join(dir, "b.txt")+"\nexit\n")
	assert.FileExists(t, filepath.Join(dir, "b.txt"))

	out := run(t, dir, "", "history")
	assert.Contains(t, out, "cp "+src)

	out = run(t, dir, "", "undo")
	assert.Contains(t, out, "undid: cp "+src)
	assert.NoFileExists(t, filepath.Join(dir, "b.txt"))

	out = run(t, dir, "", "undo")
	assert.Contains(t, out, "nothing to undo")
}

func TestTrashEmpty(t *testing.T) {
	dir := t.TempDir()
	out := run(t, dir, "", "trash")
	assert.Contains(t, out, "trash is empty")
}

func TestHistoryJSONReportsBadWindow(t *testing.T) {
	dir := t.TempDir()
	out := run(t, dir, "", "history", "--json", "--since", "soon")
	assert.Contains(t, out, `{"error":`)
}

func TestCopyIntoDirectoryThenUndo(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	box := filepath.Join(dir, "box")
	require.NoError(t, os.WriteFile(src, []byte("alpha"), 0o644))
	require.NoError(t, os.MkdirAll(box, 0o755))

	run(t, dir, "cp "+src+" "+box+"\n")
	assert.FileExists(t, filepath.Join(box, "a.txt"))

	run(t, dir, "", "undo")
	assert.NoFileExists(t, filepath.Join(box, "a.txt"))
	assert.DirExists(t, box)
}
