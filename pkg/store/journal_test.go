package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"tableflip.dev/fsh/pkg/command"
	"tableflip.dev/fsh/pkg/entry"
)

func newEntry(id, name string) entry.Entry {
	cmd := command.New(name, nil, "a")
	cmd.Meta["dest"] = "/tmp/" + id
	return entry.New(id, cmd, "/tmp", time.Now())
}

func TestFileMissingIsEmpty(t *testing.T) {
	j := Open(filepath.Join(t.TempDir(), "nested", "journal.json"), zaptest.NewLogger(t))
	all, err := j.Load()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFileCorruptIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": "x", "raw":`), 0o644))

	j := Open(path, zaptest.NewLogger(t))
	all, err := j.Load()
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, j.Append(newEntry("1", "cp")))
	all, err = j.Load()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "1", all[0].ID)
}

func TestFileAppendRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.json")
	j := Open(path, zaptest.NewLogger(t))

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, j.Append(newEntry(id, "cp")))
	}
	require.NoError(t, j.Remove("2"))

	all, err := j.Load()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, "3", all[1].ID)
	assert.Equal(t, "/tmp/3", all[1].Meta["dest"])

	before, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, j.Remove("does-not-exist"))
	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.json")
	require.NoError(t, Open(path, nil).Append(newEntry("a", "rm")))

	all, err := Open(path, nil).Load()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "rm", all[0].Name)
}

func TestFileUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	j := Open(filepath.Join(blocker, "journal.json"), nil)
	assert.Error(t, j.Append(newEntry("1", "cp")))
}

func TestMemory(t *testing.T) {
	m := NewMemory(newEntry("1", "cp"))
	require.NoError(t, m.Append(newEntry("2", "mv")))
	require.NoError(t, m.Remove("1"))
	all, err := m.Load()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2", all[0].ID)
}
