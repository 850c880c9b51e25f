package trash

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDsUniqueWhenClockStalls(t *testing.T) {
	b, err := Open(t.TempDir())
	require.NoError(t, err)
	frozen := time.Unix(0, 1000)
	b.now = func() time.Time { return frozen }

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := b.nextID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestPutRestore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b, err := Open(filepath.Join(dir, ".trash"))
	require.NoError(t, err)

	target := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(target, []byte("keep me"), 0o644))

	slot, err := b.Put(ctx, target)
	require.NoError(t, err)
	assert.NoFileExists(t, target)
	assert.FileExists(t, b.SlotPath(slot.ID, target))
	assert.Equal(t, slot.ID+"_notes.txt", slot.Name)

	slots, err := b.List(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, target, slots[0].Original)

	require.NoError(t, b.Restore(ctx, slot.ID, target))
	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(got))

	slots, err = b.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestRestoreRefusesOverwrite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b, err := Open(filepath.Join(dir, ".trash"))
	require.NoError(t, err)

	target := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))
	slot, err := b.Put(ctx, target)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(target, []byte("new"), 0o644))
	assert.Error(t, b.Restore(ctx, slot.ID, target))
	assert.FileExists(t, b.SlotPath(slot.ID, target))

	assert.Error(t, b.Restore(ctx, "42", filepath.Join(dir, "never.txt")))
}

func TestSameBasenameGetsDistinctSlots(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b, err := Open(filepath.Join(dir, ".trash"))
	require.NoError(t, err)

	first := filepath.Join(dir, "x", "same.txt")
	second := filepath.Join(dir, "y", "same.txt")
	for _, p := range []string{first, second} {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(p), 0o644))
	}

	s1, err := b.Put(ctx, first)
	require.NoError(t, err)
	s2, err := b.Put(ctx, second)
	require.NoError(t, err)
	assert.NotEqual(t, s1.Name, s2.Name)

	slots, err := b.List(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, s2.ID, slots[0].ID)

	require.NoError(t, b.Purge(s1.ID, first))
	assert.NoFileExists(t, b.SlotPath(s1.ID, first))
}
