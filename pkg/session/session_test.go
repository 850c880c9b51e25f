package session

import (
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/fsh/pkg/entry"
)

func TestResolve(t *testing.T) {
	base := t.TempDir()
	s := New(base, nil)

	home, err := homedir.Dir()
	require.NoError(t, err)

	tests := map[string]string{
		"file.txt":     filepath.Join(base, "file.txt"),
		"a/../b":       filepath.Join(base, "b"),
		"..":           filepath.Dir(base),
		"/etc//hosts":  "/etc/hosts",
		"~":            filepath.Clean(home),
		"~/notes.txt":  filepath.Join(home, "notes.txt"),
		"~weird/x.txt": filepath.Join(base, "~weird/x.txt"),
	}
	for in, want := range tests {
		got, err := s.Resolve(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestRemoveAtKeepsOrder(t *testing.T) {
	s := New("/", []entry.Entry{{ID: "1"}, {ID: "2"}, {ID: "3"}})
	s.RemoveAt(1)
	require.Len(t, s.History, 2)
	assert.Equal(t, "1", s.History[0].ID)
	assert.Equal(t, "3", s.History[1].ID)

	s.RemoveAt(7)
	assert.Len(t, s.History, 2)
}

func TestAtSharesHistory(t *testing.T) {
	s := New("/a", []entry.Entry{{ID: "1"}})
	view := s.At("/b")
	assert.Equal(t, "/b", view.Cwd)
	assert.Equal(t, s.History, view.History)
	assert.Same(t, s, s.At(""))
}
