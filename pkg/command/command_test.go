package command

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetaRequire(t *testing.T) {
	m := Meta{"dest": "/tmp/x", "empty": ""}

	v, err := m.Require("dest")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x", v)

	for _, key := range []string{"missing", "empty"} {
		_, err := m.Require(key)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingMeta))
		assert.Contains(t, err.Error(), key)
	}
}

func TestMetaClone(t *testing.T) {
	m := Meta{"a": "1"}
	c := m.Clone()
	c["a"] = "2"
	assert.Equal(t, "1", m["a"])
}

func TestWrapKeepsExecutionErrors(t *testing.T) {
	orig := Failf("rm", "file doesn't exist (%s)", "/x")
	assert.Same(t, orig, Wrap("rm", orig))

	wrapped := Wrap("cp", fmt.Errorf("outer: %w", orig))
	var ee *ExecutionError
	require.True(t, errors.As(wrapped, &ee))
	assert.Equal(t, "rm", ee.Command)

	plain := Wrap("cp", errors.New("boom"))
	require.True(t, errors.As(plain, &ee))
	assert.Equal(t, "cp", ee.Command)
	assert.Equal(t, "error executing cp: boom", plain.Error())

	assert.Nil(t, Wrap("cp", nil))
}

func TestNewRendersRaw(t *testing.T) {
	p := New("rm", []string{"recursive"}, "/tmp/my dir")
	assert.Equal(t, "rm --recursive '/tmp/my dir'", p.Raw)
	assert.Empty(t, p.Meta)
	assert.True(t, p.Has("r", "recursive"))
	assert.False(t, p.Has("long"))
	assert.Equal(t, "", p.Arg(3))
}

func TestDefaultTableBounds(t *testing.T) {
	tbl := DefaultTable()
	for _, name := range tbl.Names() {
		s, ok := tbl.Lookup(name)
		require.True(t, ok)
		assert.LessOrEqual(t, s.MinPos, s.MaxPos, name)
	}
	_, ok := tbl.Lookup("format")
	assert.False(t, ok)
}
