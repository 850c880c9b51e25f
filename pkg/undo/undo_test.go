package undo

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"tableflip.dev/fsh/pkg/command"
	"tableflip.dev/fsh/pkg/dispatch"
	"tableflip.dev/fsh/pkg/ops"
	"tableflip.dev/fsh/pkg/parser"
	"tableflip.dev/fsh/pkg/printers"
	"tableflip.dev/fsh/pkg/session"
	"tableflip.dev/fsh/pkg/store"
	"tableflip.dev/fsh/pkg/trash"
)

func init() {
	color.NoColor = true
}

// harness is one shell session over a state directory. Starting a second
// harness on the same root simulates a restart.
type harness struct {
	t       *testing.T
	root    string
	out     *bytes.Buffer
	s       *session.Session
	journal *store.File
	d       *dispatch.Dispatcher
	eng     *Engine
}

func start(t *testing.T, root string) *harness {
	t.Helper()
	log := zaptest.NewLogger(t)
	work := filepath.Join(root, "work")
	require.NoError(t, os.MkdirAll(work, 0o755))
	bin, err := trash.Open(filepath.Join(root, "trash"))
	require.NoError(t, err)

	journal := store.Open(filepath.Join(root, "journal.json"), log)
	history, err := journal.Load()
	require.NoError(t, err)

	out := &bytes.Buffer{}
	pp := &printers.PrettyPrint{Out: out}
	reg := ops.Default(ops.Env{
		Bin:     bin,
		Out:     pp,
		Confirm: ops.ConfirmFunc(func(string) (bool, error) { return true, nil }),
		Log:     log,
	})
	eng := Register(reg, journal, pp, log)

	return &harness{
		t:       t,
		root:    root,
		out:     out,
		s:       session.New(work, history),
		journal: journal,
		d:       dispatch.New(reg, journal, log),
		eng:     eng,
	}
}

func (h *harness) path(rel string) string {
	return filepath.Join(h.root, "work", filepath.FromSlash(rel))
}

func (h *harness) write(rel, content string) {
	h.t.Helper()
	p := h.path(rel)
	require.NoError(h.t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(h.t, os.WriteFile(p, []byte(content), 0o644))
}

func (h *harness) run(line string) error {
	h.t.Helper()
	table := command.DefaultTable()
	cmd, err := parser.New(table).Parse(line)
	require.NoError(h.t, err)
	require.NoError(h.t, parser.NewValidator(table).Validate(cmd))
	_, err = h.d.Dispatch(context.Background(), cmd, h.s)
	return err
}

func (h *harness) mustRun(line string) {
	h.t.Helper()
	require.NoError(h.t, h.run(line), line)
}

func (h *harness) names() []string {
	h.t.Helper()
	all, err := h.journal.Load()
	require.NoError(h.t, err)
	var out []string
	for _, e := range all {
		out = append(out, e.Name)
	}
	return out
}

func assertContent(t *testing.T, path, want string) {
	t.Helper()
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))
}

func TestNothingToUndo(t *testing.T) {
	h := start(t, t.TempDir())

	got, err := h.eng.Undo(context.Background(), h.s)
	require.NoError(t, err)
	assert.Nil(t, got)

	h.mustRun("ls")
	h.mustRun("history")
	got, err = h.eng.Undo(context.Background(), h.s)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Len(t, h.s.History, 2)

	h.out.Reset()
	h.mustRun("undo")
	assert.Equal(t, "nothing to undo\n", h.out.String())
}

func TestUndoCopy(t *testing.T) {
	h := start(t, t.TempDir())
	h.write("a.txt", "alpha")
	h.mustRun("cp a.txt b.txt")

	h.out.Reset()
	h.mustRun("undo")
	assert.Equal(t, "undid: cp a.txt b.txt\n", h.out.String())
	assert.NoFileExists(t, h.path("b.txt"))
	assertContent(t, h.path("a.txt"), "alpha")
	assert.Equal(t, []string{"undo"}, h.names())
}

func TestUndoSkipsNonReversible(t *testing.T) {
	h := start(t, t.TempDir())
	h.write("a.txt", "alpha")
	h.mustRun("mv a.txt b.txt")
	h.mustRun("ls")
	h.mustRun("cat b.txt")

	got, err := h.eng.Undo(context.Background(), h.s)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "mv a.txt b.txt", got.Raw)
	assertContent(t, h.path("a.txt"), "alpha")
	assert.Equal(t, []string{"ls", "cat"}, h.names())
}

func TestUndoSurvivesRestart(t *testing.T) {
	root := t.TempDir()
	first := start(t, root)
	first.write("keep.txt", "precious")
	first.mustRun("rm keep.txt")
	assert.NoFileExists(t, first.path("keep.txt"))

	second := start(t, root)
	require.Len(t, second.s.History, 1)
	_, err := second.eng.Undo(context.Background(), second.s)
	require.NoError(t, err)
	assertContent(t, second.path("keep.txt"), "precious")
	assert.Empty(t, second.names())
}

func TestUndoUsesRecordedWorkingDirectory(t *testing.T) {
	h := start(t, t.TempDir())
	h.write("sub/a.txt", "alpha")
	h.mustRun("cd sub")
	h.mustRun("mv a.txt b.txt")
	h.mustRun("cd ..")

	_, err := h.eng.Undo(context.Background(), h.s)
	require.NoError(t, err)
	assertContent(t, h.path("sub/a.txt"), "alpha")
	assert.Equal(t, h.path(""), h.s.Cwd)
}

func TestSameBasenameUndoneInReverseOrder(t *testing.T) {
	h := start(t, t.TempDir())
	h.write("x/same.txt", "from x")
	h.write("y/same.txt", "from y")
	h.mustRun("rm x/same.txt")
	h.mustRun("rm y/same.txt")

	got, err := h.eng.Undo(context.Background(), h.s)
	require.NoError(t, err)
	assert.Equal(t, "rm y/same.txt", got.Raw)
	assertContent(t, h.path("y/same.txt"), "from y")
	assert.NoFileExists(t, h.path("x/same.txt"))

	got, err = h.eng.Undo(context.Background(), h.s)
	require.NoError(t, err)
	assert.Equal(t, "rm x/same.txt", got.Raw)
	assertContent(t, h.path("x/same.txt"), "from x")
}

func TestRecursiveRemoveUndo(t *testing.T) {
	h := start(t, t.TempDir())
	h.write("dir/inner/f.txt", "deep")

	err := h.run("rm dir")
	var ee *command.ExecutionError
	require.True(t, errors.As(err, &ee))
	assert.Empty(t, h.s.History)

	h.mustRun("rm -r dir")
	_, err = h.eng.Undo(context.Background(), h.s)
	require.NoError(t, err)
	assertContent(t, h.path("dir/inner/f.txt"), "deep")
}

func TestFailedUndoKeepsEntry(t *testing.T) {
	h := start(t, t.TempDir())
	h.write("a.txt", "alpha")
	h.mustRun("mv a.txt b.txt")
	h.write("a.txt", "squatter")

	_, err := h.eng.Undo(context.Background(), h.s)
	var ee *command.ExecutionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "mv", ee.Command)
	assert.Len(t, h.s.History, 1)
	assert.Equal(t, []string{"mv"}, h.names())
	assertContent(t, h.path("b.txt"), "alpha")
}

func TestUndoMissingMetaIsAnError(t *testing.T) {
	h := start(t, t.TempDir())
	h.write("a.txt", "alpha")
	h.mustRun("cp a.txt b.txt")
	delete(h.s.History[0].Meta, ops.MetaDest)

	_, err := h.eng.Undo(context.Background(), h.s)
	assert.ErrorIs(t, err, command.ErrMissingMeta)
	assert.Len(t, h.s.History, 1)
	assert.FileExists(t, h.path("b.txt"))
}
