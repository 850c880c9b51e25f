package shell

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"tableflip.dev/fsh/pkg/dispatch"
	"tableflip.dev/fsh/pkg/ops"
	"tableflip.dev/fsh/pkg/printers"
	"tableflip.dev/fsh/pkg/session"
	"tableflip.dev/fsh/pkg/store"
	"tableflip.dev/fsh/pkg/trash"
	"tableflip.dev/fsh/pkg/undo"
)

func init() {
	color.NoColor = true
}

type rig struct {
	sh      *Shell
	out     *bytes.Buffer
	errs    *bytes.Buffer
	journal *store.Memory
	work    string
}

func newRig(t *testing.T, script string) *rig {
	t.Helper()
	root := t.TempDir()
	work := filepath.Join(root, "work")
	require.NoError(t, os.MkdirAll(work, 0o755))
	bin, err := trash.Open(filepath.Join(root, "trash"))
	require.NoError(t, err)

	r := &rig{out: &bytes.Buffer{}, errs: &bytes.Buffer{}, journal: store.NewMemory(), work: work}
	log := zaptest.NewLogger(t)
	sh := New(strings.NewReader(script), r.out, r.errs)
	pp := &printers.PrettyPrint{Out: r.out}
	reg := ops.Default(ops.Env{Bin: bin, Out: pp, Confirm: sh, Log: log})
	undo.Register(reg, r.journal, pp, log)
	sh.Dispatcher = dispatch.New(reg, r.journal, log)
	sh.Session = session.New(work, nil)
	sh.Log = log
	r.sh = sh
	return r
}

func (r *rig) write(t *testing.T, rel, content string) {
	t.Helper()
	p := filepath.Join(r.work, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func (r *rig) journaled(t *testing.T) []string {
	t.Helper()
	all, err := r.journal.Load()
	require.NoError(t, err)
	var names []string
	for _, e := range all {
		names = append(names, e.Name)
	}
	return names
}

func TestRunScript(t *testing.T) {
	r := newRig(t, strings.Join([]string{
		"cp a.txt b.txt",
		"bogus",
		"rm b.txt",
		"maybe",
		"y",
		"undo",
		"exit",
		"ls",
	}, "\n"))
	r.write(t, "a.txt", "alpha")

	require.NoError(t, r.sh.Run(context.Background()))

	assert.FileExists(t, filepath.Join(r.work, "b.txt"))
	assert.Contains(t, r.errs.String(), "Error: command 'bogus' is not supported")
	assert.Equal(t, 2, strings.Count(r.out.String(), "remove 'b.txt'? [y/n] "))
	assert.Contains(t, r.out.String(), "undid: rm b.txt")
	assert.Equal(t, []string{"cp", "undo"}, r.journaled(t))
}

func TestDeclinedRemoveIsNotJournaled(t *testing.T) {
	r := newRig(t, "rm a.txt\nN\n")
	r.write(t, "a.txt", "alpha")

	require.NoError(t, r.sh.Run(context.Background()))
	assert.FileExists(t, filepath.Join(r.work, "a.txt"))
	assert.Contains(t, r.out.String(), "cancelled")
	assert.Empty(t, r.journaled(t))
}

func TestConfirmEndOfInputDeclines(t *testing.T) {
	r := newRig(t, "")
	ok, err := r.sh.Confirm("remove 'x'?")
	require.NoError(t, err)
	assert.False(t, ok)

	r = newRig(t, "what\nY")
	ok, err = r.sh.Confirm("remove 'x'?")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestErrorsAreReported(t *testing.T) {
	r := newRig(t, "cp a.txt\ncat --loud x\ncat missing.txt\n")
	require.NoError(t, r.sh.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(r.errs.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Error: cp expects from 2 to 2 positional arguments, but 1 were given", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Error: cat: unknown flag: --loud"), lines[1])
	assert.Equal(t, "Error: cannot read 'missing.txt': no such file or directory", lines[2])
	assert.Empty(t, r.journaled(t))
}

func TestInterruptedCommandIsNotJournaled(t *testing.T) {
	r := newRig(t, "cp -r src dst\n")
	r.write(t, "src/a/b.txt", "deep")
	r.sh.Notify = func(ctx context.Context) (context.Context, context.CancelFunc) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()
		return ctx, cancel
	}

	require.NoError(t, r.sh.Run(context.Background()))
	assert.Contains(t, r.out.String(), "interrupted")
	assert.Empty(t, r.errs.String())
	assert.Empty(t, r.journaled(t))
	assert.Empty(t, r.sh.Session.History)
}

func TestInteractivePrompt(t *testing.T) {
	r := newRig(t, "exit\n")
	r.sh.Interactive = true
	require.NoError(t, r.sh.Run(context.Background()))
	assert.Contains(t, r.out.String(), r.work+"> ")
	assert.Contains(t, r.out.String(), "bye")
}
