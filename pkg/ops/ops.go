// Package ops implements the shell's operations and the registry that routes
// command names to them.
//
// An operation's Execute is the only place that knows what its side effect
// was, so it records everything its Undo needs into cmd.Meta before returning.
// Undo sees nothing else: the journal stores Meta, flags and positionals, and
// the registry hands them back verbatim.
package ops

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/fsh/pkg/command"
	"tableflip.dev/fsh/pkg/printers"
	"tableflip.dev/fsh/pkg/session"
	"tableflip.dev/fsh/pkg/trash"
)

// Meta keys written by the reversible operations.
const (
	// MetaDest is the path cp or mv actually wrote to.
	MetaDest = "dest"
	// MetaSrc is the path mv moved away from.
	MetaSrc = "src"
	// MetaOriginalPath is where rm found its target.
	MetaOriginalPath = "original_path"
	// MetaTrashID identifies the trash slot rm created.
	MetaTrashID = "trash_id"
	// MetaNonInteractive skips the rm confirmation.
	MetaNonInteractive = "non_interactive"
	// MetaPermanent makes rm delete instead of trash.
	MetaPermanent = "permanent"
)

const (
	flagRecursive  = "recursive"
	flagLong       = "long"
	flagIgnoreCase = "ignore-case"
)

// Operation runs one command against the session.
type Operation interface {
	Execute(ctx context.Context, cmd *command.Parsed, s *session.Session) (command.Status, error)
}

// Reverser is implemented by operations that can undo themselves from the
// metadata their Execute recorded.
type Reverser interface {
	Undo(ctx context.Context, cmd *command.Parsed, s *session.Session) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) (bool, error)

func (f ConfirmFunc) Confirm(prompt string) (bool, error) {
	return f(prompt)
}

// Env carries the collaborators the operations share.
type Env struct {
	Bin     *trash.Bin
	Out     *printers.PrettyPrint
	Confirm Confirmer
	Log     *zap.Logger
	Now     func() time.Time
}

func (e Env) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

func (e Env) printer() *printers.PrettyPrint {
	if e.Out == nil {
		return &printers.PrettyPrint{}
	}
	return e.Out
}

func (e Env) clock() func() time.Time {
	if e.Now == nil {
		return time.Now
	}
	return e.Now
}

// pathError turns a filesystem error into an ExecutionError with a message
// naming what the user typed. Cancellation is kept recognisable.
func pathError(name, verb, arg string, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return command.Wrap(name, err)
	case errors.Is(err, fs.ErrPermission):
		return command.Failf(name, "cannot %s '%s': permission denied", verb, arg)
	case errors.Is(err, fs.ErrExist):
		return command.Failf(name, "cannot %s '%s': destination already exists", verb, arg)
	case errors.Is(err, fs.ErrNotExist):
		return command.Failf(name, "cannot %s '%s': no such file or directory", verb, arg)
	}
	return &command.ExecutionError{Command: name, Reason: fmt.Sprintf("cannot %s '%s'", verb, arg), Err: err}
}

// display renders path relative to the session directory when it lies below
// it.
func display(s *session.Session, path string) string {
	rel, err := filepath.Rel(s.Cwd, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
