package line

import (
	"context"
	"errors"

	"tableflip.dev/fsh/pkg/shell"
)

// Line runs a single shell command, journaled like any typed one.
type Line struct {
	Shell *shell.Shell
	Line  string
}

func (l *Line) Do(ctx context.Context) error {
	if l.Line == "" {
		return errors.New("line: nothing to run")
	}
	return l.Shell.Exec(ctx, l.Line)
}
