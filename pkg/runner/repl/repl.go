package repl

import (
	"context"

	"tableflip.dev/fsh/pkg/shell"
)

// REPL runs the interactive shell until the user leaves.
type REPL struct {
	Shell *shell.Shell
}

func (r *REPL) Do(ctx context.Context) error {
	return r.Shell.Run(ctx)
}
