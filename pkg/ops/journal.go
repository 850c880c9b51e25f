package ops

import (
	"context"
	"time"

	"tableflip.dev/fsh/pkg/command"
	"tableflip.dev/fsh/pkg/printers"
	"tableflip.dev/fsh/pkg/session"
	"tableflip.dev/fsh/pkg/trash"
)

// History prints the session history, oldest first.
type History struct {
	Out *printers.PrettyPrint
}

func (h *History) Execute(_ context.Context, _ *command.Parsed, s *session.Session) (command.Status, error) {
	h.Out.History(s.History...)
	return command.Done, nil
}

// Trash lists the trash slots, newest first.
type Trash struct {
	Bin *trash.Bin
	Out *printers.PrettyPrint
	Now func() time.Time
}

func (t *Trash) Execute(ctx context.Context, cmd *command.Parsed, _ *session.Session) (command.Status, error) {
	if t.Bin == nil {
		return command.Done, command.Failf(cmd.Name, "no trash configured")
	}
	slots, err := t.Bin.List(ctx)
	if err != nil {
		return command.Done, command.Wrap(cmd.Name, err)
	}
	t.Out.Trash(t.Now(), slots...)
	return command.Done, nil
}
