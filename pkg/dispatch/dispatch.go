// Package dispatch routes validated commands to their operations and journals
// the ones that succeed.
package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tableflip.dev/fsh/pkg/command"
	"tableflip.dev/fsh/pkg/entry"
	"tableflip.dev/fsh/pkg/ops"
	"tableflip.dev/fsh/pkg/session"
	"tableflip.dev/fsh/pkg/store"
)

// Dispatcher executes commands and records the successful ones in the session
// history and the journal.
type Dispatcher struct {
	Registry *ops.Registry
	Journal  store.Journal
	Log      *zap.Logger
	Now      func() time.Time
	NewID    func() string

	disabled bool
}

// New returns a Dispatcher using the wall clock and UUIDv7 entry ids.
func New(reg *ops.Registry, journal store.Journal, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		Registry: reg,
		Journal:  journal,
		Log:      log,
		Now:      time.Now,
		NewID:    newID,
	}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Journaling reports whether entries are still written to the journal.
func (d *Dispatcher) Journaling() bool {
	return d.Journal != nil && !d.disabled
}

// Dispatch runs cmd. Only a Done command produces an entry. An interrupt is
// reported as Interrupted with a nil error.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd *command.Parsed, s *session.Session) (command.Status, error) {
	op, ok := d.Registry.Lookup(cmd.Name)
	if !ok {
		return command.Done, command.Wrap(cmd.Name, command.ErrNoHandler)
	}
	if len(cmd.Meta) != 0 {
		return command.Done, command.Failf(cmd.Name, "internal error: %s dispatched with metadata", cmd.Name)
	}
	if cmd.Meta == nil {
		cmd.Meta = command.Meta{}
	}

	cwd := s.Cwd
	d.Log.Debug("dispatching", zap.String("command", cmd.Raw), zap.String("cwd", cwd))
	st, err := op.Execute(ctx, cmd, s)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		d.Log.Warn("interrupted", zap.String("command", cmd.Raw))
		return command.Interrupted, nil
	default:
		return command.Done, command.Wrap(cmd.Name, err)
	}
	if st != command.Done {
		return st, nil
	}

	e := entry.New(d.NewID(), cmd, cwd, d.Now())
	s.Record(e)
	d.append(e)
	return command.Done, nil
}

func (d *Dispatcher) append(e entry.Entry) {
	if !d.Journaling() {
		return
	}
	if err := d.Journal.Append(e); err != nil {
		d.disabled = true
		d.Log.Warn("journaling disabled", zap.String("command", e.Raw), zap.Error(err))
	}
}
