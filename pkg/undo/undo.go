// Package undo reverses the most recent reversible command in a session.
package undo

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"tableflip.dev/fsh/pkg/command"
	"tableflip.dev/fsh/pkg/entry"
	"tableflip.dev/fsh/pkg/ops"
	"tableflip.dev/fsh/pkg/printers"
	"tableflip.dev/fsh/pkg/session"
	"tableflip.dev/fsh/pkg/store"
)

// Engine replays the inverse of journaled commands, newest first.
type Engine struct {
	Registry *ops.Registry
	Journal  store.Journal
	Log      *zap.Logger
}

func New(reg *ops.Registry, journal store.Journal, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{Registry: reg, Journal: journal, Log: log}
}

// Undo reverses the last reversible entry in s.History and forgets it. Entries
// that cannot be reversed are skipped. It returns nil, nil when nothing is
// left to undo. A failed reversal leaves the history untouched.
func (e *Engine) Undo(ctx context.Context, s *session.Session) (*entry.Entry, error) {
	for i := len(s.History) - 1; i >= 0; i-- {
		target := s.History[i]
		if !e.Registry.Reversible(target.Name) {
			continue
		}

		e.Log.Debug("undoing", zap.String("id", target.ID), zap.String("command", target.Raw))
		if err := e.Registry.Undo(ctx, target.Command(), s.At(target.Cwd)); err != nil {
			return nil, &command.ExecutionError{
				Command: target.Name,
				Reason:  fmt.Sprintf("cannot undo '%s'", target.Raw),
				Err:     err,
			}
		}

		s.RemoveAt(i)
		if e.Journal != nil {
			if err := e.Journal.Remove(target.ID); err != nil {
				e.Log.Warn("undone entry is still journaled", zap.String("id", target.ID), zap.Error(err))
			}
		}
		return &target, nil
	}
	return nil, nil
}

// Command is the undo operation registered in the shell.
type Command struct {
	Engine *Engine
	Out    *printers.PrettyPrint
}

var _ ops.Operation = (*Command)(nil)

func (c *Command) Execute(ctx context.Context, _ *command.Parsed, s *session.Session) (command.Status, error) {
	e, err := c.Engine.Undo(ctx, s)
	if err != nil {
		return command.Done, err
	}
	if e == nil {
		c.Out.Text("nothing to undo")
		return command.Done, nil
	}
	c.Out.Text("undid: " + e.Raw)
	return command.Done, nil
}

// Register binds undo into reg, wired to journal.
func Register(reg *ops.Registry, journal store.Journal, out *printers.PrettyPrint, log *zap.Logger) *Engine {
	eng := New(reg, journal, log)
	reg.Register("undo", &Command{Engine: eng, Out: out})
	return eng
}
