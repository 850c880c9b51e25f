package ops

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"tableflip.dev/fsh/pkg/command"
	"tableflip.dev/fsh/pkg/fsutil"
	"tableflip.dev/fsh/pkg/printers"
	"tableflip.dev/fsh/pkg/search"
	"tableflip.dev/fsh/pkg/session"
)

// Grep prints the lines of a file, or of every text file under a directory
// with --recursive, that match a regular expression.
type Grep struct {
	Out *printers.PrettyPrint
	Log *zap.Logger
}

func (g *Grep) Execute(ctx context.Context, cmd *command.Parsed, s *session.Session) (command.Status, error) {
	re, err := search.Compile(cmd.Arg(0), cmd.Has(flagIgnoreCase))
	if err != nil {
		return command.Done, command.Failf(cmd.Name, "bad pattern '%s': %v", cmd.Arg(0), err)
	}
	target, err := s.Resolve(cmd.Arg(1))
	if err != nil {
		return command.Done, command.Wrap(cmd.Name, err)
	}
	if !fsutil.Exists(target) {
		return command.Done, command.Failf(cmd.Name, "cannot search '%s': no such file or directory", cmd.Arg(1))
	}

	var matches []search.Match
	if fsutil.IsDir(target) {
		if !cmd.Has(flagRecursive) {
			return command.Done, command.Failf(cmd.Name, "'%s' is a directory: --recursive required", cmd.Arg(1))
		}
		g.Log.Debug("searching tree", zap.String("pattern", re.String()), zap.String("root", target))
		matches, err = search.Tree(ctx, re, target)
	} else {
		g.Log.Debug("searching file", zap.String("pattern", re.String()), zap.String("path", target))
		matches, err = search.File(ctx, re, target)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return command.Done, command.Wrap(cmd.Name, err)
		}
		return command.Done, pathError(cmd.Name, "search", cmd.Arg(1), err)
	}

	g.Out.Matches(func(p string) string { return display(s, p) }, matches...)
	return command.Done, nil
}
