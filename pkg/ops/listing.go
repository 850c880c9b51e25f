package ops

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"tableflip.dev/fsh/pkg/command"
	"tableflip.dev/fsh/pkg/fsutil"
	"tableflip.dev/fsh/pkg/printers"
	"tableflip.dev/fsh/pkg/search"
	"tableflip.dev/fsh/pkg/session"
)

// List prints a directory, a single file or the matches of a glob pattern.
type List struct {
	Out *printers.PrettyPrint
}

func (l *List) Execute(ctx context.Context, cmd *command.Parsed, s *session.Session) (command.Status, error) {
	arg := cmd.Arg(0)
	target := s.Cwd
	if arg != "" {
		var err error
		if target, err = s.Resolve(arg); err != nil {
			return command.Done, command.Wrap(cmd.Name, err)
		}
	}

	var rows []printers.FileRow
	switch {
	case fsutil.Exists(target):
		fi, err := os.Stat(target)
		if err != nil {
			return command.Done, pathError(cmd.Name, "access", arg, err)
		}
		if !fi.IsDir() {
			rows = append(rows, row(fi.Name(), fi))
			break
		}
		des, err := os.ReadDir(target)
		if err != nil {
			return command.Done, pathError(cmd.Name, "open directory", arg, err)
		}
		for _, de := range des {
			if err := ctx.Err(); err != nil {
				return command.Done, command.Wrap(cmd.Name, err)
			}
			fi, err := de.Info()
			if err != nil {
				continue
			}
			rows = append(rows, row(de.Name(), fi))
		}
	case arg != "" && hasMeta(arg):
		matches, err := doublestar.FilepathGlob(target)
		if err != nil {
			return command.Done, command.Failf(cmd.Name, "bad pattern '%s': %v", arg, err)
		}
		if len(matches) == 0 {
			return command.Done, command.Failf(cmd.Name, "no matches for '%s'", arg)
		}
		for _, m := range matches {
			fi, err := os.Lstat(m)
			if err != nil {
				continue
			}
			rows = append(rows, row(display(s, m), fi))
		}
	default:
		shown := arg
		if shown == "" {
			shown = target
		}
		return command.Done, command.Failf(cmd.Name, "cannot access '%s': no such file or directory", shown)
	}

	if cmd.Has(flagLong) {
		l.Out.LongListing(rows...)
	} else {
		l.Out.Names(rows...)
	}
	return command.Done, nil
}

func row(name string, fi os.FileInfo) printers.FileRow {
	return printers.FileRow{Name: name, Mode: fi.Mode(), Size: fi.Size(), Modified: fi.ModTime()}
}

func hasMeta(p string) bool {
	for _, r := range filepath.ToSlash(p) {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// Cd changes the session directory.
type Cd struct{}

func (c *Cd) Execute(_ context.Context, cmd *command.Parsed, s *session.Session) (command.Status, error) {
	target, err := s.Resolve(cmd.Arg(0))
	if err != nil {
		return command.Done, command.Wrap(cmd.Name, err)
	}
	if !fsutil.IsDir(target) {
		return command.Done, command.Failf(cmd.Name, "not a directory: %s", cmd.Arg(0))
	}
	s.Cwd = target
	return command.Done, nil
}

// Cat prints a text file.
type Cat struct {
	Out *printers.PrettyPrint
}

func (c *Cat) Execute(_ context.Context, cmd *command.Parsed, s *session.Session) (command.Status, error) {
	target, err := s.Resolve(cmd.Arg(0))
	if err != nil {
		return command.Done, command.Wrap(cmd.Name, err)
	}
	if !fsutil.Exists(target) {
		return command.Done, command.Failf(cmd.Name, "cannot read '%s': no such file or directory", cmd.Arg(0))
	}
	if fsutil.IsDir(target) {
		return command.Done, command.Failf(cmd.Name, "cannot read '%s': is a directory", cmd.Arg(0))
	}
	text, err := search.IsText(target)
	if err != nil {
		return command.Done, pathError(cmd.Name, "read", cmd.Arg(0), err)
	}
	if !text {
		return command.Done, command.Failf(cmd.Name, "cannot read '%s': not a text file", cmd.Arg(0))
	}
	b, err := os.ReadFile(target)
	if err != nil {
		return command.Done, pathError(cmd.Name, "read", cmd.Arg(0), err)
	}
	c.Out.Text(string(b))
	return command.Done, nil
}
