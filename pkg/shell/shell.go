// Package shell runs the interactive read, parse, dispatch loop.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"tableflip.dev/fsh/pkg/command"
	"tableflip.dev/fsh/pkg/dispatch"
	"tableflip.dev/fsh/pkg/parser"
	"tableflip.dev/fsh/pkg/session"
)

var (
	errLabel = color.New(color.FgRed, color.Bold)
	cwdColor = color.New(color.FgCyan)
	dim      = color.New(color.Faint)
)

// Shell reads commands line by line and dispatches them. It also answers the
// confirmation prompts of destructive operations from the same input.
type Shell struct {
	In  *bufio.Reader
	Out io.Writer
	Err io.Writer

	// Interactive enables the prompt and banners.
	Interactive bool

	Parser     *parser.Parser
	Validator  *parser.Validator
	Dispatcher *dispatch.Dispatcher
	Session    *session.Session
	Log        *zap.Logger

	// Notify derives the context one command runs under. It defaults to
	// cancelling on os.Interrupt.
	Notify func(context.Context) (context.Context, context.CancelFunc)

	// Commands is listed in the welcome banner.
	Commands []string
}

// New returns a Shell over the given streams. Parser and Validator use the
// default command table.
func New(in io.Reader, out, errw io.Writer) *Shell {
	t := command.DefaultTable()
	return &Shell{
		In:        bufio.NewReader(in),
		Out:       out,
		Err:       errw,
		Parser:    parser.New(t),
		Validator: parser.NewValidator(t),
		Log:       zap.NewNop(),
		Commands:  t.Names(),
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (sh *Shell) notify(ctx context.Context) (context.Context, context.CancelFunc) {
	if sh.Notify != nil {
		return sh.Notify(ctx)
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}

// readLine returns the next line without its terminator. io.EOF is returned
// only once no text is left.
func (sh *Shell) readLine() (string, error) {
	line, err := sh.In.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}

// Confirm asks prompt until the answer is y or n. End of input declines.
func (sh *Shell) Confirm(prompt string) (bool, error) {
	for {
		_, _ = fmt.Fprintf(sh.Out, "%s [y/n] ", prompt)
		line, err := sh.readLine()
		if errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(sh.Out)
			return false, nil
		}
		if err != nil {
			return false, err
		}
		switch strings.TrimSpace(line) {
		case "y", "Y":
			return true, nil
		case "n", "N":
			return false, nil
		}
	}
}

// Run loops until exit, end of input or ctx is done.
func (sh *Shell) Run(ctx context.Context) error {
	if sh.Interactive {
		sh.welcome()
		defer sh.goodbye()
	}
	for ctx.Err() == nil {
		if sh.Interactive {
			_, _ = fmt.Fprintf(sh.Out, "%s> ", cwdColor.Sprint(sh.Session.Cwd))
		}
		line, err := sh.readLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "exit":
			return nil
		}
		if err := sh.Exec(ctx, line); err != nil {
			sh.report(err)
		}
	}
	return nil
}

// Exec parses, validates and dispatches one line.
func (sh *Shell) Exec(ctx context.Context, line string) error {
	cmd, err := sh.Parser.Parse(line)
	if err != nil {
		return err
	}
	if err := sh.Validator.Validate(cmd); err != nil {
		return err
	}

	cctx, stop := sh.notify(ctx)
	defer stop()
	st, err := sh.Dispatcher.Dispatch(cctx, cmd, sh.Session)
	if err != nil {
		return err
	}
	switch st {
	case command.Interrupted:
		_, _ = fmt.Fprintln(sh.Out, dim.Sprint("interrupted"))
	case command.Declined:
		_, _ = fmt.Fprintln(sh.Out, dim.Sprint("cancelled"))
	}
	return nil
}

func (sh *Shell) report(err error) {
	var ee *command.ExecutionError
	if errors.As(err, &ee) {
		sh.Log.Warn("command failed", zap.String("command", ee.Command), zap.Error(err))
	} else {
		sh.Log.Debug("command rejected", zap.Error(err))
	}
	_, _ = fmt.Fprintf(sh.Err, "%s %v\n", errLabel.Sprint("Error:"), err)
}

func (sh *Shell) welcome() {
	_, _ = fmt.Fprintln(sh.Out, color.New(color.Bold).Sprint("fsh: every change can be undone"))
	_, _ = fmt.Fprintf(sh.Out, "commands: %s\n", strings.Join(sh.Commands, ", "))
	_, _ = fmt.Fprintln(sh.Out, dim.Sprint("type 'exit' or press Ctrl-D to leave"))
}

func (sh *Shell) goodbye() {
	_, _ = fmt.Fprintln(sh.Out, dim.Sprint("bye"))
}
