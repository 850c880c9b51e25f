package app

import (
	"errors"
	"io"
	"os"

	"go.uber.org/zap"

	"tableflip.dev/fsh/pkg/config"
	"tableflip.dev/fsh/pkg/dispatch"
	"tableflip.dev/fsh/pkg/ops"
	"tableflip.dev/fsh/pkg/printers"
	"tableflip.dev/fsh/pkg/session"
	"tableflip.dev/fsh/pkg/shell"
	"tableflip.dev/fsh/pkg/store"
	"tableflip.dev/fsh/pkg/trash"
	"tableflip.dev/fsh/pkg/undo"
)

// App is one assembled shell: storage, operations, dispatcher, undo engine
// and the line loop, sharing a single session.
type App struct {
	Config     config.Config
	Log        *zap.Logger
	Journal    store.Journal
	Bin        *trash.Bin
	Printer    *printers.PrettyPrint
	Registry   *ops.Registry
	Dispatcher *dispatch.Dispatcher
	Undo       *undo.Engine
	Session    *session.Session
	Shell      *shell.Shell
}

// Streams are the shell's standard streams.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// New opens the journal and trash named by cfg and wires the shell over st.
// An unreadable journal does not stop the shell; it runs with an in-memory
// journal instead.
func New(cfg config.Config, log *zap.Logger, st Streams) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if st.In == nil || st.Out == nil || st.Err == nil {
		return nil, errors.New("app: all streams are required")
	}

	bin, err := trash.Open(cfg.Trash)
	if err != nil {
		return nil, err
	}

	var journal store.Journal = store.Open(cfg.Journal, log.Named("journal"))
	history, err := journal.Load()
	if err != nil {
		log.Warn("journaling disabled", zap.String("path", cfg.Journal), zap.Error(err))
		journal = store.NewMemory()
		history = nil
	}

	s, err := session.FromWorkingDir(history)
	if err != nil {
		return nil, err
	}

	pp := &printers.PrettyPrint{Out: st.Out}
	sh := shell.New(st.In, st.Out, st.Err)
	if f, ok := st.In.(*os.File); ok {
		sh.Interactive = shell.IsTerminal(f)
	}

	reg := ops.Default(ops.Env{
		Bin:     bin,
		Out:     pp,
		Confirm: sh,
		Log:     log.Named("ops"),
	})
	eng := undo.Register(reg, journal, pp, log.Named("undo"))
	d := dispatch.New(reg, journal, log.Named("dispatch"))

	sh.Dispatcher = d
	sh.Session = s
	sh.Log = log.Named("shell")
	sh.Commands = append(reg.Names(), "exit")

	return &App{
		Config:     cfg,
		Log:        log,
		Journal:    journal,
		Bin:        bin,
		Printer:    pp,
		Registry:   reg,
		Dispatcher: d,
		Undo:       eng,
		Session:    s,
		Shell:      sh,
	}, nil
}
