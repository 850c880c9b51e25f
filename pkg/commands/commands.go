package commands

import (
	"github.com/fatih/color"
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/fsh/pkg/app"
	"tableflip.dev/fsh/pkg/commands/options"
	"tableflip.dev/fsh/pkg/config"
	"tableflip.dev/fsh/pkg/logging"
	"tableflip.dev/fsh/pkg/runner/repl"
)

// env carries what every subcommand needs to assemble an app.
type env struct {
	v    *viper.Viper
	opts *options.GlobalOptions
}

func New() *cobra.Command {
	e := &env{v: viper.New(), opts: &options.GlobalOptions{}}

	cmd := &cobra.Command{
		Use:   "fsh",
		Short: base.Wrap80("A filesystem shell where every copy, move and delete can be undone, even after a restart."),
		Example: `
fsh
fsh --trash /tmp/fsh-trash
fsh history --json
`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, done, err := e.open(cmd)
			if err != nil {
				return err
			}
			defer done()
			r := repl.REPL{Shell: a.Shell}
			return r.Do(cmd.Context())
		},
	}

	options.AddGlobalArgs(cmd, e.opts, e.v)
	addCommands(cmd, e)
	return cmd
}

func addCommands(topLevel *cobra.Command, e *env) {
	addHistory(topLevel, e)
	addUndo(topLevel, e)
	addTrash(topLevel, e)
	addVersion(topLevel)
}

// open resolves configuration and assembles the app over cmd's streams. The
// returned func flushes the logger.
func (e *env) open(cmd *cobra.Command) (*app.App, func(), error) {
	e.opts.Apply(e.v)
	cfg, err := config.Load(e.v)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Color {
		color.NoColor = true
	}
	log, err := logging.New(logging.Config{Level: cfg.LogLevel, File: cfg.LogFile, Console: cmd.ErrOrStderr()})
	if err != nil {
		return nil, nil, err
	}
	a, err := app.New(cfg, log, app.Streams{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()})
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}
	return a, func() { _ = log.Sync() }, nil
}
