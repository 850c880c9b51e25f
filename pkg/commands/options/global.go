package options

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/fsh/pkg/config"
)

// GlobalOptions are the persistent flags every fsh command accepts.
type GlobalOptions struct {
	Journal  string
	Trash    string
	LogFile  string
	LogLevel string
	NoColor  bool
}

// AddGlobalArgs registers the persistent flags on cmd and binds them into v
// so they take precedence over the config file and environment.
func AddGlobalArgs(cmd *cobra.Command, o *GlobalOptions, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.Journal, "journal", "",
		"Path of the command journal. (default ~/.fsh/journal.json)")
	flags.StringVar(&o.Trash, "trash", "",
		"Directory deleted files are kept in. (default ~/.fsh/trash)")
	flags.StringVar(&o.LogFile, "log-file", "",
		"Also write debug logs as JSON to this file.")
	flags.StringVar(&o.LogLevel, "log-level", "",
		"Console log level: debug, info, warn or error. (default warn)")
	flags.BoolVar(&o.NoColor, "no-color", false,
		"Disable colored output.")

	_ = v.BindPFlag(config.KeyJournal, flags.Lookup("journal"))
	_ = v.BindPFlag(config.KeyTrash, flags.Lookup("trash"))
	_ = v.BindPFlag(config.KeyLogFile, flags.Lookup("log-file"))
	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
}

// Apply pushes flags viper cannot bind directly.
func (o *GlobalOptions) Apply(v *viper.Viper) {
	if o.NoColor {
		v.Set(config.KeyColor, false)
	}
}
