package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/fsh/pkg/commands/options"
	"tableflip.dev/fsh/pkg/runner/history"
	"tableflip.dev/fsh/pkg/timeutil"
)

func addHistory(topLevel *cobra.Command, e *env) {
	oo := &options.OutputOptions{}
	since := ""

	cmd := &cobra.Command{
		Use:   "history",
		Short: "print the command journal, oldest first",
		Example: `
fsh history
fsh history --json
fsh history --since 1d
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var window time.Duration
			if since != "" {
				var err error
				if window, err = timeutil.ParseWindow(since); err != nil {
					return oo.HandleError(cmd, err)
				}
			}
			a, done, err := e.open(cmd)
			if err != nil {
				return oo.HandleError(cmd, err)
			}
			defer done()
			h := history.History{
				Journal: a.Journal,
				Printer: a.Printer,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
				Since:   window,
			}
			return oo.HandleError(cmd, h.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)
	cmd.Flags().StringVar(&since, "since", "", "Only show entries newer than this window, e.g. 90m, 3d or 1w2d.")
	topLevel.AddCommand(cmd)
}
