package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/fsh/pkg/runner/line"
)

func addTrash(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "list deleted files kept in the trash, newest first",
		Example: `
fsh trash
fsh trash --trash /tmp/fsh-trash
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, done, err := e.open(cmd)
			if err != nil {
				return err
			}
			defer done()
			l := line.Line{Shell: a.Shell, Line: "trash"}
			return l.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
