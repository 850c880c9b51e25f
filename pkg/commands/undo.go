package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/fsh/pkg/runner/line"
)

func addUndo(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "reverse the most recent copy, move or delete",
		Example: `
fsh undo
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, done, err := e.open(cmd)
			if err != nil {
				return err
			}
			defer done()
			l := line.Line{Shell: a.Shell, Line: "undo"}
			return l.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
