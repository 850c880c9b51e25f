package options

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// OutputOptions selects between the colored text printers and JSON for
// commands that report data.
type OutputOptions struct {
	JSON bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// HandleError reports err as {"error": "..."} on cmd's error stream when JSON
// output is on, and swallows it. Otherwise err is returned to cobra.
func (o *OutputOptions) HandleError(cmd *cobra.Command, err error) error {
	if !o.JSON || err == nil {
		return err
	}
	b, merr := json.Marshal(map[string]string{"error": err.Error()})
	if merr != nil {
		return merr
	}
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), string(b))
	return nil
}
