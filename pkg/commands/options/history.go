package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dosebook/pkg/timeutil"
)

// HistoryOptions
type HistoryOptions struct {
	Vial string
	Last string
}

func AddHistoryArgs(cmd *cobra.Command, o *HistoryOptions) {
	cmd.Flags().StringVar(&o.Vial, "vial", "",
		"Vial to show. Defaults to the last used profile.")
	cmd.Flags().StringVar(&o.Last, "last", timeutil.DefaultWindow,
		"Time window to include (for example 3d, 2w, 1mo).")
}

// AddVialArg adds the --vial flag of commands that act on one vial.
func AddVialArg(cmd *cobra.Command, vial *string) {
	cmd.Flags().StringVar(vial, "vial", "",
		"Vial name. Defaults to the last used profile.")
}
