package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func addSyringe(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:       "syringe [1.0|0.5|0.3]",
		Short:     "Show or choose the syringe size in mL.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"1.0", "0.5", "0.3"},
		Example: `
dosebook syringe
dosebook syringe 0.5
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close()

			syr := svc.Syringe()
			if len(args) == 1 {
				if syr, err = svc.SetSyringe(args[0]); err != nil {
					return oo.HandleError(err)
				}
			}
			if done, err := oo.Print(map[string]interface{}{"syringe": syr, "units": syr.Capacity()}); done {
				return oo.HandleError(err)
			}
			_, _ = fmt.Fprintf(color.Output, "Syringe: %s mL (%g units)\n", color.New(color.Bold).Sprint(syr), syr.Capacity())
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
