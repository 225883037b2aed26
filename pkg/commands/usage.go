package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/dosebook/pkg/commands/options"
	"tableflip.dev/dosebook/pkg/printers"
)

func addUsage(topLevel *cobra.Command) {
	var vial string

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show how many doses a vial has used.",
		Example: `
dosebook usage
dosebook usage --vial "Vial 2"
dosebook usage reset
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			svc, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close()

			v := lastVial(ctx, svc, vial)
			used, err := svc.Usage(ctx, v)
			if err != nil {
				return oo.HandleError(err)
			}
			if done, err := oo.Print(map[string]interface{}{"vial": v, "used": used}); done {
				return oo.HandleError(err)
			}
			pp := &printers.PrettyPrint{}
			pp.Usage(v, used)
			return nil
		},
	}

	options.AddVialArg(cmd, &vial)
	addUsageReset(cmd)
	topLevel.AddCommand(cmd)
}

func addUsageReset(topLevel *cobra.Command) {
	var vial string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Start counting a vial's doses from zero.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			svc, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close()

			v := lastVial(ctx, svc, vial)
			if err := svc.ResetUsage(ctx, v); err != nil {
				return oo.HandleError(err)
			}
			if done, err := oo.Print(map[string]interface{}{"vial": v, "used": 0}); done {
				return oo.HandleError(err)
			}
			pp := &printers.PrettyPrint{}
			pp.Usage(v, 0)
			return nil
		},
	}

	options.AddVialArg(cmd, &vial)
	topLevel.AddCommand(cmd)
}
