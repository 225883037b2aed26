package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/dosebook/pkg/commands/options"
	"tableflip.dev/dosebook/pkg/printers"
	"tableflip.dev/dosebook/pkg/profile"
)

func addCalc(topLevel *cobra.Command) {
	co := &options.CalcOptions{}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate the draw volume for a dose.",
		Example: `
dosebook calc --vial "Vial 1" --size 10 --bac 4 --dose 250 --weight 180
dosebook calc --dose 300
dosebook calc --dose 250 --date 10/21/2026
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

			var last *profile.Profile
			if p, _, ok := svc.LastProfile(ctx); ok {
				last = &p
			}
			rep, err := svc.Calculate(ctx, co.Request(last))
			if err != nil {
				return finish(err)
			}
			if done, err := oo.Print(rep); done {
				return oo.HandleError(err)
			}
			pp := &printers.PrettyPrint{}
			pp.Calculation(rep)
			return nil
		},
	}

	options.AddCalcArgs(cmd, co)
	topLevel.AddCommand(cmd)
}

func addLog(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log the last calculated dose.",
		Example: `
dosebook calc --dose 250
dosebook log
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close()

			logged, err := svc.Log(context.Background())
			if err != nil {
				return finish(err)
			}
			if done, err := oo.Print(logged); done {
				return oo.HandleError(err)
			}
			pp := &printers.PrettyPrint{}
			pp.Logged(logged)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addRepeat(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "repeat",
		Short: "Log the previous dose again, dated today.",
		Example: `
dosebook repeat
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close()

			logged, err := svc.Repeat(context.Background())
			if err != nil {
				return finish(err)
			}
			if done, err := oo.Print(logged); done {
				return oo.HandleError(err)
			}
			pp := &printers.PrettyPrint{}
			pp.Logged(logged)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
