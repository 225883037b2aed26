package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/dosebook/pkg/commands/options"
	"tableflip.dev/dosebook/pkg/errs"
	"tableflip.dev/dosebook/pkg/printers"
	"tableflip.dev/dosebook/pkg/timeutil"
)

func addToday(topLevel *cobra.Command) {
	var vial string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the doses logged today.",
		Example: `
dosebook today
dosebook today --vial "Vial 2"
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
			if v == "" {
				return oo.HandleError(errs.Errorf(errs.Precondition, "today", "no vial given and no profile loaded"))
			}
			n, times, err := svc.DosesToday(ctx, v)
			if err != nil {
				return oo.HandleError(err)
			}
			if done, err := oo.Print(map[string]interface{}{"vial": v, "count": n, "times": times}); done {
				return oo.HandleError(err)
			}
			pp := &printers.PrettyPrint{}
			pp.Today(v, times)
			return nil
		},
	}

	options.AddVialArg(cmd, &vial)
	topLevel.AddCommand(cmd)
}

func addHistory(topLevel *cobra.Command) {
	ho := &options.HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Display logged doses grouped by day.",
		Long: `History lists the doses logged within the specified time window.

Examples:
  dosebook history
  dosebook history --last 3d
  dosebook history --vial "Vial 2" --last 1w2d`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			days, label, err := timeutil.ParseWindow(ho.Last)
			if err != nil {
				return oo.HandleError(err)
			}
			ctx := context.Background()
			svc, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close()

			since, until := timeutil.Range(time.Now(), days)
			result, err := svc.History(ctx, lastVial(ctx, svc, ho.Vial), since, until)
			if err != nil {
				return oo.HandleError(err)
			}
			if done, err := oo.Print(result); done {
				return oo.HandleError(err)
			}
			pp := &printers.PrettyPrint{}
			pp.History(result, label)
			return nil
		},
	}

	options.AddHistoryArgs(cmd, ho)
	topLevel.AddCommand(cmd)
}
