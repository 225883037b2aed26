package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/dosebook/pkg/commands/options"
	"tableflip.dev/dosebook/pkg/printers"
)

func addEntry(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "List or delete log entries.",
		Example: `
dosebook entry list
dosebook entry delete --index 3
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addEntryList(cmd)
	addEntryDelete(cmd)

	topLevel.AddCommand(cmd)
}

func addEntryList(topLevel *cobra.Command) {
	var vial string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a vial's log rows, numbered.",
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
			rows, err := svc.Rows(ctx, v)
			if err != nil {
				return oo.HandleError(err)
			}
			if done, err := oo.Print(rows); done {
				return oo.HandleError(err)
			}
			pp := &printers.PrettyPrint{ShowIndex: true}
			pp.Rows(svc.LogStore.PathFor(v), rows)
			return nil
		},
	}

	options.AddVialArg(cmd, &vial)
	topLevel.AddCommand(cmd)
}

func addEntryDelete(topLevel *cobra.Command) {
	var vial string
	so := &options.SelectOptions{}

	cmd := &cobra.Command{
		Use:   "delete [row]",
		Short: "Delete a log row and give its dose back to the vial.",
		Example: `
dosebook entry delete --index 2
dosebook entry delete "10/19/2026 08:30 AM,Vial 1,250,0.25,10.0,180.0"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			svc, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close()

			v := lastVial(ctx, svc, vial)
			rows, err := svc.Rows(ctx, v)
			if err != nil {
				return oo.HandleError(err)
			}
			row, err := so.Select(rows, args)
			if err != nil {
				return oo.HandleError(err)
			}
			deleted, err := svc.DeleteEntry(ctx, v, row)
			if err != nil {
				return finish(err)
			}
			if done, err := oo.Print(deleted); done {
				return oo.HandleError(err)
			}
			used, err := svc.Usage(ctx, deleted.Vial)
			if err != nil {
				return oo.HandleError(err)
			}
			pp := &printers.PrettyPrint{}
			pp.Rows("Deleted", []string{row})
			pp.Usage(deleted.Vial, used)
			return nil
		},
	}

	options.AddVialArg(cmd, &vial)
	options.AddSelectArgs(cmd, so)
	topLevel.AddCommand(cmd)
}
