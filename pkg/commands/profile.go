package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/dosebook/pkg/commands/options"
	"tableflip.dev/dosebook/pkg/errs"
	"tableflip.dev/dosebook/pkg/printers"
	"tableflip.dev/dosebook/pkg/profile"
)

func addProfile(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage saved vial profiles.",
		Example: `
dosebook profile save --name "Vial 1" --compound BPC-157 --size 10 --bac 4
dosebook profile list
dosebook profile load --index 1
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addProfileList(cmd)
	addProfileSave(cmd)
	addProfileLoad(cmd)
	addProfileDelete(cmd)
	addProfileLast(cmd)

	topLevel.AddCommand(cmd)
}

func addProfileList(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved profiles, numbered.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close()

			lines, err := svc.Profiles(context.Background())
			if err != nil {
				return oo.HandleError(err)
			}
			if done, err := oo.Print(lines); done {
				return oo.HandleError(err)
			}
			pp := &printers.PrettyPrint{ShowIndex: true}
			pp.Rows("Profiles", lines)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addProfileSave(topLevel *cobra.Command) {
	p := profile.Profile{}

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a vial profile and make it the last used one.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close()

			line, err := svc.SaveProfile(context.Background(), p)
			if err != nil {
				return oo.HandleError(err)
			}
			if done, err := oo.Print(map[string]string{"saved": line}); done {
				return oo.HandleError(err)
			}
			pp := &printers.PrettyPrint{}
			pp.Rows("Saved", []string{line})
			return nil
		},
	}

	cmd.Flags().StringVar(&p.Name, "name", "", "Vial name.")
	cmd.Flags().StringVar(&p.Compound, "compound", "", "Compound in the vial.")
	cmd.Flags().StringVar(&p.Size, "size", "", "Vial size in mg.")
	cmd.Flags().StringVar(&p.Bac, "bac", "", "Bacteriostatic water added, in mL.")

	topLevel.AddCommand(cmd)
}

func addProfileLoad(topLevel *cobra.Command) {
	so := &options.SelectOptions{}

	cmd := &cobra.Command{
		Use:   "load [line]",
		Short: "Make a saved profile the last used one.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			svc, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close()

			lines, err := svc.Profiles(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			line, err := so.Select(lines, args)
			if err != nil {
				return oo.HandleError(err)
			}
			p, err := svc.LoadProfile(ctx, line)
			if err != nil {
				return oo.HandleError(err)
			}
			if done, err := oo.Print(p); done {
				return oo.HandleError(err)
			}
			pp := &printers.PrettyPrint{}
			pp.Profile(p)
			return nil
		},
	}

	options.AddSelectArgs(cmd, so)
	topLevel.AddCommand(cmd)
}

func addProfileDelete(topLevel *cobra.Command) {
	so := &options.SelectOptions{}

	cmd := &cobra.Command{
		Use:   "delete [line]",
		Short: "Delete a saved profile.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			svc, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close()

			lines, err := svc.Profiles(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			line, err := so.Select(lines, args)
			if err != nil {
				return oo.HandleError(err)
			}
			if err := svc.DeleteProfile(ctx, line); err != nil {
				return finish(err)
			}
			if done, err := oo.Print(map[string]string{"deleted": line}); done {
				return oo.HandleError(err)
			}
			pp := &printers.PrettyPrint{}
			pp.Rows("Deleted", []string{line})
			return nil
		},
	}

	options.AddSelectArgs(cmd, so)
	topLevel.AddCommand(cmd)
}

func addProfileLast(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "last",
		Short: "Show the last saved or loaded profile.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close()

			p, _, ok := svc.LastProfile(context.Background())
			if !ok {
				return oo.HandleError(errs.Errorf(errs.NotFound, "profile: last", "no profile saved or loaded yet"))
			}
			if done, err := oo.Print(p); done {
				return oo.HandleError(err)
			}
			pp := &printers.PrettyPrint{}
			pp.Profile(p)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
