package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dosebook/pkg/commands/options"
)

var (
	oo  = &options.OutputOptions{}
	yes bool
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "dosebook",
		Short: options.Wrap80("Reconstituted vial dose calculator and dose log."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddOutputArg(cmd, oo)
	cmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false,
		"Answer yes to every confirmation.")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addCalc(topLevel)
	addLog(topLevel)
	addRepeat(topLevel)
	addToday(topLevel)
	addHistory(topLevel)
	addEntry(topLevel)
	addUsage(topLevel)
	addProfile(topLevel)
	addSyringe(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
}
