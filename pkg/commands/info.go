package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/dosebook/pkg/printers"
	"tableflip.dev/dosebook/pkg/store"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where data is stored.",
		Example: `
dosebook info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close()

			if done, err := oo.Print(svc.Config); done {
				return oo.HandleError(err)
			}

			if override := os.Getenv("DOSEBOOK_CONFIG_PATH"); override != "" {
				fmt.Println("DOSEBOOK_CONFIG_PATH found on env, using ", override)
			} else {
				fmt.Println("DOSEBOOK_CONFIG_PATH env var not set")
			}

			cfg := svc.Config
			configFile := "none (defaults)"
			if fc, ok := cfg.(*store.FileConfig); ok && fc.ConfigFileInUse != "" {
				configFile = fc.ConfigFileInUse
			}

			pp := &printers.PrettyPrint{}
			pp.Settings("Config", [][2]string{
				{"file", configFile},
				{"path", cfg.BasePath()},
				{"prefix", cfg.Prefix()},
				{"profile.schema", cfg.ProfileSchema()},
				{"log.layout", cfg.LogLayout()},
				{"storage.backend", cfg.Backend()},
				{"warn.remaining", strconv.Itoa(cfg.WarnRemaining())},
				{"bac.expiry_days", strconv.Itoa(cfg.BacExpiryDays())},
				{"notify.bell", strconv.FormatBool(cfg.Bell())},
			})

			rows := [][2]string{
				{"profiles", svc.ProfileStore.Name()},
				{"syringe", svc.Syringe().String() + " mL"},
			}
			if p, _, ok := svc.LastProfile(context.Background()); ok {
				rows = append(rows, [2]string{"last profile", p.Name})
				rows = append(rows, [2]string{"log", svc.LogStore.PathFor(p.Name)})
			}
			pp.Settings("Stores", rows)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
