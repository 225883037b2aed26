package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dosebook/pkg/app"
	"tableflip.dev/dosebook/pkg/dose"
	"tableflip.dev/dosebook/pkg/profile"
)

// CalcOptions
type CalcOptions struct {
	Vial     string
	Compound string
	Size     string
	Bac      string
	Dose     string
	Weight   string
	Date     string
	NoLast   bool
}

func AddCalcArgs(cmd *cobra.Command, o *CalcOptions) {
	cmd.Flags().StringVar(&o.Vial, "vial", "",
		"Vial name, for example \"Vial 1\".")
	cmd.Flags().StringVar(&o.Compound, "compound", "",
		"Compound in the vial.")
	cmd.Flags().StringVar(&o.Size, "size", "",
		"Vial size in mg.")
	cmd.Flags().StringVar(&o.Bac, "bac", "",
		"Bacteriostatic water added, in mL.")
	cmd.Flags().StringVar(&o.Dose, "dose", "",
		"Dose in mcg.")
	cmd.Flags().StringVar(&o.Weight, "weight", "0",
		"Body weight.")
	cmd.Flags().StringVar(&o.Date, "date", "",
		`Scheduled date, example: --date="10/19/2026". Defaults to today.`)
	cmd.Flags().BoolVar(&o.NoLast, "no-last", false,
		"Do not fill the vial, compound, size and bac from the last used profile.")
}

// Request builds the calculation request. Vial fields left empty are taken
// from last when it is set.
func (o *CalcOptions) Request(last *profile.Profile) app.CalcRequest {
	req := app.CalcRequest{
		Vial:     o.Vial,
		Compound: o.Compound,
		Input: dose.Input{
			SizeMg:  o.Size,
			BacML:   o.Bac,
			DoseMcg: o.Dose,
			Weight:  o.Weight,
		},
		Date: o.Date,
	}
	if last == nil || o.NoLast {
		return req
	}
	if req.Vial == "" {
		req.Vial = last.Name
	}
	if req.Compound == "" {
		req.Compound = last.Compound
	}
	if req.Input.SizeMg == "" {
		req.Input.SizeMg = last.Size
	}
	if req.Input.BacML == "" {
		req.Input.BacML = last.Bac
	}
	return req
}
