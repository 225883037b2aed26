package options

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/dosebook/pkg/errs"
)

// SelectOptions picks one line out of a listing.
type SelectOptions struct {
	Index int
}

func AddSelectArgs(cmd *cobra.Command, o *SelectOptions) {
	cmd.Flags().IntVarP(&o.Index, "index", "i", 0,
		"Select by the number shown in the listing instead of the full text.")
}

// Select returns the line chosen by --index, or the joined args.
func (o *SelectOptions) Select(lines []string, args []string) (string, error) {
	if o.Index != 0 {
		if o.Index < 1 || o.Index > len(lines) {
			return "", errs.Errorf(errs.Validation, "select", "index %d out of range 1-%d", o.Index, len(lines))
		}
		return lines[o.Index-1], nil
	}
	return strings.TrimSpace(strings.Join(args, " ")), nil
}
