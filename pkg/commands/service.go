package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/dosebook/pkg/app"
	"tableflip.dev/dosebook/pkg/confirm"
	"tableflip.dev/dosebook/pkg/store"
)

func newService() (*app.Service, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	var c confirm.Confirmer = confirm.Always(true)
	if !yes {
		c = confirm.ForTerminal(os.Stdin, os.Stdout)
	}
	svc, err := app.New(cfg, c)
	if err != nil {
		return nil, err
	}
	if cfg.Bell() && !oo.JSON {
		svc.Notify = func() { _, _ = fmt.Fprint(os.Stdout, "\a") }
	}
	return svc, nil
}

// finish reports a declined confirmation as a no-op and routes every other
// error through the output options.
func finish(err error) error {
	if app.IsDeclined(err) {
		if oo.JSON {
			_, _ = oo.Print(map[string]string{"status": "cancelled"})
			return nil
		}
		_, _ = fmt.Fprintln(color.Output, color.New(color.Faint).Sprint("Cancelled, nothing changed."))
		return nil
	}
	return oo.HandleError(err)
}

// lastVial falls back to the last used profile when vial is empty.
func lastVial(ctx context.Context, svc *app.Service, vial string) string {
	if vial != "" {
		return vial
	}
	if p, _, ok := svc.LastProfile(ctx); ok {
		return p.Name
	}
	return ""
}
