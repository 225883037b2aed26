// Package confirm asks the user to approve destructive or unusual actions.
package confirm

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"

	"tableflip.dev/dosebook/pkg/errs"
)

// ErrDeclined is returned when the user answers no. It is not a failure.
var ErrDeclined = errors.New("cancelled")

// Confirmer is a yes/no decision point. details is shown before the question.
type Confirmer interface {
	Confirm(title, details string) (bool, error)
}

// Always answers every question the same way, for --yes and tests.
type Always bool

func (a Always) Confirm(_, _ string) (bool, error) {
	return bool(a), nil
}

// Terminal prompts on an interactive terminal.
type Terminal struct {
	In  io.ReadCloser
	Out io.WriteCloser
}

// ForTerminal returns a Terminal prompter when in is a TTY, and otherwise a
// Confirmer that refuses to decide.
func ForTerminal(in, out *os.File) Confirmer {
	if !isatty.IsTerminal(in.Fd()) && !isatty.IsCygwinTerminal(in.Fd()) {
		return noTTY{}
	}
	return &Terminal{In: in, Out: out}
}

func (t *Terminal) Confirm(title, details string) (bool, error) {
	if details != "" {
		_, _ = fmt.Fprintf(t.Out, "%s\n%s\n\n", title, details)
	}
	prompt := promptui.Prompt{
		Label:     title,
		IsConfirm: true,
		Stdin:     t.In,
		Stdout:    t.Out,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type noTTY struct{}

func (noTTY) Confirm(title, _ string) (bool, error) {
	return false, errs.Errorf(errs.Precondition, "confirm", "%s: not a terminal, rerun with --yes to proceed", title)
}
