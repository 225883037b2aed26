package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"tableflip.dev/dosebook/pkg/dose"
	"tableflip.dev/dosebook/pkg/errs"
	"tableflip.dev/dosebook/pkg/logbook"
	"tableflip.dev/dosebook/pkg/session"
)

// Logged describes a dose written to the log.
type Logged struct {
	Entry     logbook.Entry
	Row       string
	Used      int
	Remaining int
}

// Log writes the pending calculation to its vial's log. When doses were
// already logged today the user must confirm first; declining leaves the
// pending calculation in place.
func (s *Service) Log(ctx context.Context) (Logged, error) {
	st, err := s.State.Session()
	if err != nil {
		return Logged{}, err
	}
	calc, err := st.Require()
	if err != nil {
		return Logged{}, err
	}
	return s.logCalculation(ctx, st, calc)
}

// Repeat logs the pending or most recently logged calculation again, dated
// today.
func (s *Service) Repeat(ctx context.Context) (Logged, error) {
	st, err := s.State.Session()
	if err != nil {
		return Logged{}, err
	}
	calc, err := st.Repeatable()
	if err != nil {
		return Logged{}, err
	}
	calc.Date = s.now().Format(logbook.DateLayout)
	return s.logCalculation(ctx, st, calc)
}

func (s *Service) logCalculation(ctx context.Context, st session.State, calc session.Calculation) (Logged, error) {
	count, times, err := s.LogStore.DosesToday(ctx, calc.Vial)
	if err != nil {
		return Logged{}, err
	}
	if count >= 1 {
		plural := ""
		if count > 1 {
			plural = "s"
		}
		details := fmt.Sprintf("You've already logged %d dose%s today.\nPrevious times: %s",
			count, plural, strings.Join(times, ", "))
		if err := s.confirm("Log another dose", details); err != nil {
			return Logged{}, err
		}
	}

	// Seed before appending so the new row is not counted twice.
	t, err := s.tracker(ctx, calc.Vial)
	if err != nil {
		return Logged{}, err
	}

	// The calculation is consumed before its row is written; the failure
	// paths below put it back.
	before := st
	st.Set(calc)
	st.Consume()
	if err := s.State.SaveSession(st); err != nil {
		return Logged{}, err
	}

	e := logbook.Entry{
		Timestamp: logbook.Stamp(calc.Date, s.now()),
		Compound:  calc.Compound,
		Vial:      calc.Vial,
		DoseMcg:   calc.DoseMcg,
		DoseMg:    calc.DoseMg,
		Units:     calc.Units,
		Weight:    calc.Weight,
	}
	row, err := s.LogStore.Append(ctx, e)
	if err != nil {
		return Logged{}, s.restoreSession(before, err)
	}

	t.Increment(calc.Vial)
	if err := s.State.SaveUsage(t.Snapshot()); err != nil {
		if _, derr := s.LogStore.Delete(ctx, calc.Vial, row); derr != nil {
			fmt.Fprintf(os.Stderr, "app: log: remove %q after failed usage update: %s\n", row, derr)
		}
		return Logged{}, s.restoreSession(before, err)
	}
	if s.Notify != nil {
		s.Notify()
	}

	used := t.Get(calc.Vial)
	return Logged{Entry: e, Row: row, Used: used, Remaining: dose.Remaining(calc.MaxDoses, used)}, nil
}

// restoreSession puts back the pending calculation after a failed log and
// returns cause.
func (s *Service) restoreSession(st session.State, cause error) error {
	if err := s.State.SaveSession(st); err != nil {
		fmt.Fprintf(os.Stderr, "app: log: restore pending calculation: %s\n", err)
	}
	return cause
}

// DosesToday returns how many doses vial has logged today and at what times.
func (s *Service) DosesToday(ctx context.Context, vial string) (int, []string, error) {
	return s.LogStore.DosesToday(ctx, strings.TrimSpace(vial))
}

// Rows lists vial's log rows in file order.
func (s *Service) Rows(ctx context.Context, vial string) ([]string, error) {
	return s.LogStore.List(ctx, strings.TrimSpace(vial))
}

// DeleteEntry removes row from vial's log after confirmation and gives back
// the dose it recorded to the vial named in the row.
func (s *Service) DeleteEntry(ctx context.Context, vial, row string) (logbook.Entry, error) {
	vial = strings.TrimSpace(vial)
	row = strings.TrimSpace(row)
	if row == "" {
		return logbook.Entry{}, errs.Errorf(errs.Precondition, "log: delete", "please select a log entry to delete")
	}

	target := vial
	if e, err := logbook.ParseRow(row, s.LogStore.Layout()); err == nil {
		target = e.Vial
	}
	if vial == "" {
		vial = target
	}
	if target == "" {
		return logbook.Entry{}, errs.Errorf(errs.Validation, "log: delete", "vial name is required")
	}

	rows, err := s.LogStore.List(ctx, vial)
	if err != nil {
		return logbook.Entry{}, err
	}
	if !contains(rows, row) {
		return logbook.Entry{}, errs.Errorf(errs.NotFound, "log: delete", "entry %q not in %s", row, s.LogStore.PathFor(vial))
	}

	if err := s.confirm("Delete this log entry", row); err != nil {
		return logbook.Entry{}, err
	}

	// Load counts before the row disappears, or seeding would miss it.
	t, err := s.tracker(ctx, target)
	if err != nil {
		return logbook.Entry{}, err
	}
	deleted, err := s.LogStore.Delete(ctx, vial, row)
	if err != nil {
		return logbook.Entry{}, err
	}
	t.Decrement(target)
	if err := s.State.SaveUsage(t.Snapshot()); err != nil {
		return logbook.Entry{}, err
	}
	return deleted, nil
}

func contains(lines []string, want string) bool {
	for _, l := range lines {
		if l == want {
			return true
		}
	}
	return false
}
