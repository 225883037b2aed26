package logbook

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"tableflip.dev/dosebook/pkg/errs"
	"tableflip.dev/dosebook/pkg/record"
)

// SanitizeName maps a vial name to a store identifier: spaces become
// underscores, then everything but letters, digits, '_' and '-' is dropped.
// Distinct names can collide ("Test Vial #1" and "Test_Vial_#1" share a store).
func SanitizeName(vial string) string {
	vial = strings.ReplaceAll(vial, " ", "_")
	var b strings.Builder
	for _, r := range vial {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Store reads and writes dose rows.
type Store struct {
	backend record.Backend
	layout  Layout
	prefix  string

	// Now is the clock used for "today"; tests replace it.
	Now func() time.Time
}

// NewStore returns a Store writing rows under layout to backend.
func NewStore(backend record.Backend, layout Layout, prefix string) *Store {
	return &Store{backend: backend, layout: layout, prefix: prefix, Now: time.Now}
}

// Layout returns the configured row layout.
func (s *Store) Layout() Layout {
	return s.layout
}

// PathFor names the store holding vial's history.
func (s *Store) PathFor(vial string) string {
	if s.layout == Global {
		return s.withPrefix("Log.csv")
	}
	return s.withPrefix(fmt.Sprintf("%s_Log.csv", SanitizeName(strings.TrimSpace(vial))))
}

func (s *Store) withPrefix(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "_" + name
}

func (s *Store) open(vial string) record.Lines {
	return s.backend.Open(s.PathFor(vial))
}

// List returns vial's rows in file order. Under the global layout only rows
// naming vial are returned, or every row when vial is empty.
func (s *Store) List(ctx context.Context, vial string) ([]string, error) {
	rows, err := s.open(vial).ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if s.layout != Global || vial == "" {
		return rows, nil
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if e, err := ParseRow(row, s.layout); err == nil && e.Vial == vial {
			out = append(out, row)
		}
	}
	return out, nil
}

// Entries parses vial's rows, skipping malformed ones.
func (s *Store) Entries(ctx context.Context, vial string) ([]Entry, error) {
	rows, err := s.List(ctx, vial)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(rows))
	for _, row := range rows {
		e, err := ParseRow(row, s.layout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", s.PathFor(vial), err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Count returns how many rows name vial exactly.
func (s *Store) Count(ctx context.Context, vial string) (int, error) {
	entries, err := s.Entries(ctx, vial)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.Vial == vial {
			n++
		}
	}
	return n, nil
}

// DosesToday returns the number of vial's rows dated today and their times
// of day, in file order.
func (s *Store) DosesToday(ctx context.Context, vial string) (int, []string, error) {
	rows, err := s.List(ctx, vial)
	if err != nil {
		return 0, nil, err
	}
	today := s.Now().Format(DateLayout)
	times := make([]string, 0)
	for _, row := range rows {
		date, clock := splitStamp(firstField(row))
		if date != today {
			continue
		}
		times = append(times, clock)
	}
	return len(times), times, nil
}

func firstField(row string) string {
	if i := strings.IndexByte(row, ','); i >= 0 {
		return row[:i]
	}
	return row
}

// Append writes e to its vial's store and returns the row.
func (s *Store) Append(ctx context.Context, e Entry) (string, error) {
	if strings.TrimSpace(e.Vial) == "" {
		return "", errs.Errorf(errs.Validation, "logbook: append", "vial name is required")
	}
	row := e.Row(s.layout)
	if err := s.open(e.Vial).Append(ctx, row); err != nil {
		return "", err
	}
	return row, nil
}

// Delete removes the first row in vial's store equal to row and returns the
// entry it held. When the row cannot be parsed the returned entry only names
// vial.
func (s *Store) Delete(ctx context.Context, vial, row string) (Entry, error) {
	row = strings.TrimSpace(row)
	if row == "" {
		return Entry{}, errs.Errorf(errs.Precondition, "logbook: delete", "no log entry selected")
	}
	lines := s.open(vial)
	ok, err := lines.Exists(ctx)
	if err != nil {
		return Entry{}, err
	}
	if !ok {
		return Entry{}, errs.Errorf(errs.NotFound, "logbook: delete", "no log file for %s", vial)
	}

	removed := false
	n, err := lines.Rewrite(ctx, func(line string) bool {
		if !removed && line == row {
			removed = true
			return false
		}
		return true
	})
	if err != nil {
		return Entry{}, err
	}
	if n == 0 {
		return Entry{}, errs.Errorf(errs.NotFound, "logbook: delete", "entry %q not in %s", row, lines.Name())
	}

	e, err := ParseRow(row, s.layout)
	if err != nil {
		return Entry{Vial: vial}, nil
	}
	return e, nil
}
