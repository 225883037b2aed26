package profile

import (
	"context"
	"fmt"
	"os"
	"strings"

	"tableflip.dev/dosebook/pkg/errs"
	"tableflip.dev/dosebook/pkg/record"
)

// Pointer remembers the last used profile line.
type Pointer interface {
	LastProfile() (string, bool, error)
	SetLastProfile(line string) error
}

// Store is the profile list plus its last-used pointer.
type Store struct {
	lines  record.Lines
	schema Schema
	last   Pointer
}

// NewStore returns a Store over lines. last may be nil.
func NewStore(lines record.Lines, schema Schema, last Pointer) *Store {
	return &Store{lines: lines, schema: schema, last: last}
}

// Name identifies the backing store.
func (s *Store) Name() string {
	return s.lines.Name()
}

// Schema returns the store's field layout.
func (s *Store) Schema() Schema {
	return s.schema
}

// List returns the stored lines in the order they were saved.
func (s *Store) List(ctx context.Context) ([]string, error) {
	return s.lines.ReadAll(ctx)
}

// Save appends p and makes it the last used profile. It returns the stored
// line.
func (s *Store) Save(ctx context.Context, p Profile) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	line := p.Line(s.schema)
	if err := s.lines.Append(ctx, line); err != nil {
		return "", err
	}
	if err := s.setLast(line); err != nil {
		return "", err
	}
	return line, nil
}

// Load parses a stored line and makes it the last used profile.
func (s *Store) Load(_ context.Context, line string) (Profile, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Profile{}, errs.Errorf(errs.Precondition, "profile: load", "no profile selected")
	}
	p, err := Parse(line, s.schema)
	if err != nil {
		return Profile{}, err
	}
	if err := s.setLast(line); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Delete removes every line equal to line. Matching is exact after trimming,
// so a line that differs only in inner spacing does not match.
func (s *Store) Delete(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return errs.Errorf(errs.Precondition, "profile: delete", "no profile selected")
	}
	n, err := s.lines.Rewrite(ctx, func(l string) bool { return l != line })
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.Errorf(errs.NotFound, "profile: delete", "profile %q not in store", line)
	}
	return nil
}

// LastUsed returns the last used profile when the pointer exists and parses
// under the store's schema.
func (s *Store) LastUsed(_ context.Context) (Profile, string, bool) {
	if s.last == nil {
		return Profile{}, "", false
	}
	line, ok, err := s.last.LastProfile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "profile: last used: %s\n", err)
		return Profile{}, "", false
	}
	if !ok || !strings.Contains(line, sep) {
		return Profile{}, "", false
	}
	p, err := Parse(line, s.schema)
	if err != nil {
		return Profile{}, "", false
	}
	return p, line, true
}

func (s *Store) setLast(line string) error {
	if s.last == nil {
		return nil
	}
	return s.last.SetLastProfile(line)
}
