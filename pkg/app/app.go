package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tableflip.dev/dosebook/pkg/confirm"
	"tableflip.dev/dosebook/pkg/dose"
	"tableflip.dev/dosebook/pkg/errs"
	"tableflip.dev/dosebook/pkg/logbook"
	"tableflip.dev/dosebook/pkg/profile"
	"tableflip.dev/dosebook/pkg/record"
	"tableflip.dev/dosebook/pkg/record/sqlite"
	"tableflip.dev/dosebook/pkg/session"
	"tableflip.dev/dosebook/pkg/store"
	"tableflip.dev/dosebook/pkg/usage"
)

// Service provides the dose calculation, logging and profile operations.
// It wraps the stores so the CLI and tests share the same logic.
type Service struct {
	Config       store.Config
	State        *store.State
	ProfileStore *profile.Store
	LogStore     *logbook.Store
	Confirm      confirm.Confirmer

	// Notify signals a successful log; nil disables it.
	Notify func()
	Now    func() time.Time

	backend record.Backend
}

// New opens the stores described by cfg.
func New(cfg store.Config, c confirm.Confirmer) (*Service, error) {
	schema, err := profile.ParseSchema(cfg.ProfileSchema())
	if err != nil {
		return nil, err
	}
	layout, err := logbook.ParseLayout(cfg.LogLayout())
	if err != nil {
		return nil, err
	}
	state, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}
	backend, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = confirm.Always(false)
	}

	svc := &Service{
		Config:       cfg,
		State:        state,
		ProfileStore: profile.NewStore(backend.Open(fileName(cfg, "Profiles.txt")), schema, state),
		LogStore:     logbook.NewStore(backend, layout, cfg.Prefix()),
		Confirm:      c,
		Now:          time.Now,
		backend:      backend,
	}
	// The log's notion of "today" follows the service clock.
	svc.LogStore.Now = svc.now
	return svc, nil
}

func openBackend(cfg store.Config) (record.Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend())) {
	case "", "text":
		return record.NewDir(cfg.BasePath()), nil
	case "sqlite":
		return sqlite.Open(filepath.Join(cfg.BasePath(), fileName(cfg, "dosebook.db")))
	default:
		return nil, errs.Errorf(errs.Validation, "app", "unknown storage backend %q", cfg.Backend())
	}
}

func fileName(cfg store.Config, name string) string {
	if cfg.Prefix() == "" {
		return name
	}
	return cfg.Prefix() + "_" + name
}

// Close releases the record backend.
func (s *Service) Close() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// tracker loads the saved usage counts. Vials without a saved count are seeded
// from the number of rows their log holds.
func (s *Service) tracker(ctx context.Context, vials ...string) (*usage.Tracker, error) {
	counts, err := s.State.Usage()
	if err != nil {
		return nil, err
	}
	t := usage.Restore(counts)
	for _, vial := range vials {
		if t.Known(vial) {
			continue
		}
		n, err := s.LogStore.Count(ctx, vial)
		if err != nil {
			return nil, err
		}
		t.Set(vial, n)
	}
	return t, nil
}

// Usage returns the doses consumed from vial.
func (s *Service) Usage(ctx context.Context, vial string) (int, error) {
	t, err := s.tracker(ctx, vial)
	if err != nil {
		return 0, err
	}
	return t.Get(vial), nil
}

// ResetUsage sets vial's consumed doses back to zero.
func (s *Service) ResetUsage(ctx context.Context, vial string) error {
	vial = strings.TrimSpace(vial)
	if vial == "" {
		return errs.Errorf(errs.Validation, "usage: reset", "vial name is required")
	}
	t, err := s.tracker(ctx)
	if err != nil {
		return err
	}
	t.Reset(vial)
	return s.State.SaveUsage(t.Snapshot())
}

// Syringe returns the remembered syringe size, or the default when none is
// remembered or the stored value is not an accepted size.
func (s *Service) Syringe() dose.Syringe {
	raw, ok, err := s.State.LastSyringe()
	if err != nil {
		fmt.Fprintf(os.Stderr, "app: last syringe: %s\n", err)
		return dose.DefaultSyringe
	}
	if !ok {
		return dose.DefaultSyringe
	}
	syr, err := dose.ParseSyringe(raw)
	if err != nil {
		return dose.DefaultSyringe
	}
	return syr
}

// SetSyringe remembers the syringe size.
func (s *Service) SetSyringe(raw string) (dose.Syringe, error) {
	syr, err := dose.ParseSyringe(raw)
	if err != nil {
		return "", err
	}
	if err := s.State.SetLastSyringe(syr.String()); err != nil {
		return "", err
	}
	return syr, nil
}

func (s *Service) confirm(title, details string) error {
	ok, err := s.Confirm.Confirm(title, details)
	if err != nil {
		return err
	}
	if !ok {
		return confirm.ErrDeclined
	}
	return nil
}

// IsDeclined reports whether err is a declined confirmation.
func IsDeclined(err error) bool {
	return errors.Is(err, confirm.ErrDeclined)
}

// PendingCalculation returns the calculation waiting to be logged, if any.
func (s *Service) PendingCalculation() (session.Calculation, bool, error) {
	st, err := s.State.Session()
	if err != nil {
		return session.Calculation{}, false, err
	}
	if !st.Pending() {
		return session.Calculation{}, false, nil
	}
	return *st.Last, true, nil
}
