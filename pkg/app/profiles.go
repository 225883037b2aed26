package app

import (
	"context"
	"strings"

	"tableflip.dev/dosebook/pkg/errs"
	"tableflip.dev/dosebook/pkg/profile"
)

// Profiles lists the saved profile lines.
func (s *Service) Profiles(ctx context.Context) ([]string, error) {
	return s.ProfileStore.List(ctx)
}

// SaveProfile stores p and makes it the last used profile.
func (s *Service) SaveProfile(ctx context.Context, p profile.Profile) (string, error) {
	return s.ProfileStore.Save(ctx, p)
}

// LoadProfile parses a saved line and makes it the last used profile.
func (s *Service) LoadProfile(ctx context.Context, line string) (profile.Profile, error) {
	return s.ProfileStore.Load(ctx, line)
}

// DeleteProfile removes line after confirmation.
func (s *Service) DeleteProfile(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return errs.Errorf(errs.Precondition, "profile: delete", "please select a profile to delete")
	}
	if err := s.confirm("Delete profile", line); err != nil {
		return err
	}
	return s.ProfileStore.Delete(ctx, line)
}

// LastProfile returns the last saved or loaded profile, if it is still
// readable.
func (s *Service) LastProfile(ctx context.Context) (profile.Profile, string, bool) {
	return s.ProfileStore.LastUsed(ctx)
}
