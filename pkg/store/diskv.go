// Package store locates dosebook's data and keeps its small pointer records:
// the last used profile, the last syringe size, the pending calculation and
// the per-vial usage counts.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/dosebook/pkg/errs"
	"tableflip.dev/dosebook/pkg/session"
)

// State keeps one file per key directly inside the base path.
type State struct {
	d        *diskv.Diskv
	basePath string
	prefix   string
}

// Open returns the State for cfg, creating the base path if needed.
func Open(cfg Config) (*State, error) {
	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, errs.E(errs.StorageIO, "store: ensure base path", err)
	}
	return &State{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		basePath: basePath,
		prefix:   cfg.Prefix(),
	}, nil
}

// Keys, suffixed onto the configured prefix.
const (
	keyLastProfile = "LastProfile.txt"
	keyLastSyringe = "LastSyringe.txt"
	keySession     = "Session.json"
	keyUsage       = "Usage.json"
)

func (s *State) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return fmt.Sprintf("%s_%s", s.prefix, name)
}

// Path returns the file backing the named key.
func (s *State) Path(name string) string {
	return filepath.Join(s.basePath, s.key(name))
}

func (s *State) readString(name string) (string, bool, error) {
	key := s.key(name)
	if !s.d.Has(key) {
		return "", false, nil
	}
	val, err := s.d.Read(key)
	if err != nil {
		return "", false, errs.E(errs.StorageIO, "store: read "+key, err)
	}
	return strings.TrimSpace(string(val)), true, nil
}

func (s *State) writeString(name, val string) error {
	key := s.key(name)
	if err := s.d.Write(key, []byte(val)); err != nil {
		return errs.E(errs.StorageIO, "store: write "+key, err)
	}
	return nil
}

func (s *State) readJSON(name string, target interface{}) (bool, error) {
	raw, ok, err := s.readString(name)
	if err != nil || !ok || raw == "" {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return false, errs.E(errs.StorageIO, "store: decode "+s.key(name), err)
	}
	return true, nil
}

func (s *State) writeJSON(name string, val interface{}) error {
	data, err := json.Marshal(val)
	if err != nil {
		return errs.E(errs.StorageIO, "store: encode "+s.key(name), err)
	}
	return s.writeString(name, string(data))
}

// LastProfile returns the raw line of the last saved or loaded profile.
func (s *State) LastProfile() (string, bool, error) {
	return s.readString(keyLastProfile)
}

func (s *State) SetLastProfile(line string) error {
	return s.writeString(keyLastProfile, line)
}

// LastSyringe returns the stored syringe selector, unvalidated.
func (s *State) LastSyringe() (string, bool, error) {
	return s.readString(keyLastSyringe)
}

func (s *State) SetLastSyringe(val string) error {
	return s.writeString(keyLastSyringe, val)
}

// Session returns the saved session, empty when none was saved.
func (s *State) Session() (session.State, error) {
	var st session.State
	if _, err := s.readJSON(keySession, &st); err != nil {
		return session.State{}, err
	}
	return st, nil
}

func (s *State) SaveSession(st session.State) error {
	return s.writeJSON(keySession, st)
}

// Usage returns the saved per-vial counts.
func (s *State) Usage() (map[string]int, error) {
	counts := make(map[string]int)
	if _, err := s.readJSON(keyUsage, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (s *State) SaveUsage(counts map[string]int) error {
	return s.writeJSON(keyUsage, counts)
}
