// Package profile stores named vial presets as pipe-delimited lines.
package profile

import (
	"strings"

	"tableflip.dev/dosebook/pkg/errs"
)

// Schema fixes the field layout of a profile store.
type Schema string

const (
	// SchemaV1 is name|size_mg|bac_ml.
	SchemaV1 Schema = "v1"
	// SchemaV2 is name|compound|size_mg|bac_ml; compound may be empty.
	SchemaV2 Schema = "v2"
)

const sep = "|"

// ParseSchema accepts "v1" or "v2".
func ParseSchema(raw string) (Schema, error) {
	switch s := Schema(strings.ToLower(strings.TrimSpace(raw))); s {
	case SchemaV1, SchemaV2:
		return s, nil
	case "":
		return SchemaV2, nil
	default:
		return "", errs.Errorf(errs.Validation, "profile", "unknown schema %q", raw)
	}
}

// Fields is the number of delimited fields a line has under s.
func (s Schema) Fields() int {
	if s == SchemaV1 {
		return 3
	}
	return 4
}

// Profile is a saved vial preset. Numbers are kept as typed so a loaded line
// re-serializes to exactly the same text.
type Profile struct {
	Name     string
	Compound string
	Size     string // mg
	Bac      string // mL
}

// Validate checks the fields required to save p.
func (p Profile) Validate() error {
	missing := make([]string, 0, 3)
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(p.Size) == "" {
		missing = append(missing, "size")
	}
	if strings.TrimSpace(p.Bac) == "" {
		missing = append(missing, "BAC volume")
	}
	if len(missing) > 0 {
		return errs.Errorf(errs.Validation, "profile: save", "please fill in all profile fields (missing %s)", strings.Join(missing, ", "))
	}
	for _, f := range []string{p.Name, p.Compound, p.Size, p.Bac} {
		if strings.ContainsAny(f, sep+"\r\n") {
			return errs.Errorf(errs.Validation, "profile: save", "field %q must not contain '|' or line breaks", f)
		}
	}
	return nil
}

// Line serializes p under s.
func (p Profile) Line(s Schema) string {
	fields := []string{
		strings.TrimSpace(p.Name),
		strings.TrimSpace(p.Size),
		strings.TrimSpace(p.Bac),
	}
	if s != SchemaV1 {
		fields = []string{
			strings.TrimSpace(p.Name),
			strings.TrimSpace(p.Compound),
			strings.TrimSpace(p.Size),
			strings.TrimSpace(p.Bac),
		}
	}
	return strings.Join(fields, sep)
}

// Parse reads line under s. A line with the wrong field count is a
// Validation error.
func Parse(line string, s Schema) (Profile, error) {
	parts := strings.Split(strings.TrimSpace(line), sep)
	if len(parts) != s.Fields() {
		return Profile{}, errs.Errorf(errs.Validation, "profile: load",
			"malformed profile %q: want %d fields for schema %s, got %d", line, s.Fields(), s, len(parts))
	}
	if s == SchemaV1 {
		return Profile{Name: parts[0], Size: parts[1], Bac: parts[2]}, nil
	}
	return Profile{Name: parts[0], Compound: parts[1], Size: parts[2], Bac: parts[3]}, nil
}
