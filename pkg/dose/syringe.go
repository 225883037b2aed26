package dose

import (
	"strings"

	"tableflip.dev/dosebook/pkg/errs"
)

// Syringe is a syringe size in mL. Only the sizes in Syringes are valid.
type Syringe string

const (
	Syringe100 Syringe = "1.0"
	Syringe50  Syringe = "0.5"
	Syringe30  Syringe = "0.3"

	DefaultSyringe = Syringe100
)

// Syringes lists the accepted sizes.
func Syringes() []Syringe {
	return []Syringe{Syringe100, Syringe50, Syringe30}
}

// ParseSyringe accepts one of "1.0", "0.5" or "0.3".
func ParseSyringe(raw string) (Syringe, error) {
	s := Syringe(strings.TrimSpace(raw))
	for _, candidate := range Syringes() {
		if s == candidate {
			return s, nil
		}
	}
	return "", errs.Errorf(errs.Validation, "syringe", "size must be one of 1.0, 0.5 or 0.3, got %q", raw)
}

// Capacity is the number of unit markings on the syringe.
func (s Syringe) Capacity() float64 {
	switch s {
	case Syringe50:
		return 50
	case Syringe30:
		return 30
	default:
		return 100
	}
}

// Fill is the fraction of the barrel a draw of units occupies, capped at 1.
func (s Syringe) Fill(units float64) float64 {
	if units <= 0 {
		return 0
	}
	f := units / s.Capacity()
	if f > 1 {
		return 1
	}
	return f
}

// Overflows reports whether units exceed the syringe capacity.
func (s Syringe) Overflows(units float64) bool {
	return units > s.Capacity()
}

func (s Syringe) String() string {
	return string(s)
}
