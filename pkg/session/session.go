// Package session holds the most recent dose calculation between a calculate
// action and the log action that consumes it.
package session

import (
	"tableflip.dev/dosebook/pkg/errs"
)

// Calculation is a computed dose waiting to be logged.
type Calculation struct {
	Vial         string  `json:"vial"`
	Compound     string  `json:"compound,omitempty"`
	DoseMcg      float64 `json:"dose_mcg"`
	DoseMg       float64 `json:"dose_mg"`
	Units        float64 `json:"units"`
	DrawVolumeML float64 `json:"draw_volume_ml"`
	Date         string  `json:"date"` // MM/DD/YYYY
	Weight       float64 `json:"weight"`
	Remaining    int     `json:"remaining"`
	MaxDoses     int     `json:"max_doses"`
}

// State is the session. Last is the pending calculation; Previous is the most
// recently logged one, kept so it can be repeated.
type State struct {
	Last     *Calculation `json:"last,omitempty"`
	Previous *Calculation `json:"previous,omitempty"`
}

// Set replaces the pending calculation.
func (s *State) Set(c Calculation) {
	s.Last = &c
}

// Pending reports whether a calculation is waiting to be logged.
func (s *State) Pending() bool {
	return s.Last != nil
}

// Require returns the pending calculation or a Precondition error.
func (s *State) Require() (Calculation, error) {
	if s.Last == nil {
		return Calculation{}, errs.Errorf(errs.Precondition, "log", "calculate a dose first")
	}
	return *s.Last, nil
}

// Consume moves the pending calculation to Previous.
func (s *State) Consume() {
	if s.Last == nil {
		return
	}
	s.Previous = s.Last
	s.Last = nil
}

// Repeatable returns the calculation a repeat should re-log: the pending one if
// any, else the previously logged one.
func (s *State) Repeatable() (Calculation, error) {
	switch {
	case s.Last != nil:
		return *s.Last, nil
	case s.Previous != nil:
		return *s.Previous, nil
	default:
		return Calculation{}, errs.Errorf(errs.Precondition, "repeat", "no dose has been calculated or logged yet")
	}
}

// Clear drops everything.
func (s *State) Clear() {
	s.Last = nil
	s.Previous = nil
}
