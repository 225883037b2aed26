// Package usage counts the doses taken from each vial.
package usage

import "sort"

// Tracker maps a vial name to the doses consumed from it. The zero value is
// not usable; call New.
type Tracker struct {
	counts map[string]int
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{counts: make(map[string]int)}
}

// Restore returns a Tracker seeded from a Snapshot. Negative counts are
// clamped to zero.
func Restore(snapshot map[string]int) *Tracker {
	t := New()
	for vial, n := range snapshot {
		t.Set(vial, n)
	}
	return t
}

// Known reports whether vial has a recorded count, including an explicit zero
// from Reset.
func (t *Tracker) Known(vial string) bool {
	_, ok := t.counts[vial]
	return ok
}

// Get returns the doses consumed from vial, 0 when unknown.
func (t *Tracker) Get(vial string) int {
	return t.counts[vial]
}

// Set records n doses for vial.
func (t *Tracker) Set(vial string, n int) {
	if n < 0 {
		n = 0
	}
	t.counts[vial] = n
}

func (t *Tracker) Increment(vial string) {
	t.counts[vial]++
}

// Decrement removes one dose, never going below zero.
func (t *Tracker) Decrement(vial string) {
	if n := t.counts[vial]; n > 0 {
		t.counts[vial] = n - 1
		return
	}
	t.counts[vial] = 0
}

// Reset sets vial back to zero doses.
func (t *Tracker) Reset(vial string) {
	t.counts[vial] = 0
}

// Vials returns the tracked vial names, sorted.
func (t *Tracker) Vials() []string {
	out := make([]string, 0, len(t.counts))
	for vial := range t.counts {
		out = append(out, vial)
	}
	sort.Strings(out)
	return out
}

// Snapshot copies the counts for persistence.
func (t *Tracker) Snapshot() map[string]int {
	out := make(map[string]int, len(t.counts))
	for vial, n := range t.counts {
		out[vial] = n
	}
	return out
}
