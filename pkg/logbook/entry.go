// Package logbook records administered doses as CSV rows, one store per vial
// or one shared store, depending on the layout.
package logbook

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/dosebook/pkg/errs"
)

const (
	// DateLayout is the date half of a timestamp.
	DateLayout = "01/02/2006"
	// ClockLayout is the time-of-day half of a timestamp.
	ClockLayout = "03:04 PM"
	// TimestampLayout is the full row timestamp, e.g. "10/19/2026 08:15 AM".
	TimestampLayout = DateLayout + " " + ClockLayout
)

// Layout selects the row shape and how stores are split.
type Layout string

const (
	// PerVial keeps one store per sanitized vial name with rows of
	// timestamp,vial,dose_mcg,dose_mg,units,weight.
	PerVial Layout = "per-vial"
	// Global keeps one store with rows of
	// timestamp,compound,vial,dose_mcg,dose_mg,units,weight.
	Global Layout = "global"
)

// ParseLayout accepts "per-vial" or "global".
func ParseLayout(raw string) (Layout, error) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(raw))); l {
	case PerVial, Global:
		return l, nil
	case "":
		return PerVial, nil
	default:
		return "", errs.Errorf(errs.Validation, "logbook", "unknown log layout %q", raw)
	}
}

// Columns is the number of fields in a row.
func (l Layout) Columns() int {
	if l == Global {
		return 7
	}
	return 6
}

// Entry is one administered dose.
type Entry struct {
	Timestamp string
	Compound  string
	Vial      string
	DoseMcg   float64
	DoseMg    float64
	Units     float64
	Weight    float64
}

// Stamp joins a MM/DD/YYYY date with the time of day of at.
func Stamp(date string, at time.Time) string {
	return strings.TrimSpace(date) + " " + at.Format(ClockLayout)
}

// Date is the date part of the timestamp.
func (e Entry) Date() string {
	date, _ := splitStamp(e.Timestamp)
	return date
}

// Clock is the time-of-day part of the timestamp.
func (e Entry) Clock() string {
	_, clock := splitStamp(e.Timestamp)
	return clock
}

// Time parses the timestamp in the local zone.
func (e Entry) Time() (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, e.Timestamp, time.Local)
}

func splitStamp(ts string) (string, string) {
	ts = strings.TrimSpace(ts)
	if i := strings.IndexByte(ts, ' '); i >= 0 {
		return ts[:i], strings.TrimSpace(ts[i+1:])
	}
	return ts, ""
}

// Row encodes e under l. The result is the row's identity in the store.
func (e Entry) Row(l Layout) string {
	fields := []string{e.Timestamp}
	if l == Global {
		fields = append(fields, e.Compound)
	}
	fields = append(fields,
		e.Vial,
		formatNumber(e.DoseMcg),
		formatFloat(e.DoseMg),
		formatFloat(e.Units),
		formatFloat(e.Weight),
	)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(fields)
	w.Flush()
	return strings.TrimRight(buf.String(), "\r\n")
}

// ParseRow decodes a row written under l.
func ParseRow(row string, l Layout) (Entry, error) {
	r := csv.NewReader(strings.NewReader(row))
	r.FieldsPerRecord = -1
	fields, err := r.Read()
	if err != nil {
		return Entry{}, errs.Errorf(errs.Validation, "logbook: parse", "row %q: %v", row, err)
	}
	if len(fields) != l.Columns() {
		return Entry{}, errs.Errorf(errs.Validation, "logbook: parse",
			"row %q: want %d columns for %s layout, got %d", row, l.Columns(), l, len(fields))
	}

	e := Entry{Timestamp: strings.TrimSpace(fields[0])}
	rest := fields[1:]
	if l == Global {
		e.Compound = rest[0]
		rest = rest[1:]
	}
	e.Vial = rest[0]

	nums := []*float64{&e.DoseMcg, &e.DoseMg, &e.Units, &e.Weight}
	for i, target := range nums {
		v, err := strconv.ParseFloat(strings.TrimSpace(rest[i+1]), 64)
		if err != nil {
			return Entry{}, errs.Errorf(errs.Validation, "logbook: parse", "row %q: column %d: %v", row, i+2, err)
		}
		*target = v
	}
	return e, nil
}

// formatNumber prints whole numbers without a decimal point.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatFloat always prints a decimal point, so 10 renders as "10.0".
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
