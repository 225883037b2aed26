// Package timeutil parses the history windows accepted on the command line.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/dosebook/pkg/errs"
)

const (
	// DefaultWindow covers one reconstituted vial's shelf life.
	DefaultWindow = "4w"

	day = 24 * time.Hour
)

var (
	windowPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	unitDays      = map[string]int{
		"d":      1,
		"day":    1,
		"days":   1,
		"w":      7,
		"wk":     7,
		"wks":    7,
		"week":   7,
		"weeks":  7,
		"mo":     30,
		"month":  30,
		"months": 30,
	}
)

// ParseWindow parses a window such as "3d", "2w" or "1mo1w" into whole days
// and returns it with a compact label. Empty input means DefaultWindow.
func ParseWindow(input string) (int, string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if trimmed == "" {
		trimmed = DefaultWindow
	}

	remaining := trimmed
	total := 0
	for len(remaining) > 0 {
		matches := windowPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 {
			return 0, "", errs.Errorf(errs.Validation, "window", "invalid segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.Atoi(matches[1])
		if err != nil {
			return 0, "", errs.E(errs.Validation, "window", fmt.Errorf("invalid value %q: %w", matches[1], err))
		}
		per, ok := unitDays[matches[2]]
		if !ok {
			return 0, "", errs.Errorf(errs.Validation, "window", "unsupported unit %q", matches[2])
		}
		total += value * per
		remaining = remaining[len(matches[0]):]
	}

	if total <= 0 {
		return 0, "", errs.Errorf(errs.Validation, "window", "must cover at least one day")
	}
	return total, FormatWindow(total), nil
}

// FormatWindow renders days as weeks and days, e.g. 9 -> "1w2d".
func FormatWindow(days int) string {
	if days <= 0 {
		return "0d"
	}
	var b strings.Builder
	if w := days / 7; w > 0 {
		fmt.Fprintf(&b, "%dw", w)
	}
	if d := days % 7; d > 0 {
		fmt.Fprintf(&b, "%dd", d)
	}
	return b.String()
}

// Range returns the window of days ending at now. The start is midnight of
// the first day so every dose logged on it is included.
func Range(now time.Time, days int) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Add(-time.Duration(days-1) * day)
	return start, now
}
