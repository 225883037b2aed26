package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/dosebook/pkg/app"
	"tableflip.dev/dosebook/pkg/profile"
)

// PrettyPrint renders dosebook results for a terminal.
type PrettyPrint struct {
	// ShowIndex numbers listed rows so one can be picked with --index.
	ShowIndex bool
}

const barWidth = 30

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(color.Output, "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(color.Output, title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(color.Output, title)
	_, _ = c.Fprintf(color.Output, " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(color.Output, " entry")
	default:
		_, _ = c.Fprintln(color.Output, " entries")
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(color.Output, " none\n\n")
}

// Warn prints a highlighted warning line.
func (pp *PrettyPrint) Warn(format string, args ...interface{}) {
	w := color.New(color.FgHiYellow, color.Bold)
	_, _ = w.Fprintf(color.Output, "! "+format+"\n", args...)
}

// Calculation prints a dose calculation with its syringe fill and warnings.
func (pp *PrettyPrint) Calculation(rep app.CalcReport) {
	bold := color.New(color.Bold)
	pp.Title(rep.Vial)

	tbl := uitable.New()
	tbl.Separator = "  "
	if rep.Compound != "" {
		tbl.AddRow("Compound", rep.Compound)
	}
	tbl.AddRow("Date", rep.Date)
	tbl.AddRow("Dose", fmt.Sprintf("%g mcg (%g mg)", rep.DoseMcg, rep.DoseMg))
	tbl.AddRow("Concentration", fmt.Sprintf("%g mcg/mL", rep.Result.Concentration))
	tbl.AddRow("Draw", bold.Sprintf("%.3f mL  /  %.1f units", rep.DrawVolumeML, rep.Units))
	tbl.AddRow("Syringe", fmt.Sprintf("%s mL  %s", rep.Syringe, fillBar(rep.Fill())))
	tbl.AddRow("Doses", fmt.Sprintf("%d of %d remaining (%d used)", rep.Remaining, rep.Result.MaxDoses, rep.Used))
	tbl.AddRow("BAC expires", rep.Expires.Format("01/02/2006"))
	_, _ = fmt.Fprintln(color.Output, tbl)

	if rep.Overflows() {
		pp.Warn("%.1f units does not fit a %s mL syringe", rep.Units, rep.Syringe)
	}
	if rep.LowVial {
		pp.Warn("only %d doses left in %s", rep.Remaining, rep.Vial)
	}
	pp.NewLine()
}

func fillBar(fill float64) string {
	n := int(fill*barWidth + 0.5)
	if n > barWidth {
		n = barWidth
	}
	filled := color.New(color.FgHiCyan).Sprint(strings.Repeat("█", n))
	return "[" + filled + strings.Repeat("·", barWidth-n) + "]"
}

// Logged confirms a dose written to the log.
func (pp *PrettyPrint) Logged(l app.Logged) {
	g := color.New(color.FgGreen)
	_, _ = g.Fprintf(color.Output, "Logged %s at %s\n", l.Entry.Vial, l.Entry.Timestamp)
	c := color.New(color.Faint)
	_, _ = c.Fprintf(color.Output, "  %s\n", l.Row)
	_, _ = fmt.Fprintf(color.Output, "  %d used, %d remaining\n", l.Used, l.Remaining)
}

// Rows lists raw store lines, numbered when ShowIndex is set.
func (pp *PrettyPrint) Rows(title string, rows []string) {
	pp.TitleWithCount(title, len(rows))
	if len(rows) == 0 {
		pp.none()
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for i, row := range rows {
		if pp.ShowIndex {
			tbl.AddRow(y.Sprintf("%d", i+1), row)
		} else {
			tbl.AddRow(row)
		}
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	pp.NewLine()
}

// Today prints the doses logged today for vial.
func (pp *PrettyPrint) Today(vial string, times []string) {
	pp.TitleWithCount("Today · "+vial, len(times))
	if len(times) == 0 {
		pp.none()
		return
	}
	for _, at := range times {
		_, _ = fmt.Fprintf(color.Output, "  %s\n", at)
	}
	pp.NewLine()
}

// Usage prints the doses used from vial.
func (pp *PrettyPrint) Usage(vial string, used int) {
	bold := color.New(color.Bold)
	_, _ = fmt.Fprintf(color.Output, "%s: %s doses used\n", vial, bold.Sprint(used))
}

// History prints doses grouped by day.
func (pp *PrettyPrint) History(h app.History, label string) {
	since := h.Since.Format("01/02/2006")
	until := h.Until.Format("01/02/2006")
	title := fmt.Sprintf("History · last %s (%s → %s)", label, since, until)
	if h.Vial != "" {
		title = h.Vial + " · " + title
	}
	pp.Title(title)

	if h.Total == 0 {
		pp.none()
		return
	}

	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, day := range h.Days {
		tbl.AddRow(color.New(color.Bold).Sprint(day.Date.Format("Mon 01/02")), "", faint.Sprintf("%g mg", day.TotalMg))
		for _, e := range day.Entries {
			tbl.AddRow("  "+e.Clock(), e.Vial, fmt.Sprintf("%g mcg  %.1f units", e.DoseMcg, e.Units))
		}
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	_, _ = faint.Fprintf(color.Output, "%d doses, %g mg total\n\n", h.Total, h.TotalMg)
}

// Profile prints one vial profile.
func (pp *PrettyPrint) Profile(p profile.Profile) {
	pp.Title(p.Name)
	tbl := uitable.New()
	tbl.Separator = "  "
	if p.Compound != "" {
		tbl.AddRow("Compound", p.Compound)
	}
	tbl.AddRow("Size", p.Size+" mg")
	tbl.AddRow("BAC", p.Bac+" mL")
	_, _ = fmt.Fprintln(color.Output, tbl)
	pp.NewLine()
}

// Settings prints name/value pairs in a two column table.
func (pp *PrettyPrint) Settings(title string, rows [][2]string) {
	pp.Title(title)
	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, r := range rows {
		tbl.AddRow(faint.Sprint(r[0]), r[1])
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	pp.NewLine()
}
