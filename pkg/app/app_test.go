package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tableflip.dev/dosebook/pkg/dose"
	"tableflip.dev/dosebook/pkg/errs"
	"tableflip.dev/dosebook/pkg/logbook"
	"tableflip.dev/dosebook/pkg/profile"
	"tableflip.dev/dosebook/pkg/record"
	"tableflip.dev/dosebook/pkg/store"
)

var testNow = time.Date(2026, time.October, 19, 8, 30, 0, 0, time.Local)

type scriptedConfirm struct {
	answers []bool
	asked   []string
}

func (c *scriptedConfirm) Confirm(title, details string) (bool, error) {
	c.asked = append(c.asked, title+": "+details)
	if len(c.answers) == 0 {
		return false, nil
	}
	a := c.answers[0]
	c.answers = c.answers[1:]
	return a, nil
}

func newTestService(t *testing.T, cfg *store.FileConfig, c *scriptedConfirm) *Service {
	t.Helper()
	svc, err := New(cfg, c)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	svc.Now = func() time.Time { return testNow }
	return svc
}

func referenceRequest(date string) CalcRequest {
	return CalcRequest{
		Vial:     "Vial 1",
		Compound: "BPC-157",
		Input:    dose.Input{SizeMg: "10", BacML: "4", DoseMcg: "250", Weight: "180"},
		Date:     date,
	}
}

func TestCalculateReferenceVial(t *testing.T) {
	svc := newTestService(t, store.DefaultConfig(t.TempDir()), &scriptedConfirm{})

	rep, err := svc.Calculate(context.Background(), referenceRequest(""))
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if rep.DrawVolumeML != 0.1 || rep.Units != 10.0 {
		t.Fatalf("unexpected draw %v mL / %v units", rep.DrawVolumeML, rep.Units)
	}
	if rep.Result.MaxDoses != 40 || rep.Remaining != 40 {
		t.Fatalf("expected 40 of 40 doses, got %d of %d", rep.Remaining, rep.Result.MaxDoses)
	}
	if rep.Date != "10/19/2026" {
		t.Fatalf("expected today's date, got %q", rep.Date)
	}
	if rep.Syringe != dose.Syringe100 || rep.Fill() != 0.1 || rep.Overflows() {
		t.Fatalf("unexpected syringe state %v %v", rep.Syringe, rep.Fill())
	}
	if !rep.Expires.Equal(testNow.AddDate(0, 0, 28)) {
		t.Fatalf("unexpected expiry %v", rep.Expires)
	}
	if rep.LowVial {
		t.Fatalf("40 doses should not warn")
	}

	pending, ok, err := svc.PendingCalculation()
	if err != nil || !ok || pending.Vial != "Vial 1" {
		t.Fatalf("expected pending calculation, got %+v %v %v", pending, ok, err)
	}
}

func TestCalculateInvalidInputWritesNothing(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(t, store.DefaultConfig(dir), &scriptedConfirm{})
	ctx := context.Background()

	bad := []CalcRequest{
		{Vial: "Vial 1", Input: dose.Input{SizeMg: "ten", BacML: "4", DoseMcg: "250", Weight: "180"}},
		{Vial: "Vial 1", Input: dose.Input{SizeMg: "10", BacML: "0", DoseMcg: "250", Weight: "180"}},
		{Vial: "Vial 1", Input: dose.Input{SizeMg: "10", BacML: "4", DoseMcg: "", Weight: "180"}},
		{Vial: "", Input: dose.Input{SizeMg: "10", BacML: "4", DoseMcg: "250", Weight: "180"}},
		{Vial: "Vial 1", Input: dose.Input{SizeMg: "10", BacML: "4", DoseMcg: "250", Weight: "180"}, Date: "2026-10-19"},
	}
	for _, req := range bad {
		if _, err := svc.Calculate(ctx, req); !errors.Is(err, errs.ErrValidation) {
			t.Fatalf("%+v: expected validation error, got %v", req, err)
		}
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files written, found %d", len(files))
	}
	if _, ok, _ := svc.PendingCalculation(); ok {
		t.Fatalf("no calculation should be pending")
	}
}

func TestLogRequiresCalculation(t *testing.T) {
	svc := newTestService(t, store.DefaultConfig(t.TempDir()), &scriptedConfirm{})
	if _, err := svc.Log(context.Background()); !errors.Is(err, errs.ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestLogThenDuplicateToday(t *testing.T) {
	c := &scriptedConfirm{answers: []bool{false, true}}
	svc := newTestService(t, store.DefaultConfig(t.TempDir()), c)
	notified := 0
	svc.Notify = func() { notified++ }
	ctx := context.Background()

	if _, err := svc.Calculate(ctx, referenceRequest("")); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	logged, err := svc.Log(ctx)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if logged.Row != "10/19/2026 08:30 AM,Vial 1,250,0.25,10.0,180.0" {
		t.Fatalf("unexpected row %q", logged.Row)
	}
	if logged.Used != 1 || logged.Remaining != 39 {
		t.Fatalf("expected 1 used / 39 remaining, got %d / %d", logged.Used, logged.Remaining)
	}
	if len(c.asked) != 0 {
		t.Fatalf("first dose of the day must not ask, asked %v", c.asked)
	}
	if notified != 1 {
		t.Fatalf("expected one notification, got %d", notified)
	}

	n, times, err := svc.DosesToday(ctx, "Vial 1")
	if err != nil {
		t.Fatalf("doses today: %v", err)
	}
	if n != 1 || len(times) != 1 || times[0] == "" {
		t.Fatalf("expected one dose today with a time, got %d %v", n, times)
	}

	// Logging consumed the calculation.
	if _, err := svc.Log(ctx); !errors.Is(err, errs.ErrPrecondition) {
		t.Fatalf("expected a fresh calculation to be required, got %v", err)
	}

	if _, err := svc.Calculate(ctx, referenceRequest("")); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if _, err := svc.Log(ctx); !IsDeclined(err) {
		t.Fatalf("expected declined, got %v", err)
	}
	if len(c.asked) != 1 || !strings.Contains(c.asked[0], "08:30 AM") {
		t.Fatalf("expected prompt listing previous times, got %v", c.asked)
	}
	if n, _, _ := svc.DosesToday(ctx, "Vial 1"); n != 1 {
		t.Fatalf("declined log must not persist, got %d doses", n)
	}
	if used, _ := svc.Usage(ctx, "Vial 1"); used != 1 {
		t.Fatalf("declined log must not count, got %d", used)
	}
	if _, ok, _ := svc.PendingCalculation(); !ok {
		t.Fatalf("declined log must keep the calculation")
	}

	if _, err := svc.Log(ctx); err != nil {
		t.Fatalf("confirmed log: %v", err)
	}
	if n, _, _ := svc.DosesToday(ctx, "Vial 1"); n != 2 {
		t.Fatalf("expected 2 doses today, got %d", n)
	}
}

func TestPastDateDoesNotCountToday(t *testing.T) {
	svc := newTestService(t, store.DefaultConfig(t.TempDir()), &scriptedConfirm{})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Calculate(ctx, referenceRequest("10/12/2026")); err != nil {
			t.Fatalf("calculate: %v", err)
		}
		if _, err := svc.Log(ctx); err != nil {
			t.Fatalf("log: %v", err)
		}
	}
	n, _, err := svc.DosesToday(ctx, "Vial 1")
	if err != nil {
		t.Fatalf("doses today: %v", err)
	}
	if n != 0 {
		t.Fatalf("past-dated doses counted as today: %d", n)
	}
}

func TestDeleteEntryRestoresUsage(t *testing.T) {
	c := &scriptedConfirm{answers: []bool{false, true}}
	svc := newTestService(t, store.DefaultConfig(t.TempDir()), c)
	ctx := context.Background()

	before, err := svc.Usage(ctx, "Vial 1")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if _, err := svc.Calculate(ctx, referenceRequest("")); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	logged, err := svc.Log(ctx)
	if err != nil {
		t.Fatalf("log: %v", err)
	}

	if _, err := svc.DeleteEntry(ctx, "Vial 1", logged.Row); !IsDeclined(err) {
		t.Fatalf("expected declined delete, got %v", err)
	}
	if rows, _ := svc.Rows(ctx, "Vial 1"); len(rows) != 1 {
		t.Fatalf("declined delete removed the row")
	}

	deleted, err := svc.DeleteEntry(ctx, "Vial 1", logged.Row)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Vial != "Vial 1" {
		t.Fatalf("unexpected deleted entry %+v", deleted)
	}
	after, _ := svc.Usage(ctx, "Vial 1")
	if after != before {
		t.Fatalf("expected usage %d after round trip, got %d", before, after)
	}
	if rows, _ := svc.Rows(ctx, "Vial 1"); len(rows) != 0 {
		t.Fatalf("expected empty log, got %v", rows)
	}
}

func TestDeleteEntryFloorsAtZero(t *testing.T) {
	svc := newTestService(t, store.DefaultConfig(t.TempDir()), &scriptedConfirm{answers: []bool{true}})
	ctx := context.Background()

	if _, err := svc.Calculate(ctx, referenceRequest("")); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	logged, err := svc.Log(ctx)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if err := svc.ResetUsage(ctx, "Vial 1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := svc.DeleteEntry(ctx, "Vial 1", logged.Row); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if used, _ := svc.Usage(ctx, "Vial 1"); used != 0 {
		t.Fatalf("expected usage floored at 0, got %d", used)
	}
}

func TestDeleteEntryErrors(t *testing.T) {
	c := &scriptedConfirm{answers: []bool{true}}
	svc := newTestService(t, store.DefaultConfig(t.TempDir()), c)
	ctx := context.Background()

	if _, err := svc.DeleteEntry(ctx, "Vial 1", " "); !errors.Is(err, errs.ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	_, err := svc.DeleteEntry(ctx, "Vial 1", "10/19/2026 08:30 AM,Vial 1,250,0.25,10.0,180.0")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if len(c.asked) != 0 {
		t.Fatalf("missing log must fail before asking, asked %v", c.asked)
	}
}

func TestDeleteEntryMissingRowDoesNotAsk(t *testing.T) {
	c := &scriptedConfirm{}
	svc := newTestService(t, store.DefaultConfig(t.TempDir()), c)
	ctx := context.Background()

	if _, err := svc.Calculate(ctx, referenceRequest("")); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if _, err := svc.Log(ctx); err != nil {
		t.Fatalf("log: %v", err)
	}

	_, err := svc.DeleteEntry(ctx, "Vial 1", "10/18/2026 08:30 AM,Vial 1,250,0.25,10.0,180.0")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if len(c.asked) != 0 {
		t.Fatalf("absent row must fail before asking, asked %v", c.asked)
	}
	if used, _ := svc.Usage(ctx, "Vial 1"); used != 1 {
		t.Fatalf("usage changed by a failed delete: %d", used)
	}
}

type appendFailsBackend struct {
	record.Backend
}

func (b appendFailsBackend) Open(name string) record.Lines {
	return appendFailsLines{b.Backend.Open(name)}
}

type appendFailsLines struct {
	record.Lines
}

func (appendFailsLines) Append(context.Context, string) error {
	return errs.Errorf(errs.StorageIO, "record: append", "disk full")
}

func TestLogAppendFailureKeepsCalculation(t *testing.T) {
	cfg := store.DefaultConfig(t.TempDir())
	svc := newTestService(t, cfg, &scriptedConfirm{})
	ctx := context.Background()

	if _, err := svc.Calculate(ctx, referenceRequest("")); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	failing := logbook.NewStore(appendFailsBackend{record.NewDir(cfg.Path)}, logbook.PerVial, cfg.Prefix())
	failing.Now = svc.LogStore.Now
	working := svc.LogStore
	svc.LogStore = failing

	if _, err := svc.Log(ctx); !errors.Is(err, errs.ErrStorageIO) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if _, ok, _ := svc.PendingCalculation(); !ok {
		t.Fatalf("failed log must keep the calculation pending")
	}
	if used, _ := svc.Usage(ctx, "Vial 1"); used != 0 {
		t.Fatalf("failed log must not count, got %d", used)
	}

	svc.LogStore = working
	if _, err := svc.Log(ctx); err != nil {
		t.Fatalf("retry log: %v", err)
	}
	rows, _ := svc.Rows(ctx, "Vial 1")
	if len(rows) != 1 {
		t.Fatalf("expected exactly one row after retry, got %v", rows)
	}
	if used, _ := svc.Usage(ctx, "Vial 1"); used != 1 {
		t.Fatalf("expected 1 used after retry, got %d", used)
	}
}

func TestUsageSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	cfg := store.DefaultConfig(dir)
	ctx := context.Background()

	svc := newTestService(t, cfg, &scriptedConfirm{})
	for _, date := range []string{"10/10/2026", "10/11/2026", "10/12/2026"} {
		if _, err := svc.Calculate(ctx, referenceRequest(date)); err != nil {
			t.Fatalf("calculate: %v", err)
		}
		if _, err := svc.Log(ctx); err != nil {
			t.Fatalf("log: %v", err)
		}
	}

	again := newTestService(t, cfg, &scriptedConfirm{})
	rep, err := again.Calculate(ctx, referenceRequest(""))
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if rep.Used != 3 || rep.Remaining != 37 {
		t.Fatalf("expected 3 used / 37 remaining after restart, got %d / %d", rep.Used, rep.Remaining)
	}
}

func TestUsageSeededFromLogWithoutCounts(t *testing.T) {
	dir := t.TempDir()
	rows := "10/10/2026 08:00 AM,Vial 1,250,0.25,10.0,180.0\n10/11/2026 08:00 AM,Vial 1,250,0.25,10.0,180.0\n"
	if err := os.WriteFile(filepath.Join(dir, "BPC157_Vial_1_Log.csv"), []byte(rows), 0o644); err != nil {
		t.Fatalf("seed log: %v", err)
	}
	svc := newTestService(t, store.DefaultConfig(dir), &scriptedConfirm{})
	ctx := context.Background()

	used, err := svc.Usage(ctx, "Vial 1")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if used != 2 {
		t.Fatalf("expected usage replayed from log, got %d", used)
	}

	if err := svc.ResetUsage(ctx, "Vial 1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if used, _ := svc.Usage(ctx, "Vial 1"); used != 0 {
		t.Fatalf("reset must win over replay, got %d", used)
	}
}

func TestLowVialWarning(t *testing.T) {
	svc := newTestService(t, store.DefaultConfig(t.TempDir()), &scriptedConfirm{})
	req := referenceRequest("")
	req.Input.DoseMcg = "2500" // 4 doses in a 10 mg vial
	rep, err := svc.Calculate(context.Background(), req)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if !rep.LowVial || rep.Remaining != 4 {
		t.Fatalf("expected low vial warning at 4 remaining, got %v %d", rep.LowVial, rep.Remaining)
	}
	if rep.Overflows() || rep.Fill() != 1 {
		t.Fatalf("a 1.0 mL draw fills a 1.0 mL syringe exactly, got %v units", rep.Units)
	}
}

func TestRepeatLogsToday(t *testing.T) {
	svc := newTestService(t, store.DefaultConfig(t.TempDir()), &scriptedConfirm{answers: []bool{true}})
	ctx := context.Background()

	if _, err := svc.Repeat(ctx); !errors.Is(err, errs.ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if _, err := svc.Calculate(ctx, referenceRequest("10/01/2026")); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if _, err := svc.Log(ctx); err != nil {
		t.Fatalf("log: %v", err)
	}
	logged, err := svc.Repeat(ctx)
	if err != nil {
		t.Fatalf("repeat: %v", err)
	}
	if logged.Entry.Date() != "10/19/2026" {
		t.Fatalf("expected repeat dated today, got %q", logged.Entry.Timestamp)
	}
	if used, _ := svc.Usage(ctx, "Vial 1"); used != 2 {
		t.Fatalf("expected 2 used, got %d", used)
	}
}

func TestProfilesLifecycle(t *testing.T) {
	c := &scriptedConfirm{answers: []bool{false, true, true}}
	svc := newTestService(t, store.DefaultConfig(t.TempDir()), c)
	ctx := context.Background()

	line, err := svc.SaveProfile(ctx, profile.Profile{Name: "Vial 1", Compound: "BPC-157", Size: "10", Bac: "4"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := svc.SaveProfile(ctx, profile.Profile{Name: "Vial 2", Size: "5", Bac: "2"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	p, last, ok := svc.LastProfile(ctx)
	if !ok || p.Name != "Vial 2" || last != "Vial 2||5|2" {
		t.Fatalf("expected last profile Vial 2, got %+v %q", p, last)
	}
	if _, err := svc.LoadProfile(ctx, line); err != nil {
		t.Fatalf("load: %v", err)
	}
	if p, _, _ := svc.LastProfile(ctx); p.Name != "Vial 1" {
		t.Fatalf("load should move the pointer, got %+v", p)
	}

	if err := svc.DeleteProfile(ctx, line); !IsDeclined(err) {
		t.Fatalf("expected declined, got %v", err)
	}
	if err := svc.DeleteProfile(ctx, line); err != nil {
		t.Fatalf("delete: %v", err)
	}
	lines, _ := svc.Profiles(ctx)
	if len(lines) != 1 || lines[0] != "Vial 2||5|2" {
		t.Fatalf("unexpected profiles %v", lines)
	}

	if err := svc.DeleteProfile(ctx, "Nope||1|1"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if again, _ := svc.Profiles(ctx); len(again) != 1 || again[0] != lines[0] {
		t.Fatalf("missing delete changed the store: %v", again)
	}
	if err := svc.DeleteProfile(ctx, ""); !errors.Is(err, errs.ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestSyringeSelection(t *testing.T) {
	svc := newTestService(t, store.DefaultConfig(t.TempDir()), &scriptedConfirm{})
	if got := svc.Syringe(); got != dose.DefaultSyringe {
		t.Fatalf("expected default syringe, got %v", got)
	}
	if _, err := svc.SetSyringe("0.7"); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.SetSyringe("0.3"); err != nil {
		t.Fatalf("set syringe: %v", err)
	}
	if got := svc.Syringe(); got != dose.Syringe30 {
		t.Fatalf("expected 0.3, got %v", got)
	}
}

func TestGlobalLayoutSQLiteBackend(t *testing.T) {
	cfg := store.DefaultConfig(t.TempDir())
	cfg.Layout = "global"
	cfg.StorageBackend = "sqlite"
	svc := newTestService(t, cfg, &scriptedConfirm{answers: []bool{true}})
	ctx := context.Background()

	if _, err := svc.Calculate(ctx, referenceRequest("")); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	logged, err := svc.Log(ctx)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if logged.Row != "10/19/2026 08:30 AM,BPC-157,Vial 1,250,0.25,10.0,180.0" {
		t.Fatalf("unexpected global row %q", logged.Row)
	}
	if _, err := os.Stat(filepath.Join(cfg.Path, "BPC157_dosebook.db")); err != nil {
		t.Fatalf("expected sqlite database: %v", err)
	}
	if _, err := svc.DeleteEntry(ctx, "", logged.Row); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if used, _ := svc.Usage(ctx, "Vial 1"); used != 0 {
		t.Fatalf("expected usage back to 0, got %d", used)
	}
}

func TestHistoryGroupsByDay(t *testing.T) {
	svc := newTestService(t, store.DefaultConfig(t.TempDir()), &scriptedConfirm{})
	ctx := context.Background()

	for _, date := range []string{"10/01/2026", "10/17/2026", "10/17/2026", "10/18/2026"} {
		if _, err := svc.Calculate(ctx, referenceRequest(date)); err != nil {
			t.Fatalf("calculate: %v", err)
		}
		if _, err := svc.Log(ctx); err != nil {
			t.Fatalf("log: %v", err)
		}
	}

	h, err := svc.History(ctx, "Vial 1", testNow.AddDate(0, 0, -7), testNow)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if h.Total != 3 || len(h.Days) != 2 {
		t.Fatalf("expected 3 doses over 2 days, got %d over %d", h.Total, len(h.Days))
	}
	if h.Days[0].TotalMg != 0.5 || h.TotalMg != 0.75 {
		t.Fatalf("unexpected totals %v %v", h.Days[0].TotalMg, h.TotalMg)
	}
}
